package profile

import (
	"context"
	"time"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
)

// Service manages courier contact profiles. Profiles are created lazily on
// first access.
type Service struct {
	repo             profileRepository
	couriers         courierMirror
	operationTimeout time.Duration
}

// NewService creates and configures a profile Service.
func NewService(repo profileRepository, couriers courierMirror, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, couriers: couriers, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Get returns the caller's profile, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, user domain.Courier) (*domain.UserProfile, error) {
	if user.ID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.couriers.Ensure(ctx, user); err != nil {
		return nil, err
	}
	p, err := s.repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

// Update applies a partial update to the caller's profile.
func (s *Service) Update(ctx context.Context, user domain.Courier, u domain.PartialProfileUpdate) (*domain.UserProfile, error) {
	if user.ID <= 0 {
		return nil, apperr.ErrInvalid
	}
	if u.Phone == nil && u.Email == nil {
		return nil, apperr.ErrInvalid
	}

	// Lazy creation applies to updates too: touching the profile for the
	// first time materializes it.
	if _, err := s.Get(ctx, user); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.UpdatePartial(ctx, user.ID, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return s.repo.GetOrCreate(ctx, user.ID)
}
