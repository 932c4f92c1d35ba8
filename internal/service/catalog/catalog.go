package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
)

// Service coordinates catalog business logic and orchestrates repository calls.
type Service struct {
	repo             catalogRepository
	operationTimeout time.Duration
}

// NewService creates and configures a catalog Service.
func NewService(r catalogRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateValue(v *domain.CatalogValue) error {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return apperr.ErrInvalid
	}
	return nil
}

// GetOrCreate returns the entity with the given name, creating it on first
// use. Concurrent first-use callers converge on one stored row.
func (s *Service) GetOrCreate(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (*domain.CatalogEntity, error) {
	if !kind.Valid() {
		return nil, apperr.ErrInvalid
	}
	if err := validateValue(&value); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	e, err := s.repo.GetOrCreate(ctx, kind, value)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperr.ErrNotFound
	}
	return e, nil
}

// Get retrieves a catalog entity by its ID.
func (s *Service) Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntity, error) {
	if !kind.Valid() || id <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	e, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperr.ErrNotFound
	}
	return e, nil
}

// List returns all entities of a catalog ordered by id.
func (s *Service) List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntity, error) {
	if !kind.Valid() {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, kind)
}

// Create persists a new catalog entity and returns its generated ID.
func (s *Service) Create(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (int64, error) {
	if !kind.Valid() {
		return 0, apperr.ErrInvalid
	}
	if err := validateValue(&value); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, kind, value)
}

// UpdatePartial applies a partial update to a catalog entity.
func (s *Service) UpdatePartial(ctx context.Context, kind domain.CatalogKind, id int64, name, color *string) error {
	if !kind.Valid() || id <= 0 {
		return apperr.ErrInvalid
	}
	if name == nil && color == nil {
		return apperr.ErrInvalid
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return apperr.ErrInvalid
	}
	if color != nil && kind != domain.KindStatus {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.UpdatePartial(ctx, kind, id, name, color)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a catalog entity. Entities still referenced by deliveries
// are protected by the storage layer and surface as a conflict.
func (s *Service) Delete(ctx context.Context, kind domain.CatalogKind, id int64) error {
	if !kind.Valid() || id <= 0 {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.Delete(ctx, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}
