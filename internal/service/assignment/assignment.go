package assignment

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/logx"
	"github.com/gargatun/aerodyne/internal/ports/deliverytx"
	"github.com/gargatun/aerodyne/internal/storage/media"
)

// Service enforces exclusive single-courier assignment and owns the
// courier/status/media mutations of a delivery.
type Service struct {
	repo             deliveryRepository
	statuses         statusResolver
	couriers         courierMirror
	store            media.Store
	conflicts        prometheus.Counter
	logger           logx.Logger
	operationTimeout time.Duration
}

// NewService creates and configures an assignment Service.
func NewService(repo deliveryRepository, statuses statusResolver, couriers courierMirror, store media.Store, conflicts prometheus.Counter, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		statuses:         statuses,
		couriers:         couriers,
		store:            store,
		conflicts:        conflicts,
		logger:           logger,
		operationTimeout: timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// reread returns the post-mutation state of a delivery. The row may have
// been deleted between the mutation and the read.
func (s *Service) reread(ctx context.Context, id int64) (*domain.Delivery, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	return d, nil
}

// Assign claims a delivery for the requesting courier. The check-then-set on
// the courier field runs under a row lock, so two racing claims cannot both
// succeed: the loser observes the winner's assignment and fails.
func (s *Service) Assign(ctx context.Context, deliveryID int64, requester domain.Courier) (*domain.Delivery, error) {
	if deliveryID <= 0 || requester.ID <= 0 {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.couriers.Ensure(ctx, requester); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		claim, err := tx.GetClaimForUpdate(ctx, deliveryID)
		if err != nil {
			return err
		}
		if claim == nil {
			return apperr.ErrNotFound
		}
		if claim.CourierID != nil {
			if s.conflicts != nil {
				s.conflicts.Inc()
			}
			return apperr.ErrAlreadyAssigned
		}
		return tx.SetCourier(ctx, deliveryID, &requester.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery assigned",
		logx.String("event", "delivery_assigned"),
		logx.Int64("delivery_id", deliveryID),
		logx.Int64("courier_id", requester.ID),
	)

	return s.reread(ctx, deliveryID)
}

// Unassign releases a delivery held by the requesting courier. Only the
// current owner may release it.
func (s *Service) Unassign(ctx context.Context, deliveryID int64, requester domain.Courier) (*domain.Delivery, error) {
	if deliveryID <= 0 || requester.ID <= 0 {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		claim, err := tx.GetClaimForUpdate(ctx, deliveryID)
		if err != nil {
			return err
		}
		if claim == nil {
			return apperr.ErrNotFound
		}
		if claim.CourierID == nil || *claim.CourierID != requester.ID {
			return apperr.ErrNotOwner
		}
		return tx.SetCourier(ctx, deliveryID, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery unassigned",
		logx.String("event", "delivery_unassigned"),
		logx.Int64("delivery_id", deliveryID),
		logx.Int64("courier_id", requester.ID),
	)

	return s.reread(ctx, deliveryID)
}

// SetStatus replaces the delivery status unconditionally. Status is open
// catalog data: any status may follow any other.
func (s *Service) SetStatus(ctx context.Context, deliveryID, statusID int64) (*domain.Delivery, error) {
	if deliveryID <= 0 || statusID <= 0 {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	status, err := s.statuses.Get(ctx, domain.KindStatus, statusID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.SetStatus(ctx, deliveryID, status.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}

	s.logger.Info("delivery status updated",
		logx.Int64("delivery_id", deliveryID),
		logx.String("status", status.Name),
	)

	return s.reread(ctx, deliveryID)
}

// AttachMedia stores an uploaded evidence file and records its reference on
// the delivery, overwriting any prior attachment.
func (s *Service) AttachMedia(ctx context.Context, deliveryID int64, filename string, file io.Reader) (string, error) {
	if deliveryID <= 0 {
		return "", apperr.ErrInvalid
	}
	if file == nil || strings.TrimSpace(filename) == "" {
		return "", apperr.ErrNoFile
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Existence check first so a missing delivery does not leave an
	// orphaned file in the store.
	d, err := s.repo.Get(ctx, deliveryID)
	if err != nil {
		return "", err
	}
	if d == nil {
		return "", apperr.ErrNotFound
	}

	ref, err := s.store.Save(ctx, filename, file)
	if err != nil {
		return "", err
	}

	ok, err := s.repo.SetMedia(ctx, deliveryID, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.ErrNotFound
	}

	s.logger.Info("media attached",
		logx.Int64("delivery_id", deliveryID),
		logx.String("media_file", ref),
	)

	return ref, nil
}
