package record

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/logx"
	"github.com/gargatun/aerodyne/internal/ports/deliverytx"
)

// Service owns the delivery aggregate: creation with inline catalog
// resolution, partial updates and listing.
type Service struct {
	repo             deliveryRepository
	catalog          catalogResolver
	couriers         courierResolver
	logger           logx.Logger
	operationTimeout time.Duration
}

// NewService creates and configures a record Service.
func NewService(repo deliveryRepository, catalog catalogResolver, couriers courierResolver, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		catalog:          catalog,
		couriers:         couriers,
		logger:           logger,
		operationTimeout: timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateCreate(in *domain.NewDelivery) error {
	in.TransportNumber = strings.TrimSpace(in.TransportNumber)
	if in.TransportNumber == "" {
		return apperr.ErrInvalid
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return apperr.ErrInvalid
	}
	if in.EndTime.Before(in.StartTime) {
		return apperr.ErrInvalid
	}
	if in.Distance < 0 {
		return apperr.ErrInvalid
	}
	if in.TechnicalCondition == "" {
		in.TechnicalCondition = domain.ConditionOperational
	}
	if !in.TechnicalCondition.Valid() {
		return apperr.ErrInvalid
	}
	if in.TransportModel.Empty() || in.Packaging.Empty() || in.Status.Empty() {
		return apperr.ErrInvalid
	}
	return nil
}

// asInvalid converts a missing-reference error into a request error.
// An unknown id inside a payload is the caller's fault, not a missing
// resource, so it must not surface as ErrNotFound.
func asInvalid(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.ErrInvalid
	}
	return err
}

// resolveRef resolves one catalog reference. The id form takes precedence:
// when both id and value are present the value is ignored entirely. An id
// that does not resolve is a request error.
func (s *Service) resolveRef(ctx context.Context, kind domain.CatalogKind, ref domain.CatalogRef) (int64, error) {
	if ref.ID != nil {
		e, err := s.catalog.Get(ctx, kind, *ref.ID)
		if err != nil {
			return 0, asInvalid(err)
		}
		return e.ID, nil
	}
	if ref.Value != nil {
		e, err := s.catalog.GetOrCreate(ctx, kind, *ref.Value)
		if err != nil {
			return 0, err
		}
		return e.ID, nil
	}
	return 0, apperr.ErrInvalid
}

// resolveServices resolves service refs best-effort: a missing service id is
// logged and skipped, it never fails the whole operation.
func (s *Service) resolveServices(ctx context.Context, refs []domain.CatalogRef) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		id, err := s.resolveRef(ctx, domain.KindService, ref)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalid) {
				s.logger.Warn("skipping unresolvable service ref",
					logx.Any("service_id", ref.ID),
				)
				continue
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Create validates the input, resolves catalog references and persists the
// delivery with its service links in one transaction.
func (s *Service) Create(ctx context.Context, in domain.NewDelivery) (*domain.Delivery, error) {
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rec := domain.DeliveryRecord{
		TransportNumber:    in.TransportNumber,
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		Distance:           in.Distance,
		TechnicalCondition: in.TechnicalCondition,
		CourierID:          in.CourierID,
		SourceAddress:      in.SourceAddress,
		DestinationAddress: in.DestinationAddress,
		SourceLat:          in.SourceLat,
		SourceLon:          in.SourceLon,
		DestLat:            in.DestLat,
		DestLon:            in.DestLon,
	}

	var err error
	if rec.TransportModelID, err = s.resolveRef(ctx, domain.KindTransportModel, in.TransportModel); err != nil {
		return nil, err
	}
	if rec.PackagingID, err = s.resolveRef(ctx, domain.KindPackagingType, in.Packaging); err != nil {
		return nil, err
	}
	if rec.StatusID, err = s.resolveRef(ctx, domain.KindStatus, in.Status); err != nil {
		return nil, err
	}
	if in.CourierID != nil {
		c, err := s.couriers.Get(ctx, *in.CourierID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.ErrInvalid
		}
	}

	serviceIDs, err := s.resolveServices(ctx, in.Services)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		if err := tx.InsertDelivery(ctx, &rec); err != nil {
			return err
		}
		for _, sid := range serviceIDs {
			linked, err := tx.AddService(ctx, rec.ID, sid)
			if err != nil {
				return err
			}
			if !linked {
				s.logger.Warn("service vanished before linking",
					logx.Int64("delivery_id", rec.ID),
					logx.Int64("service_id", sid),
				)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery created",
		logx.Int64("delivery_id", rec.ID),
		logx.String("transport_number", rec.TransportNumber),
	)

	return s.Get(ctx, rec.ID)
}

// SimpleInput is the minimal composite-creation payload: catalog values by
// name, everything else defaulted.
type SimpleInput struct {
	TransportModel  string
	TransportNumber string
	Packaging       string
	StartTime       time.Time
	EndTime         time.Time
	Distance        float64
}

// CreateSimple creates a delivery from a minimal payload, resolving or
// creating every catalog value inline and starting in the Pending status.
func (s *Service) CreateSimple(ctx context.Context, in SimpleInput) (*domain.Delivery, error) {
	return s.Create(ctx, domain.NewDelivery{
		TransportModel:     domain.CatalogRef{Value: &domain.CatalogValue{Name: in.TransportModel}},
		TransportNumber:    in.TransportNumber,
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		Distance:           in.Distance,
		Packaging:          domain.CatalogRef{Value: &domain.CatalogValue{Name: in.Packaging}},
		Status:             domain.CatalogRef{Value: &domain.CatalogValue{Name: domain.StatusPending}},
		TechnicalCondition: domain.ConditionOperational,
	})
}

func validateUpdate(u *domain.PartialDeliveryUpdate) error {
	if u.Empty() {
		return apperr.ErrInvalid
	}
	if u.TransportNumber != nil && strings.TrimSpace(*u.TransportNumber) == "" {
		return apperr.ErrInvalid
	}
	if u.Distance != nil && *u.Distance < 0 {
		return apperr.ErrInvalid
	}
	if u.TechnicalCondition != nil && !u.TechnicalCondition.Valid() {
		return apperr.ErrInvalid
	}
	if u.TransportModel != nil && u.TransportModel.Empty() {
		return apperr.ErrInvalid
	}
	if u.Packaging != nil && u.Packaging.Empty() {
		return apperr.ErrInvalid
	}
	if u.Status != nil && u.Status.Empty() {
		return apperr.ErrInvalid
	}
	return nil
}

// Update applies a partial update. Catalog references are resolved before
// any write, so an unknown foreign id aborts the update with no partial
// mutation visible.
func (s *Service) Update(ctx context.Context, id int64, u domain.PartialDeliveryUpdate) (*domain.Delivery, error) {
	if id <= 0 {
		return nil, apperr.ErrInvalid
	}
	if err := validateUpdate(&u); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.ErrNotFound
	}

	// Timestamps are checked against the merged state, not just the patch.
	if u.StartTime != nil || u.EndTime != nil {
		start, end := current.StartTime, current.EndTime
		if u.StartTime != nil {
			start = *u.StartTime
		}
		if u.EndTime != nil {
			end = *u.EndTime
		}
		if end.Before(start) {
			return nil, apperr.ErrInvalid
		}
	}

	patch := domain.DeliveryPatch{
		TransportNumber:    u.TransportNumber,
		StartTime:          u.StartTime,
		EndTime:            u.EndTime,
		Distance:           u.Distance,
		TechnicalCondition: u.TechnicalCondition,
		CourierID:          u.CourierID,
		SourceAddress:      u.SourceAddress,
		DestinationAddress: u.DestinationAddress,
		SourceLat:          u.SourceLat,
		SourceLon:          u.SourceLon,
		DestLat:            u.DestLat,
		DestLon:            u.DestLon,
	}

	if u.TransportModel != nil {
		rid, err := s.resolveRef(ctx, domain.KindTransportModel, *u.TransportModel)
		if err != nil {
			return nil, err
		}
		patch.TransportModelID = &rid
	}
	if u.Packaging != nil {
		rid, err := s.resolveRef(ctx, domain.KindPackagingType, *u.Packaging)
		if err != nil {
			return nil, err
		}
		patch.PackagingID = &rid
	}
	if u.Status != nil {
		rid, err := s.resolveRef(ctx, domain.KindStatus, *u.Status)
		if err != nil {
			return nil, err
		}
		patch.StatusID = &rid
	}
	if u.CourierID != nil {
		c, err := s.couriers.Get(ctx, *u.CourierID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.ErrInvalid
		}
	}

	var serviceIDs []int64
	if u.Services != nil {
		if serviceIDs, err = s.resolveServices(ctx, *u.Services); err != nil {
			return nil, err
		}
	}

	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		ok, err := tx.UpdateFields(ctx, id, patch)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrNotFound
		}
		if u.Services != nil {
			return tx.ReplaceServices(ctx, id, serviceIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Get retrieves a delivery by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	return d, nil
}

// List returns deliveries matching the filter.
func (s *Service) List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
	if !f.SortBy.Valid() || !f.Order.Valid() {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, f)
}

// Delete removes a delivery. This is a plain storage operation; the
// lifecycle rules never delete deliveries on their own.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}
