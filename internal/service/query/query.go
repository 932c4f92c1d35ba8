package query

import (
	"context"
	"math"
	"time"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
)

// Service derives delivery listings and per-courier statistics. It never
// mutates deliveries; the only write it can cause is materializing a
// well-known status row on first use.
type Service struct {
	repo             deliveryReader
	catalog          statusCatalog
	operationTimeout time.Duration
}

// NewService creates and configures a query Service.
func NewService(repo deliveryReader, catalog statusCatalog, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, catalog: catalog, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// ListAvailable returns unassigned deliveries in the Pending status. The
// Pending row is created on first use so the query cannot fail merely
// because it has not been materialized yet.
func (s *Service) ListAvailable(ctx context.Context, maxDistance *float64, sortBy domain.SortField, order domain.SortOrder) ([]domain.Delivery, error) {
	if !sortBy.Valid() || !order.Valid() {
		return nil, apperr.ErrInvalid
	}
	if maxDistance != nil && *maxDistance < 0 {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pending, err := s.catalog.GetOrCreate(ctx, domain.KindStatus, domain.CatalogValue{
		Name:  domain.StatusPending,
		Color: domain.DefaultStatusColor,
	})
	if err != nil {
		return nil, err
	}

	return s.repo.List(ctx, domain.DeliveryFilter{
		Unassigned:  true,
		StatusID:    &pending.ID,
		MaxDistance: maxDistance,
		SortBy:      sortBy,
		Order:       order,
	})
}

// ListMine returns the courier's not-yet-delivered deliveries.
func (s *Service) ListMine(ctx context.Context, courierID int64) ([]domain.Delivery, error) {
	if courierID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	delivered := domain.StatusDelivered
	return s.repo.List(ctx, domain.DeliveryFilter{
		CourierID:     &courierID,
		ExcludeStatus: &delivered,
	})
}

// ListHistory returns the courier's delivered deliveries.
func (s *Service) ListHistory(ctx context.Context, courierID int64) ([]domain.Delivery, error) {
	if courierID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	delivered := domain.StatusDelivered
	return s.repo.List(ctx, domain.DeliveryFilter{
		CourierID:  &courierID,
		StatusName: &delivered,
	})
}

// ListCoordinates returns coordinate projections of unassigned deliveries.
// Rows missing any of the four coordinates are excluded by the storage layer.
func (s *Service) ListCoordinates(ctx context.Context) ([]domain.DeliveryPoint, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Coordinates(ctx)
}

// ProfileStats aggregates the courier's totals. Delivery time sums
// end_time - start_time over delivered rows, reported in seconds and hours,
// both rounded to 2 decimal places.
func (s *Service) ProfileStats(ctx context.Context, courierID int64) (domain.ProfileStats, error) {
	if courierID <= 0 {
		return domain.ProfileStats{}, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	total, successful, seconds, err := s.repo.Stats(ctx, courierID, domain.StatusDelivered)
	if err != nil {
		return domain.ProfileStats{}, err
	}

	return domain.ProfileStats{
		TotalDeliveries:      total,
		SuccessfulDeliveries: successful,
		TotalTimeSeconds:     round2(seconds),
		TotalTimeHours:       round2(seconds / 3600),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
