package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
)

type stubReader struct {
	listFn        func(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error)
	coordinatesFn func(ctx context.Context) ([]domain.DeliveryPoint, error)
	statsFn       func(ctx context.Context, courierID int64, deliveredName string) (int64, int64, float64, error)
}

func (s *stubReader) List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
	if s.listFn == nil {
		panic("List not expected in this test")
	}
	return s.listFn(ctx, f)
}

func (s *stubReader) Coordinates(ctx context.Context) ([]domain.DeliveryPoint, error) {
	if s.coordinatesFn == nil {
		panic("Coordinates not expected in this test")
	}
	return s.coordinatesFn(ctx)
}

func (s *stubReader) Stats(ctx context.Context, courierID int64, deliveredName string) (int64, int64, float64, error) {
	if s.statsFn == nil {
		panic("Stats not expected in this test")
	}
	return s.statsFn(ctx, courierID, deliveredName)
}

type stubCatalog struct {
	getOrCreateFn func(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (*domain.CatalogEntity, error)
}

func (s *stubCatalog) GetOrCreate(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (*domain.CatalogEntity, error) {
	if s.getOrCreateFn == nil {
		panic("GetOrCreate not expected in this test")
	}
	return s.getOrCreateFn(ctx, kind, value)
}

func TestListAvailable_BuildsFilter(t *testing.T) {
	t.Parallel()

	var gotFilter domain.DeliveryFilter
	reader := &stubReader{
		listFn: func(_ context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
			gotFilter = f
			return []domain.Delivery{{ID: 3}}, nil
		},
	}
	cat := &stubCatalog{
		getOrCreateFn: func(_ context.Context, kind domain.CatalogKind, value domain.CatalogValue) (*domain.CatalogEntity, error) {
			assert.Equal(t, domain.KindStatus, kind)
			assert.Equal(t, domain.CatalogValue{Name: domain.StatusPending, Color: domain.DefaultStatusColor}, value)
			return &domain.CatalogEntity{ID: 12, Name: domain.StatusPending}, nil
		},
	}
	svc := NewService(reader, cat, time.Second)

	maxDistance := 42.5
	got, err := svc.ListAvailable(context.Background(), &maxDistance, domain.SortDistance, domain.OrderDesc)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.True(t, gotFilter.Unassigned)
	require.NotNil(t, gotFilter.StatusID)
	assert.Equal(t, int64(12), *gotFilter.StatusID)
	require.NotNil(t, gotFilter.MaxDistance)
	assert.Equal(t, 42.5, *gotFilter.MaxDistance)
	assert.Equal(t, domain.SortDistance, gotFilter.SortBy)
	assert.Equal(t, domain.OrderDesc, gotFilter.Order)
}

func TestListAvailable_InvalidSort(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubReader{}, &stubCatalog{}, time.Second)

	_, err := svc.ListAvailable(context.Background(), nil, domain.SortField("end_time"), domain.OrderAsc)
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = svc.ListAvailable(context.Background(), nil, domain.SortStartTime, domain.SortOrder("sideways"))
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestListAvailable_NegativeDistance(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubReader{}, &stubCatalog{}, time.Second)

	bad := -1.0
	_, err := svc.ListAvailable(context.Background(), &bad, domain.SortStartTime, domain.OrderAsc)
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestListMine_BuildsFilter(t *testing.T) {
	t.Parallel()

	var gotFilter domain.DeliveryFilter
	reader := &stubReader{
		listFn: func(_ context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
			gotFilter = f
			return nil, nil
		},
	}
	svc := NewService(reader, &stubCatalog{}, time.Second)

	_, err := svc.ListMine(context.Background(), 7)
	require.NoError(t, err)

	require.NotNil(t, gotFilter.CourierID)
	assert.Equal(t, int64(7), *gotFilter.CourierID)
	require.NotNil(t, gotFilter.ExcludeStatus)
	assert.Equal(t, domain.StatusDelivered, *gotFilter.ExcludeStatus)
	assert.Nil(t, gotFilter.StatusName)
}

func TestListHistory_BuildsFilter(t *testing.T) {
	t.Parallel()

	var gotFilter domain.DeliveryFilter
	reader := &stubReader{
		listFn: func(_ context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
			gotFilter = f
			return nil, nil
		},
	}
	svc := NewService(reader, &stubCatalog{}, time.Second)

	_, err := svc.ListHistory(context.Background(), 7)
	require.NoError(t, err)

	require.NotNil(t, gotFilter.CourierID)
	assert.Equal(t, int64(7), *gotFilter.CourierID)
	require.NotNil(t, gotFilter.StatusName)
	assert.Equal(t, domain.StatusDelivered, *gotFilter.StatusName)
	assert.Nil(t, gotFilter.ExcludeStatus)
}

func TestListMine_InvalidCourier(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubReader{}, &stubCatalog{}, time.Second)

	_, err := svc.ListMine(context.Background(), 0)
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = svc.ListHistory(context.Background(), -1)
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestProfileStats_Rounds(t *testing.T) {
	t.Parallel()

	reader := &stubReader{
		statsFn: func(_ context.Context, courierID int64, deliveredName string) (int64, int64, float64, error) {
			assert.Equal(t, int64(5), courierID)
			assert.Equal(t, domain.StatusDelivered, deliveredName)
			return 10, 8, 5430, nil
		},
	}
	svc := NewService(reader, &stubCatalog{}, time.Second)

	stats, err := svc.ProfileStats(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.TotalDeliveries)
	assert.Equal(t, int64(8), stats.SuccessfulDeliveries)
	assert.Equal(t, 5430.0, stats.TotalTimeSeconds)
	assert.Equal(t, 1.51, stats.TotalTimeHours)
}

func TestProfileStats_InvalidCourier(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubReader{}, &stubCatalog{}, time.Second)

	_, err := svc.ProfileStats(context.Background(), 0)
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}
