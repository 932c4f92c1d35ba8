//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/logx"
	"github.com/gargatun/aerodyne/internal/ports/deliverytx"
	"github.com/gargatun/aerodyne/internal/repository"
	"github.com/gargatun/aerodyne/internal/service/assignment"
)

// deliveryRefs holds the catalog and courier rows a delivery row needs.
type deliveryRefs struct {
	transportModelID int64
	packagingID      int64
	pendingStatusID  int64
	deliveredID      int64
	serviceIDs       []int64
	courierID        int64
}

func seedDeliveryRefs(s suite.Suite, pool *pgxpool.Pool) deliveryRefs {
	ctx := context.Background()
	catalog := repository.NewCatalogRepo(pool)
	couriers := repository.NewCourierRepo(pool)

	var refs deliveryRefs
	var err error

	refs.transportModelID, err = catalog.Create(ctx, domain.KindTransportModel, domain.CatalogValue{Name: "Van"})
	s.Require().NoError(err)
	refs.packagingID, err = catalog.Create(ctx, domain.KindPackagingType, domain.CatalogValue{Name: "Box"})
	s.Require().NoError(err)
	refs.pendingStatusID, err = catalog.Create(ctx, domain.KindStatus, domain.CatalogValue{Name: domain.StatusPending})
	s.Require().NoError(err)
	refs.deliveredID, err = catalog.Create(ctx, domain.KindStatus, domain.CatalogValue{Name: domain.StatusDelivered, Color: "green"})
	s.Require().NoError(err)

	for _, name := range []string{"Loading", "Insurance"} {
		id, err := catalog.Create(ctx, domain.KindService, domain.CatalogValue{Name: name})
		s.Require().NoError(err)
		refs.serviceIDs = append(refs.serviceIDs, id)
	}

	refs.courierID = 42
	s.Require().NoError(couriers.Ensure(ctx, domain.Courier{ID: refs.courierID, Name: "Ivan"}))

	return refs
}

// insertDeliveryRow creates a minimal delivery through the production write
// path and returns its id.
func insertDeliveryRow(s suite.Suite, pool *pgxpool.Pool, refs deliveryRefs, courierID *int64, start, end time.Time, distance float64) int64 {
	repo := repository.NewDeliveryRepo(pool)
	rec := domain.DeliveryRecord{
		TransportModelID:   refs.transportModelID,
		TransportNumber:    "A123BC",
		StartTime:          start,
		EndTime:            end,
		Distance:           distance,
		PackagingID:        refs.packagingID,
		StatusID:           refs.pendingStatusID,
		TechnicalCondition: domain.ConditionOperational,
		CourierID:          courierID,
		SourceAddress:      "Tverskaya 1",
		DestinationAddress: "Arbat 2",
	}
	err := repo.WithTx(context.Background(), func(tx deliverytx.Repository) error {
		return tx.InsertDelivery(context.Background(), &rec)
	})
	s.Require().NoError(err)
	return rec.ID
}

type DeliveryRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.DeliveryRepo
	refs deliveryRefs
}

func (s *DeliveryRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewDeliveryRepo(tcPool)
}

func (s *DeliveryRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), s.pool))
	s.refs = seedDeliveryRefs(s.Suite, s.pool)
}

func (s *DeliveryRepositorySuite) insert(courierID *int64, distance float64) int64 {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return insertDeliveryRow(s.Suite, s.pool, s.refs, courierID, start, start.Add(2*time.Hour), distance)
}

func (s *DeliveryRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	lat, lon := 55.75, 37.61
	rec := domain.DeliveryRecord{
		TransportModelID:   s.refs.transportModelID,
		TransportNumber:    "B777XY",
		StartTime:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		EndTime:            time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		Distance:           14.2,
		PackagingID:        s.refs.packagingID,
		StatusID:           s.refs.pendingStatusID,
		TechnicalCondition: domain.ConditionOperational,
		SourceAddress:      "Tverskaya 1",
		DestinationAddress: "Arbat 2",
		SourceLat:          &lat,
		SourceLon:          &lon,
	}

	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		if err := tx.InsertDelivery(ctx, &rec); err != nil {
			return err
		}
		return tx.ReplaceServices(ctx, rec.ID, s.refs.serviceIDs)
	})
	s.Require().NoError(err)
	s.Require().NotZero(rec.ID)

	got, err := s.repo.Get(ctx, rec.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal("B777XY", got.TransportNumber)
	s.Equal("Van", got.TransportModel.Name)
	s.Equal("Box", got.Packaging.Name)
	s.Equal(domain.StatusPending, got.Status.Name)
	s.Equal(domain.DefaultStatusColor, got.Status.Color)
	s.Equal(domain.ConditionOperational, got.TechnicalCondition)
	s.Nil(got.Courier)
	s.Require().NotNil(got.SourceLat)
	s.InDelta(55.75, *got.SourceLat, 1e-9)
	s.Nil(got.DestLat)
	s.Len(got.Services, 2)
	s.Equal("Loading", got.Services[0].Name)
}

func (s *DeliveryRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), 9999)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *DeliveryRepositorySuite) TestList_Filters() {
	ctx := context.Background()

	unassigned := s.insert(nil, 5)
	_ = s.insert(&s.refs.courierID, 15)
	far := s.insert(nil, 50)

	list, err := s.repo.List(ctx, domain.DeliveryFilter{Unassigned: true})
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(unassigned, list[0].ID)
	s.Equal(far, list[1].ID)

	maxDist := 20.0
	list, err = s.repo.List(ctx, domain.DeliveryFilter{Unassigned: true, MaxDistance: &maxDist})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(unassigned, list[0].ID)

	list, err = s.repo.List(ctx, domain.DeliveryFilter{CourierID: &s.refs.courierID})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Require().NotNil(list[0].Courier)
	s.Equal("Ivan", list[0].Courier.Name)
}

func (s *DeliveryRepositorySuite) TestList_StatusNames() {
	ctx := context.Background()

	id1 := s.insert(&s.refs.courierID, 5)
	id2 := s.insert(&s.refs.courierID, 8)

	ok, err := s.repo.SetStatus(ctx, id2, s.refs.deliveredID)
	s.Require().NoError(err)
	s.True(ok)

	delivered := domain.StatusDelivered
	list, err := s.repo.List(ctx, domain.DeliveryFilter{CourierID: &s.refs.courierID, StatusName: &delivered})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(id2, list[0].ID)
	s.Equal("green", list[0].Status.Color)

	list, err = s.repo.List(ctx, domain.DeliveryFilter{CourierID: &s.refs.courierID, ExcludeStatus: &delivered})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(id1, list[0].ID)
}

func (s *DeliveryRepositorySuite) TestList_SortByDistanceDesc() {
	ctx := context.Background()

	near := s.insert(nil, 1)
	far := s.insert(nil, 30)
	mid := s.insert(nil, 10)

	list, err := s.repo.List(ctx, domain.DeliveryFilter{SortBy: domain.SortDistance, Order: domain.OrderDesc})
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]int64{far, mid, near}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func (s *DeliveryRepositorySuite) TestList_Empty() {
	list, err := s.repo.List(context.Background(), domain.DeliveryFilter{})
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *DeliveryRepositorySuite) TestClaim_SetAndClearCourier() {
	ctx := context.Background()

	id := s.insert(nil, 5)

	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		claim, err := tx.GetClaimForUpdate(ctx, id)
		if err != nil {
			return err
		}
		s.Require().NotNil(claim)
		s.Nil(claim.CourierID)
		s.Equal(s.refs.pendingStatusID, claim.StatusID)
		return tx.SetCourier(ctx, id, &s.refs.courierID)
	})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got.Courier)
	s.Equal(s.refs.courierID, got.Courier.ID)

	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		claim, err := tx.GetClaimForUpdate(ctx, id)
		if err != nil {
			return err
		}
		s.Require().NotNil(claim.CourierID)
		s.Equal(s.refs.courierID, *claim.CourierID)
		return tx.SetCourier(ctx, id, nil)
	})
	s.Require().NoError(err)

	got, err = s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Nil(got.Courier)
}

func (s *DeliveryRepositorySuite) TestAssign_ConcurrentClaims_OnlyOneWins() {
	ctx := context.Background()

	id := s.insert(nil, 5)

	svc := assignment.NewService(
		s.repo,
		repository.NewCatalogRepo(s.pool),
		repository.NewCourierRepo(s.pool),
		nil, nil, 5*time.Second, logx.Nop(),
	)

	claimants := []domain.Courier{{ID: 101, Name: "Ivan"}, {ID: 102, Name: "Petr"}}

	start := make(chan struct{})
	errs := make([]error, len(claimants))

	var wg sync.WaitGroup
	for i, c := range claimants {
		wg.Add(1)
		go func(i int, c domain.Courier) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Assign(ctx, id, c)
		}(i, c)
	}
	close(start)
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperr.ErrAlreadyAssigned):
			conflicts++
		default:
			s.Failf("unexpected assign error", "%v", err)
		}
	}
	s.Equal(1, wins, "exactly one claim must win")
	s.Equal(1, conflicts, "the loser must observe the winner's claim")

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got.Courier)
	s.Contains([]int64{101, 102}, got.Courier.ID)
}

func (s *DeliveryRepositorySuite) TestClaim_MissingDelivery() {
	err := s.repo.WithTx(context.Background(), func(tx deliverytx.Repository) error {
		claim, err := tx.GetClaimForUpdate(context.Background(), 9999)
		s.Require().NoError(err)
		s.Nil(claim)
		return nil
	})
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) TestWithTx_RollsBackOnError() {
	ctx := context.Background()

	id := s.insert(nil, 5)
	boom := errors.New("boom")

	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		if err := tx.SetCourier(ctx, id, &s.refs.courierID); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	// назначение не должно пережить откат
	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Nil(got.Courier)
}

func (s *DeliveryRepositorySuite) TestUpdateFields_Partial() {
	ctx := context.Background()

	id := s.insert(nil, 5)

	newNumber := "C001AA"
	newDistance := 9.5
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		ok, err := tx.UpdateFields(ctx, id, domain.DeliveryPatch{
			TransportNumber: &newNumber,
			Distance:        &newDistance,
		})
		s.Require().NoError(err)
		s.True(ok)
		return nil
	})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("C001AA", got.TransportNumber)
	s.InDelta(9.5, got.Distance, 1e-9)
	s.Equal("Tverskaya 1", got.SourceAddress, "untouched columns must keep their values")
}

func (s *DeliveryRepositorySuite) TestReplaceServices_ClearsAll() {
	ctx := context.Background()

	id := s.insert(nil, 5)

	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		return tx.ReplaceServices(ctx, id, s.refs.serviceIDs)
	})
	s.Require().NoError(err)

	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		return tx.ReplaceServices(ctx, id, nil)
	})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.NotNil(got.Services)
	s.Empty(got.Services)
}

func (s *DeliveryRepositorySuite) TestAddService_UnknownServiceIsSkipped() {
	ctx := context.Background()

	id := s.insert(nil, 5)

	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		ok, err := tx.AddService(ctx, id, 9999)
		s.Require().NoError(err)
		s.False(ok)
		return nil
	})
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) TestSetMedia() {
	ctx := context.Background()

	id := s.insert(nil, 5)

	ok, err := s.repo.SetMedia(ctx, id, "deliveries/2026/03/01/abc.jpg")
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got.MediaFile)
	s.Equal("deliveries/2026/03/01/abc.jpg", *got.MediaFile)
}

func (s *DeliveryRepositorySuite) TestDelete() {
	ctx := context.Background()

	id := s.insert(nil, 5)

	ok, err := s.repo.Delete(ctx, id)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.repo.Delete(ctx, id)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *DeliveryRepositorySuite) TestCoordinates_SkipsIncompleteRows() {
	ctx := context.Background()

	withCoords := s.insert(nil, 5)
	noCoords := s.insert(nil, 5)
	assigned := s.insert(&s.refs.courierID, 5)

	_, err := s.pool.Exec(ctx, `
		UPDATE deliveries
		SET source_lat = 55.75, source_lon = 37.61, dest_lat = 55.70, dest_lon = 37.50
		WHERE id = $1
	`, withCoords)
	s.Require().NoError(err)
	_, err = s.pool.Exec(ctx, `
		UPDATE deliveries
		SET source_lat = 55.75, source_lon = 37.61, dest_lat = 55.70, dest_lon = 37.50
		WHERE id = $1
	`, assigned)
	s.Require().NoError(err)

	points, err := s.repo.Coordinates(ctx)
	s.Require().NoError(err)
	s.Require().Len(points, 1, "assigned rows and rows without full coordinates must be excluded")
	s.Equal(withCoords, points[0].ID)
	s.NotEqual(noCoords, points[0].ID)
	s.InDelta(55.75, points[0].SourceLat, 1e-9)
}

func (s *DeliveryRepositorySuite) TestStats() {
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d1 := insertDeliveryRow(s.Suite, s.pool, s.refs, &s.refs.courierID, start, start.Add(90*time.Minute), 5)
	d2 := insertDeliveryRow(s.Suite, s.pool, s.refs, &s.refs.courierID, start, start.Add(30*time.Minute), 8)
	_ = insertDeliveryRow(s.Suite, s.pool, s.refs, &s.refs.courierID, start, start.Add(8*time.Hour), 3)

	for _, id := range []int64{d1, d2} {
		ok, err := s.repo.SetStatus(ctx, id, s.refs.deliveredID)
		s.Require().NoError(err)
		s.True(ok)
	}

	total, successful, seconds, err := s.repo.Stats(ctx, s.refs.courierID, domain.StatusDelivered)
	s.Require().NoError(err)

	s.Equal(int64(3), total)
	s.Equal(int64(2), successful)
	// только доставленные попадают в сумму времени
	s.InDelta(float64(90*60+30*60), seconds, 1e-6)
}

func (s *DeliveryRepositorySuite) TestStats_NoDeliveries() {
	total, successful, seconds, err := s.repo.Stats(context.Background(), 777, domain.StatusDelivered)
	s.Require().NoError(err)
	s.Zero(total)
	s.Zero(successful)
	s.Zero(seconds)
}

func (s *DeliveryRepositorySuite) TestGet_ContextCanceled_ReturnsError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := s.repo.Get(ctx, 1)
	s.Nil(got)
	s.Error(err)
}

func TestDeliveryRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositorySuite))
}
