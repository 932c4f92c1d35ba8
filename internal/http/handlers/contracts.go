package handlers

import (
	"context"
	"io"

	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/service/assignment"
	"github.com/gargatun/aerodyne/internal/service/catalog"
	"github.com/gargatun/aerodyne/internal/service/profile"
	"github.com/gargatun/aerodyne/internal/service/query"
	"github.com/gargatun/aerodyne/internal/service/record"
	"github.com/gargatun/aerodyne/internal/service/syncer"
)

type catalogUsecase interface {
	Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntity, error)
	List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntity, error)
	Create(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (int64, error)
	UpdatePartial(ctx context.Context, kind domain.CatalogKind, id int64, name, color *string) error
	Delete(ctx context.Context, kind domain.CatalogKind, id int64) error
}

// NewCatalogUsecase wires a catalog Service into a catalogUsecase.
func NewCatalogUsecase(svc *catalog.Service) catalogUsecase {
	return svc
}

type recordUsecase interface {
	Create(ctx context.Context, in domain.NewDelivery) (*domain.Delivery, error)
	CreateSimple(ctx context.Context, in record.SimpleInput) (*domain.Delivery, error)
	Update(ctx context.Context, id int64, u domain.PartialDeliveryUpdate) (*domain.Delivery, error)
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
	List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error)
	Delete(ctx context.Context, id int64) error
}

// NewRecordUsecase wires a record Service into a recordUsecase.
func NewRecordUsecase(svc *record.Service) recordUsecase {
	return svc
}

type assignmentUsecase interface {
	Assign(ctx context.Context, deliveryID int64, requester domain.Courier) (*domain.Delivery, error)
	Unassign(ctx context.Context, deliveryID int64, requester domain.Courier) (*domain.Delivery, error)
	SetStatus(ctx context.Context, deliveryID, statusID int64) (*domain.Delivery, error)
	AttachMedia(ctx context.Context, deliveryID int64, filename string, file io.Reader) (string, error)
}

// NewAssignmentUsecase wires an assignment Service into an assignmentUsecase.
func NewAssignmentUsecase(svc *assignment.Service) assignmentUsecase {
	return svc
}

type queryUsecase interface {
	ListAvailable(ctx context.Context, maxDistance *float64, sortBy domain.SortField, order domain.SortOrder) ([]domain.Delivery, error)
	ListMine(ctx context.Context, courierID int64) ([]domain.Delivery, error)
	ListHistory(ctx context.Context, courierID int64) ([]domain.Delivery, error)
	ListCoordinates(ctx context.Context) ([]domain.DeliveryPoint, error)
	ProfileStats(ctx context.Context, courierID int64) (domain.ProfileStats, error)
}

// NewQueryUsecase wires a query Service into a queryUsecase.
func NewQueryUsecase(svc *query.Service) queryUsecase {
	return svc
}

type syncUsecase interface {
	Reconcile(ctx context.Context, changes []syncer.Change) []syncer.Outcome
}

// NewSyncUsecase wires a Reconciler into a syncUsecase.
func NewSyncUsecase(rec *syncer.Reconciler) syncUsecase {
	return rec
}

type profileUsecase interface {
	Get(ctx context.Context, user domain.Courier) (*domain.UserProfile, error)
	Update(ctx context.Context, user domain.Courier, u domain.PartialProfileUpdate) (*domain.UserProfile, error)
}

// NewProfileUsecase wires a profile Service into a profileUsecase.
func NewProfileUsecase(svc *profile.Service) profileUsecase {
	return svc
}
