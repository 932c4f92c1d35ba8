package record

import (
	"context"

	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/ports/deliverytx"
)

// deliveryRepository defines storage operations required by the record service.
type deliveryRepository interface {
	deliverytx.Runner
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
	List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// catalogResolver resolves catalog references by id or by value.
type catalogResolver interface {
	Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntity, error)
	GetOrCreate(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (*domain.CatalogEntity, error)
}

// courierResolver checks that an explicit courier reference exists.
type courierResolver interface {
	Get(ctx context.Context, id int64) (*domain.Courier, error)
}
