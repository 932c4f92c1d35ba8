package query

import (
	"context"

	"github.com/gargatun/aerodyne/internal/domain"
)

// deliveryReader defines read operations required by the query service.
type deliveryReader interface {
	List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error)
	Coordinates(ctx context.Context) ([]domain.DeliveryPoint, error)
	Stats(ctx context.Context, courierID int64, deliveredName string) (total, successful int64, seconds float64, err error)
}

// statusCatalog materializes well-known status rows on first use.
type statusCatalog interface {
	GetOrCreate(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (*domain.CatalogEntity, error)
}
