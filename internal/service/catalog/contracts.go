package catalog

import (
	"context"

	"github.com/gargatun/aerodyne/internal/domain"
)

// catalogRepository defines storage operations required by the business layer.
type catalogRepository interface {
	GetOrCreate(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (*domain.CatalogEntity, error)
	Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntity, error)
	List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntity, error)
	Create(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (int64, error)
	UpdatePartial(ctx context.Context, kind domain.CatalogKind, id int64, name, color *string) (bool, error)
	Delete(ctx context.Context, kind domain.CatalogKind, id int64) (bool, error)
}
