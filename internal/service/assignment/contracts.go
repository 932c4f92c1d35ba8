package assignment

import (
	"context"

	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/ports/deliverytx"
)

// deliveryRepository defines storage operations required by the assignment engine.
type deliveryRepository interface {
	deliverytx.Runner
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
	SetStatus(ctx context.Context, id, statusID int64) (bool, error)
	SetMedia(ctx context.Context, id int64, ref string) (bool, error)
}

// statusResolver resolves status catalog entries by id.
type statusResolver interface {
	Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntity, error)
}

// courierMirror upserts the local reference row for an authenticated courier.
type courierMirror interface {
	Ensure(ctx context.Context, c domain.Courier) error
}
