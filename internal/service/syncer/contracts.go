package syncer

import (
	"context"

	"github.com/gargatun/aerodyne/internal/domain"
)

// recordPort is the slice of the record service the reconciler replays
// offline changes through.
type recordPort interface {
	Create(ctx context.Context, in domain.NewDelivery) (*domain.Delivery, error)
	Update(ctx context.Context, id int64, u domain.PartialDeliveryUpdate) (*domain.Delivery, error)
}
