package deliverytx

import (
	"context"

	"github.com/gargatun/aerodyne/internal/domain"
)

// Repository is the transaction-scoped slice of the delivery store. All
// methods run on one open transaction; GetClaimForUpdate takes the row lock
// that serializes check-then-set sequences on a single delivery.
type Repository interface {
	GetClaimForUpdate(ctx context.Context, id int64) (*domain.DeliveryClaim, error)
	SetCourier(ctx context.Context, id int64, courierID *int64) error
	InsertDelivery(ctx context.Context, rec *domain.DeliveryRecord) error
	UpdateFields(ctx context.Context, id int64, p domain.DeliveryPatch) (bool, error)
	ReplaceServices(ctx context.Context, deliveryID int64, serviceIDs []int64) error
	AddService(ctx context.Context, deliveryID, serviceID int64) (bool, error)
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
