package profile

import (
	"context"

	"github.com/gargatun/aerodyne/internal/domain"
)

// profileRepository defines storage operations required by the profile service.
type profileRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.UserProfile, error)
	UpdatePartial(ctx context.Context, userID int64, u domain.PartialProfileUpdate) (bool, error)
}

// courierMirror upserts the local reference row for an authenticated courier.
type courierMirror interface {
	Ensure(ctx context.Context, c domain.Courier) error
}
