package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gargatun/aerodyne/internal/domain"
)

// ProfileRepo stores courier contact profiles.
type ProfileRepo struct{ db *pgxpool.Pool }

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *pgxpool.Pool) *ProfileRepo { return &ProfileRepo{db: db} }

// GetOrCreate returns the profile for a user, creating an empty row on first
// access. The insert is idempotent under concurrent first calls.
func (r *ProfileRepo) GetOrCreate(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	if _, err := r.db.Exec(ctx, `
        INSERT INTO user_profiles (user_id) VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING
    `, userID); err != nil {
		return nil, fmt.Errorf("create profile for user %d: %w", userID, err)
	}

	var p domain.UserProfile
	err := r.db.QueryRow(ctx, `
        SELECT c.id, c.name, up.phone, up.email
        FROM user_profiles up
        JOIN couriers c ON c.id = up.user_id
        WHERE up.user_id = $1
    `, userID).Scan(&p.User.ID, &p.User.Name, &p.Phone, &p.Email)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile for user %d: %w", userID, err)
	}
	return &p, nil
}

// UpdatePartial applies a partial update and returns true if a row was affected.
func (r *ProfileRepo) UpdatePartial(ctx context.Context, userID int64, u domain.PartialProfileUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE user_profiles
        SET
            phone = COALESCE($2, phone),
            email = COALESCE($3, email)
        WHERE user_id = $1
    `, userID, u.Phone, u.Email)
	if err != nil {
		return false, fmt.Errorf("update profile for user %d: %w", userID, err)
	}
	return ct.RowsAffected() > 0, nil
}
