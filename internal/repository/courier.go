package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gargatun/aerodyne/internal/domain"
)

// CourierRepo maintains the local mirror of external courier identities.
// Rows are owned by the auth provider; the mirror exists so delivery rows
// can reference couriers with real foreign keys.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

// Get - returns a courier reference by its ID, or nil if missing.
func (r *CourierRepo) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	var c domain.Courier
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM couriers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d: %w", id, err)
	}
	return &c, nil
}

// Ensure upserts the mirror row for an authenticated identity. The display
// name follows whatever the auth provider currently reports.
func (r *CourierRepo) Ensure(ctx context.Context, c domain.Courier) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO couriers (id, name) VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
    `, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("ensure courier %d: %w", c.ID, err)
	}
	return nil
}
