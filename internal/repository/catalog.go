package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
)

// CatalogRepo stores the shared reference catalogs (transport models,
// packaging types, services, statuses). All four tables share the
// {id, unique name} shape; statuses additionally carry a color.
type CatalogRepo struct {
	db *pgxpool.Pool
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func tableFor(kind domain.CatalogKind) (string, error) {
	switch kind {
	case domain.KindTransportModel:
		return "transport_models", nil
	case domain.KindPackagingType:
		return "packaging_types", nil
	case domain.KindService:
		return "services", nil
	case domain.KindStatus:
		return "statuses", nil
	default:
		return "", fmt.Errorf("unknown catalog kind: %q", kind)
	}
}

// GetOrCreate returns the entity matching value.Name, creating it first if
// absent. The insert uses ON CONFLICT DO NOTHING, so concurrent first-use
// callers converge on a single row; the loser observes the winner's row.
func (r *CatalogRepo) GetOrCreate(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (*domain.CatalogEntity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	// The winner's row can be deleted between our conflicting insert and the
	// read-back. Retrying restarts the upsert instead of returning nothing.
	for attempt := 0; attempt < 3; attempt++ {
		e, err := r.upsert(ctx, kind, table, value)
		if err != nil {
			return nil, fmt.Errorf("get or create %s %q: %w", kind, value.Name, err)
		}
		if e != nil {
			return e, nil
		}

		// Conflict path: the row already exists, read it back.
		e, err = r.getByName(ctx, kind, table, value.Name)
		if err != nil {
			return nil, err
		}
		if e != nil {
			return e, nil
		}
	}
	return nil, fmt.Errorf("get or create %s %q: row vanished while upserting", kind, value.Name)
}

// upsert inserts the row and returns it, or nil when the name already exists.
func (r *CatalogRepo) upsert(ctx context.Context, kind domain.CatalogKind, table string, value domain.CatalogValue) (*domain.CatalogEntity, error) {
	var e domain.CatalogEntity
	e.Name = value.Name

	var err error
	if kind == domain.KindStatus {
		color := value.Color
		if color == "" {
			color = domain.DefaultStatusColor
		}
		err = r.db.QueryRow(ctx, `
            INSERT INTO statuses (name, color) VALUES ($1, $2)
            ON CONFLICT (name) DO NOTHING
            RETURNING id, color
        `, value.Name, color).Scan(&e.ID, &e.Color)
	} else {
		err = r.db.QueryRow(ctx,
			`INSERT INTO `+table+` (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
			value.Name,
		).Scan(&e.ID)
	}
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *CatalogRepo) getByName(ctx context.Context, kind domain.CatalogKind, table, name string) (*domain.CatalogEntity, error) {
	var e domain.CatalogEntity
	var err error
	if kind == domain.KindStatus {
		err = r.db.QueryRow(ctx,
			`SELECT id, name, color FROM statuses WHERE name = $1`, name,
		).Scan(&e.ID, &e.Name, &e.Color)
	} else {
		err = r.db.QueryRow(ctx,
			`SELECT id, name FROM `+table+` WHERE name = $1`, name,
		).Scan(&e.ID, &e.Name)
	}
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s by name %q: %w", kind, name, err)
	}
	return &e, nil
}

// Get returns a catalog entity by its ID, or nil if missing.
func (r *CatalogRepo) Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var e domain.CatalogEntity
	if kind == domain.KindStatus {
		err = r.db.QueryRow(ctx,
			`SELECT id, name, color FROM statuses WHERE id = $1`, id,
		).Scan(&e.ID, &e.Name, &e.Color)
	} else {
		err = r.db.QueryRow(ctx,
			`SELECT id, name FROM `+table+` WHERE id = $1`, id,
		).Scan(&e.ID, &e.Name)
	}
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s %d: %w", kind, id, err)
	}
	return &e, nil
}

// List returns all entities of a catalog ordered by id.
func (r *CatalogRepo) List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	q := `SELECT id, name FROM ` + table + ` ORDER BY id`
	if kind == domain.KindStatus {
		q = `SELECT id, name, color FROM statuses ORDER BY id`
	}

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	out := make([]domain.CatalogEntity, 0)
	for rows.Next() {
		var e domain.CatalogEntity
		if kind == domain.KindStatus {
			err = rows.Scan(&e.ID, &e.Name, &e.Color)
		} else {
			err = rows.Scan(&e.ID, &e.Name)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts a new catalog entity and returns its generated ID.
func (r *CatalogRepo) Create(ctx context.Context, kind domain.CatalogKind, value domain.CatalogValue) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var id int64
	if kind == domain.KindStatus {
		color := value.Color
		if color == "" {
			color = domain.DefaultStatusColor
		}
		err = r.db.QueryRow(ctx,
			`INSERT INTO statuses (name, color) VALUES ($1, $2) RETURNING id`,
			value.Name, color,
		).Scan(&id)
	} else {
		err = r.db.QueryRow(ctx,
			`INSERT INTO `+table+` (name) VALUES ($1) RETURNING id`,
			value.Name,
		).Scan(&id)
	}
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.ErrConflict
		}
		return 0, fmt.Errorf("create %s: %w", kind, err)
	}
	return id, nil
}

// UpdatePartial applies a partial update and returns true if a row was affected.
func (r *CatalogRepo) UpdatePartial(ctx context.Context, kind domain.CatalogKind, id int64, name, color *string) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	var ct int64
	if kind == domain.KindStatus {
		tag, execErr := r.db.Exec(ctx, `
            UPDATE statuses
            SET name = COALESCE($2, name), color = COALESCE($3, color)
            WHERE id = $1
        `, id, name, color)
		if execErr != nil {
			if IsDuplicate(execErr) {
				return false, apperr.ErrConflict
			}
			return false, fmt.Errorf("update status %d: %w", id, execErr)
		}
		ct = tag.RowsAffected()
	} else {
		tag, execErr := r.db.Exec(ctx,
			`UPDATE `+table+` SET name = COALESCE($2, name) WHERE id = $1`,
			id, name,
		)
		if execErr != nil {
			if IsDuplicate(execErr) {
				return false, apperr.ErrConflict
			}
			return false, fmt.Errorf("update %s %d: %w", kind, id, execErr)
		}
		ct = tag.RowsAffected()
	}
	return ct > 0, nil
}

// Delete removes a catalog entity. Rows still referenced by deliveries are
// protected by RESTRICT foreign keys and surface as a conflict.
func (r *CatalogRepo) Delete(ctx context.Context, kind domain.CatalogKind, id int64) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	ct, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		if IsReferenced(err) {
			return false, apperr.ErrConflict
		}
		return false, fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	return ct.RowsAffected() > 0, nil
}
