package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Catalog FKs are RESTRICT: a reference row is never auto-deleted while a
// delivery still points at it.
var schema = []string{
	// Couriers mirror external identities; ids are assigned by the auth
	// provider, never generated here.
	`CREATE TABLE IF NOT EXISTS couriers (
		id         BIGINT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transport_models (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS packaging_types (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS statuses (
		id    BIGSERIAL PRIMARY KEY,
		name  TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT 'yellow'
	)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id                  BIGSERIAL PRIMARY KEY,
		transport_model_id  BIGINT NOT NULL REFERENCES transport_models(id) ON DELETE RESTRICT,
		transport_number    TEXT NOT NULL,
		start_time          TIMESTAMP WITHOUT TIME ZONE NOT NULL,
		end_time            TIMESTAMP WITHOUT TIME ZONE NOT NULL,
		distance            DOUBLE PRECISION NOT NULL CHECK (distance >= 0),
		media_file          TEXT,
		packaging_id        BIGINT NOT NULL REFERENCES packaging_types(id) ON DELETE RESTRICT,
		status_id           BIGINT NOT NULL REFERENCES statuses(id) ON DELETE RESTRICT,
		technical_condition TEXT NOT NULL,
		courier_id          BIGINT REFERENCES couriers(id) ON DELETE SET NULL,
		source_address      TEXT NOT NULL DEFAULT '',
		destination_address TEXT NOT NULL DEFAULT '',
		source_lat          DOUBLE PRECISION,
		source_lon          DOUBLE PRECISION,
		dest_lat            DOUBLE PRECISION,
		dest_lon            DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_services (
		delivery_id BIGINT NOT NULL REFERENCES deliveries(id) ON DELETE CASCADE,
		service_id  BIGINT NOT NULL REFERENCES services(id) ON DELETE RESTRICT,
		PRIMARY KEY (delivery_id, service_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id BIGINT PRIMARY KEY REFERENCES couriers(id) ON DELETE CASCADE,
		phone   TEXT NOT NULL DEFAULT '',
		email   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deliveries_courier_id ON deliveries(courier_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deliveries_status_id ON deliveries(status_id)`,
}

// Migrate applies the schema. Statements are idempotent, so repeated starts
// against the same database are safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
