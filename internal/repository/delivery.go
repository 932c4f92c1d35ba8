package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/ports/deliverytx"
)

// DeliveryRepo represents the delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// откатываем в случае паники
	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo represents the transaction-scoped delivery repository.
type TxRepo struct {
	tx pgx.Tx
}

// GetClaimForUpdate locks the delivery row and returns its assignment state.
// Returns nil when the delivery does not exist.
func (r *TxRepo) GetClaimForUpdate(ctx context.Context, id int64) (*domain.DeliveryClaim, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, courier_id, status_id
        FROM deliveries
        WHERE id = $1
        FOR UPDATE
    `, id)

	var c domain.DeliveryClaim
	if err := row.Scan(&c.ID, &c.CourierID, &c.StatusID); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock delivery %d: %w", id, err)
	}
	return &c, nil
}

// SetCourier sets or clears the courier claim on a delivery.
func (r *TxRepo) SetCourier(ctx context.Context, id int64, courierID *int64) error {
	ct, err := r.tx.Exec(ctx,
		`UPDATE deliveries SET courier_id = $2 WHERE id = $1`, id, courierID)
	if err != nil {
		return fmt.Errorf("set courier on delivery %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d not found", id)
	}
	return nil
}

// InsertDelivery - inserts a new delivery row and fills rec.ID.
func (r *TxRepo) InsertDelivery(ctx context.Context, rec *domain.DeliveryRecord) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO deliveries (
            transport_model_id, transport_number, start_time, end_time,
            distance, media_file, packaging_id, status_id, technical_condition,
            courier_id, source_address, destination_address,
            source_lat, source_lon, dest_lat, dest_lon
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id
    `, rec.TransportModelID, rec.TransportNumber, rec.StartTime, rec.EndTime,
		rec.Distance, rec.MediaFile, rec.PackagingID, rec.StatusID,
		string(rec.TechnicalCondition), rec.CourierID,
		rec.SourceAddress, rec.DestinationAddress,
		rec.SourceLat, rec.SourceLon, rec.DestLat, rec.DestLon,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// UpdateFields applies a partial update to a delivery row and returns true
// if a row was affected.
func (r *TxRepo) UpdateFields(ctx context.Context, id int64, p domain.DeliveryPatch) (bool, error) {
	var cond *string
	if p.TechnicalCondition != nil {
		s := string(*p.TechnicalCondition)
		cond = &s
	}

	ct, err := r.tx.Exec(ctx, `
        UPDATE deliveries
        SET
            transport_model_id  = COALESCE($2,  transport_model_id),
            transport_number    = COALESCE($3,  transport_number),
            start_time          = COALESCE($4,  start_time),
            end_time            = COALESCE($5,  end_time),
            distance            = COALESCE($6,  distance),
            packaging_id        = COALESCE($7,  packaging_id),
            status_id           = COALESCE($8,  status_id),
            technical_condition = COALESCE($9,  technical_condition),
            courier_id          = COALESCE($10, courier_id),
            source_address      = COALESCE($11, source_address),
            destination_address = COALESCE($12, destination_address),
            source_lat          = COALESCE($13, source_lat),
            source_lon          = COALESCE($14, source_lon),
            dest_lat            = COALESCE($15, dest_lat),
            dest_lon            = COALESCE($16, dest_lon)
        WHERE id = $1
    `, id, p.TransportModelID, p.TransportNumber, p.StartTime, p.EndTime,
		p.Distance, p.PackagingID, p.StatusID, cond, p.CourierID,
		p.SourceAddress, p.DestinationAddress,
		p.SourceLat, p.SourceLon, p.DestLat, p.DestLon)
	if err != nil {
		return false, fmt.Errorf("update delivery %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ReplaceServices replaces the whole set of services linked to a delivery.
func (r *TxRepo) ReplaceServices(ctx context.Context, deliveryID int64, serviceIDs []int64) error {
	if _, err := r.tx.Exec(ctx,
		`DELETE FROM delivery_services WHERE delivery_id = $1`, deliveryID); err != nil {
		return fmt.Errorf("clear services for delivery %d: %w", deliveryID, err)
	}
	for _, sid := range serviceIDs {
		if _, err := r.AddService(ctx, deliveryID, sid); err != nil {
			return err
		}
	}
	return nil
}

// AddService links one service to a delivery. Returns false without error
// when the service id does not exist; linking is best-effort per item.
func (r *TxRepo) AddService(ctx context.Context, deliveryID, serviceID int64) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        INSERT INTO delivery_services (delivery_id, service_id)
        SELECT $1, id FROM services WHERE id = $2
        ON CONFLICT DO NOTHING
    `, deliveryID, serviceID)
	if err != nil {
		return false, fmt.Errorf("link service %d to delivery %d: %w", serviceID, deliveryID, err)
	}
	return ct.RowsAffected() > 0, nil
}

const deliverySelect = `
    SELECT d.id,
           tm.id, tm.name,
           d.transport_number, d.start_time, d.end_time, d.distance, d.media_file,
           p.id, p.name,
           s.id, s.name, s.color,
           d.technical_condition,
           c.id, c.name,
           d.source_address, d.destination_address,
           d.source_lat, d.source_lon, d.dest_lat, d.dest_lon
    FROM deliveries d
    JOIN transport_models tm ON tm.id = d.transport_model_id
    JOIN packaging_types p   ON p.id = d.packaging_id
    JOIN statuses s          ON s.id = d.status_id
    LEFT JOIN couriers c     ON c.id = d.courier_id
`

func scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var d domain.Delivery
	var courierID *int64
	var courierName *string
	var cond string

	err := row.Scan(
		&d.ID,
		&d.TransportModel.ID, &d.TransportModel.Name,
		&d.TransportNumber, &d.StartTime, &d.EndTime, &d.Distance, &d.MediaFile,
		&d.Packaging.ID, &d.Packaging.Name,
		&d.Status.ID, &d.Status.Name, &d.Status.Color,
		&cond,
		&courierID, &courierName,
		&d.SourceAddress, &d.DestinationAddress,
		&d.SourceLat, &d.SourceLon, &d.DestLat, &d.DestLon,
	)
	if err != nil {
		return nil, err
	}

	d.TechnicalCondition = domain.TechnicalCondition(cond)
	if courierID != nil {
		c := domain.Courier{ID: *courierID}
		if courierName != nil {
			c.Name = *courierName
		}
		d.Courier = &c
	}
	return &d, nil
}

// Get returns a delivery with its related entities, or nil if missing.
func (r *DeliveryRepo) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx, deliverySelect+` WHERE d.id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %d: %w", id, err)
	}

	services, err := r.loadServices(ctx, []int64{d.ID})
	if err != nil {
		return nil, err
	}
	d.Services = services[d.ID]
	if d.Services == nil {
		d.Services = []domain.CatalogEntity{}
	}
	return d, nil
}

// List returns deliveries matching the filter. Without an explicit sort the
// order is by id, so repeated calls are deterministic.
func (r *DeliveryRepo) List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
	q := deliverySelect
	args := make([]any, 0, 4)
	where := ""

	and := func(clause string) {
		if where == "" {
			where = " WHERE " + clause
			return
		}
		where += " AND " + clause
	}

	if f.Unassigned {
		and("d.courier_id IS NULL")
	}
	if f.CourierID != nil {
		args = append(args, *f.CourierID)
		and(fmt.Sprintf("d.courier_id = $%d", len(args)))
	}
	if f.StatusID != nil {
		args = append(args, *f.StatusID)
		and(fmt.Sprintf("d.status_id = $%d", len(args)))
	}
	if f.StatusName != nil {
		args = append(args, *f.StatusName)
		and(fmt.Sprintf("s.name = $%d", len(args)))
	}
	if f.ExcludeStatus != nil {
		args = append(args, *f.ExcludeStatus)
		and(fmt.Sprintf("s.name <> $%d", len(args)))
	}
	if f.MaxDistance != nil {
		args = append(args, *f.MaxDistance)
		and(fmt.Sprintf("d.distance <= $%d", len(args)))
	}

	q += where + orderClause(f.SortBy, f.Order)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Delivery, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	services, err := r.loadServices(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if svc := services[out[i].ID]; svc != nil {
			out[i].Services = svc
		} else {
			out[i].Services = []domain.CatalogEntity{}
		}
	}
	return out, nil
}

// Sort columns are whitelisted; values never reach the SQL text unescaped.
func orderClause(by domain.SortField, order domain.SortOrder) string {
	col := "d.id"
	switch by {
	case domain.SortDistance:
		col = "d.distance"
	case domain.SortStartTime:
		col = "d.start_time"
	}
	dir := "ASC"
	if order == domain.OrderDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, d.id ASC", col, dir)
}

func (r *DeliveryRepo) loadServices(ctx context.Context, deliveryIDs []int64) (map[int64][]domain.CatalogEntity, error) {
	out := make(map[int64][]domain.CatalogEntity, len(deliveryIDs))
	if len(deliveryIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
        SELECT ds.delivery_id, sv.id, sv.name
        FROM delivery_services ds
        JOIN services sv ON sv.id = ds.service_id
        WHERE ds.delivery_id = ANY($1)
        ORDER BY sv.id
    `, deliveryIDs)
	if err != nil {
		return nil, fmt.Errorf("load delivery services: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var deliveryID int64
		var e domain.CatalogEntity
		if err := rows.Scan(&deliveryID, &e.ID, &e.Name); err != nil {
			return nil, err
		}
		out[deliveryID] = append(out[deliveryID], e)
	}
	return out, rows.Err()
}

// SetStatus replaces the status reference unconditionally.
// Returns false when the delivery does not exist.
func (r *DeliveryRepo) SetStatus(ctx context.Context, id, statusID int64) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE deliveries SET status_id = $2 WHERE id = $1`, id, statusID)
	if err != nil {
		return false, fmt.Errorf("set status on delivery %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetMedia stores the media file reference, overwriting any prior attachment.
func (r *DeliveryRepo) SetMedia(ctx context.Context, id int64, ref string) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE deliveries SET media_file = $2 WHERE id = $1`, id, ref)
	if err != nil {
		return false, fmt.Errorf("set media on delivery %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Delete removes a delivery. Returns false when no row was deleted.
func (r *DeliveryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete delivery %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Coordinates returns coordinate projections of unassigned deliveries.
// Rows missing any of the four coordinates are excluded.
func (r *DeliveryRepo) Coordinates(ctx context.Context) ([]domain.DeliveryPoint, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, source_lat, source_lon, dest_lat, dest_lon
        FROM deliveries
        WHERE courier_id IS NULL
          AND source_lat IS NOT NULL AND source_lon IS NOT NULL
          AND dest_lat IS NOT NULL AND dest_lon IS NOT NULL
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("list coordinates: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DeliveryPoint, 0)
	for rows.Next() {
		var p domain.DeliveryPoint
		if err := rows.Scan(&p.ID, &p.SourceLat, &p.SourceLon, &p.DestLat, &p.DestLon); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Stats aggregates per-courier delivery statistics. Duration is summed in
// seconds over deliveries whose status carries the delivered name.
func (r *DeliveryRepo) Stats(ctx context.Context, courierID int64, deliveredName string) (total, successful int64, seconds float64, err error) {
	err = r.db.QueryRow(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE s.name = $2),
               COALESCE(SUM(EXTRACT(EPOCH FROM (d.end_time - d.start_time)))
                   FILTER (WHERE s.name = $2), 0)
        FROM deliveries d
        JOIN statuses s ON s.id = d.status_id
        WHERE d.courier_id = $1
    `, courierID, deliveredName).Scan(&total, &successful, &seconds)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("stats for courier %d: %w", courierID, err)
	}
	return total, successful, seconds, nil
}
