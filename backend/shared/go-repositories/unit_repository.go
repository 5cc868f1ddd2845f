package repositories

import (
	"context"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

/* ───────────── public interface ───────────── */

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error
	CreateMany(ctx context.Context, list []*models.Unit) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]*models.Unit, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Unit, error)
	ListByParentID(ctx context.Context, parentID uuid.UUID) ([]*models.Unit, error)
	ListByFloorID(ctx context.Context, floorID uuid.UUID) ([]*models.Unit, error)

	Update(ctx context.Context, u *models.Unit) error
	UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error
	SetAvailability(ctx context.Context, ids []uuid.UUID, available bool) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	*versionedRows[*models.Unit]
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	r.versionedRows = newVersionedRows(db, baseSelectUnit()+" WHERE id=$1", scanUnit)
	return r
}

/* ---------- create ---------- */

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (
			id, property_id, kind, parent_id, floor_id,
			name, number, room_type, sharing_type, bed_type, description,
			capacity, total_rooms, price_per_night, price_per_month, deposit_amount, extra_bed_price,
			amenities, is_available, status, is_occupied, current_tenant_id,
			created_at, updated_at, row_version
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,$10,$11,
			$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,
			NOW(), NOW(), 1
		)`,
		u.ID, u.PropertyID, string(u.Kind), u.ParentID, u.FloorID,
		u.Name, u.Number, u.RoomType, u.SharingType, u.BedType, u.Description,
		u.Capacity, u.TotalRooms, u.PricePerNight, u.PricePerMonth, u.DepositAmount, u.ExtraBedPrice,
		nonNilStrings(u.Amenities), u.IsAvailable, u.Status, u.IsOccupied, u.CurrentTenantID,
	)
	if err == nil {
		u.RowVersion = 1
	}
	return err
}

func (r *unitRepo) CreateMany(ctx context.Context, list []*models.Unit) error {
	for _, u := range list {
		if err := r.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

/* ---------- reads ---------- */

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return r.versionedRows.fetch(ctx, id)
}

func (r *unitRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]*models.Unit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, baseSelectUnit()+" WHERE id = ANY($1::uuid[]) ORDER BY name", ids)
}

func (r *unitRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Unit, error) {
	return r.list(ctx, baseSelectUnit()+" WHERE property_id=$1 ORDER BY kind, number, name", propID)
}

func (r *unitRepo) ListByParentID(ctx context.Context, parentID uuid.UUID) ([]*models.Unit, error) {
	return r.list(ctx, baseSelectUnit()+" WHERE parent_id=$1 ORDER BY number, name", parentID)
}

func (r *unitRepo) ListByFloorID(ctx context.Context, floorID uuid.UUID) ([]*models.Unit, error) {
	return r.list(ctx, baseSelectUnit()+" WHERE floor_id=$1 ORDER BY number, name", floorID)
}

func (r *unitRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUnits(rows)
}

/* ---------- update / delete ---------- */

func (r *unitRepo) Update(ctx context.Context, u *models.Unit) error {
	_, err := r.update(ctx, u, false, 0)
	return err
}

func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, u, true, expected)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return r.versionedRows.mutate(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *unitRepo) update(ctx context.Context, u *models.Unit, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE units SET
			parent_id=$1, floor_id=$2, name=$3, number=$4, room_type=$5, sharing_type=$6,
			bed_type=$7, description=$8, capacity=$9, total_rooms=$10,
			price_per_night=$11, price_per_month=$12, deposit_amount=$13, extra_bed_price=$14,
			amenities=$15, is_available=$16, status=$17, is_occupied=$18, current_tenant_id=$19,
			updated_at=NOW(), row_version=row_version+1
	`
	args := []any{
		u.ParentID, u.FloorID, u.Name, u.Number, u.RoomType, u.SharingType,
		u.BedType, u.Description, u.Capacity, u.TotalRooms,
		u.PricePerNight, u.PricePerMonth, u.DepositAmount, u.ExtraBedPrice,
		nonNilStrings(u.Amenities), u.IsAvailable, u.Status, u.IsOccupied, u.CurrentTenantID,
	}
	if check {
		sql += ` WHERE id=$20 AND row_version=$21`
		args = append(args, u.ID, expected)
	} else {
		sql += ` WHERE id=$20`
		args = append(args, u.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *unitRepo) SetAvailability(ctx context.Context, ids []uuid.UUID, available bool) (int64, error) {
	return setUnitsAvailable(ctx, r.db, ids, available)
}

func (r *unitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM units WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- helpers shared with the ledger repos ---------- */

func setUnitsAvailable(ctx context.Context, q querier, ids []uuid.UUID, available bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := q.Exec(ctx, `
		UPDATE units SET is_available=$1, updated_at=NOW(), row_version=row_version+1
		WHERE id = ANY($2::uuid[])
	`, available, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// setBedOccupancy records who sleeps in a bed. A nil tenant frees it.
func setBedOccupancy(ctx context.Context, q querier, bedID uuid.UUID, tenantID *uuid.UUID) error {
	status := models.UnitStatusAvailable
	if tenantID != nil {
		status = models.UnitStatusOccupied
	}
	_, err := q.Exec(ctx, `
		UPDATE units
		SET is_occupied=$1, current_tenant_id=$2, status=$3, updated_at=NOW(), row_version=row_version+1
		WHERE id=$4
	`, tenantID != nil, tenantID, status, bedID)
	return err
}

/* ---------- internals ---------- */

func baseSelectUnit() string {
	return `
		SELECT id, property_id, kind, parent_id, floor_id,
			name, number, room_type, sharing_type, bed_type, description,
			capacity, total_rooms, price_per_night, price_per_month, deposit_amount, extra_bed_price,
			amenities, is_available, status, is_occupied, current_tenant_id,
			created_at, updated_at, row_version
		FROM units`
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	if err := row.Scan(
		&u.ID, &u.PropertyID, &u.Kind, &u.ParentID, &u.FloorID,
		&u.Name, &u.Number, &u.RoomType, &u.SharingType, &u.BedType, &u.Description,
		&u.Capacity, &u.TotalRooms, &u.PricePerNight, &u.PricePerMonth, &u.DepositAmount, &u.ExtraBedPrice,
		&u.Amenities, &u.IsAvailable, &u.Status, &u.IsOccupied, &u.CurrentTenantID,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func scanUnits(rows pgx.Rows) ([]*models.Unit, error) {
	var out []*models.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
