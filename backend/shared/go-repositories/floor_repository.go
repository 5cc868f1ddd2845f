package repositories

import (
	"context"
	"errors"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// ErrFloorNumberTaken: a property already has a floor with that number.
var ErrFloorNumberTaken = errors.New("floor_number_taken")

type FloorRepository interface {
	Create(ctx context.Context, f *models.Floor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Floor, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Floor, error)
	UpdateIfVersion(ctx context.Context, f *models.Floor, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Floor) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type floorRepo struct {
	*versionedRows[*models.Floor]
	db DB
}

func NewFloorRepository(db DB) FloorRepository {
	r := &floorRepo{db: db}
	r.versionedRows = newVersionedRows(db, baseSelectFloor()+" WHERE id=$1", scanFloor)
	return r
}

func (r *floorRepo) Create(ctx context.Context, f *models.Floor) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO floors (
			id, property_id, number, name, description, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5, NOW(), NOW(), 1)
	`, f.ID, f.PropertyID, f.Number, f.Name, f.Description)
	if hasPgCode(err, pgCodeUniqueViolation) {
		return ErrFloorNumberTaken
	}
	if err == nil {
		f.RowVersion = 1
	}
	return err
}

func (r *floorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Floor, error) {
	return r.versionedRows.fetch(ctx, id)
}

func (r *floorRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Floor, error) {
	rows, err := r.db.Query(ctx, baseSelectFloor()+" WHERE property_id=$1 ORDER BY number", propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Floor
	for rows.Next() {
		f, err := scanFloor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *floorRepo) UpdateIfVersion(ctx context.Context, f *models.Floor, expected int64) (pgconn.CommandTag, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE floors
		SET number=$1, name=$2, description=$3, updated_at=NOW(), row_version=row_version+1
		WHERE id=$4 AND row_version=$5
	`, f.Number, f.Name, f.Description, f.ID, expected)
	if hasPgCode(err, pgCodeUniqueViolation) {
		return tag, ErrFloorNumberTaken
	}
	return tag, err
}

func (r *floorRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Floor) error) error {
	return r.versionedRows.mutate(ctx, id, mutate, r.UpdateIfVersion)
}

// Delete drops the floor and, by cascade, its rooms and their beds.
func (r *floorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM floors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectFloor() string {
	return `
		SELECT id, property_id, number, name, description, created_at, updated_at, row_version
		FROM floors`
}

func scanFloor(row pgx.Row) (*models.Floor, error) {
	var f models.Floor
	if err := row.Scan(
		&f.ID, &f.PropertyID, &f.Number, &f.Name, &f.Description,
		&f.CreatedAt, &f.UpdatedAt, &f.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}
