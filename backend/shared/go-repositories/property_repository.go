package repositories

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// ErrSlugTaken is returned when a property slug is already in use.
var ErrSlugTaken = errors.New("slug_taken")

// PropertyFilter narrows List. Zero values mean "any".
type PropertyFilter struct {
	Kind     models.InventoryKind
	City     string
	Active   *bool
	Featured *bool
}

/* ───────────── public interface ───────────── */

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	GetBySlug(ctx context.Context, slug string) (*models.Property, error)
	List(ctx context.Context, f PropertyFilter) ([]*models.Property, error)

	Update(ctx context.Context, p *models.Property) error
	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Property, error)

	// Delete removes the property and, through ON DELETE CASCADE, its
	// floors, units and reviews. Bookings and leases are kept.
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type propertyRepo struct {
	*versionedRows[*models.Property]
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	r := &propertyRepo{db: db}
	r.versionedRows = newVersionedRows(db, baseSelectProperty()+" WHERE id=$1", scanProperty)
	return r
}

/* ---------- create ---------- */

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO properties (
			id, kind, name, slug, description, property_type, gender_type,
			address, city, state, country, pincode, latitude, longitude,
			contact_number, email, amenities, rules,
			check_in_time, check_out_time, min_stay_nights, max_stay_nights,
			featured, is_active, rating_average, reviews_count,
			created_at, updated_at, row_version
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,
			$8,$9,$10,$11,$12,$13,$14,
			$15,$16,$17,$18,
			$19,$20,$21,$22,
			$23,$24,0,0,
			NOW(),NOW(),1
		)`,
		p.ID, string(p.Kind), p.Name, p.Slug, p.Description, p.PropertyType, p.GenderType,
		p.Location.Address, p.Location.City, p.Location.State, p.Location.Country, p.Location.Pincode,
		p.Location.Latitude, p.Location.Longitude,
		p.ContactNumber, p.Email, nonNilStrings(p.Amenities), nonNilStrings(p.Rules),
		p.CheckInTime, p.CheckOutTime, p.MinStayNights, p.MaxStayNights,
		p.Featured, p.IsActive,
	)
	if hasPgCode(err, pgCodeUniqueViolation) {
		return ErrSlugTaken
	}
	if err == nil {
		p.RowVersion = 1
	}
	return err
}

/* ---------- reads ---------- */

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return r.versionedRows.fetch(ctx, id)
}

func (r *propertyRepo) GetBySlug(ctx context.Context, slug string) (*models.Property, error) {
	return scanProperty(r.db.QueryRow(ctx, baseSelectProperty()+" WHERE slug=$1", slug))
}

func (r *propertyRepo) List(ctx context.Context, f PropertyFilter) ([]*models.Property, error) {
	var (
		qb    strings.Builder
		args  []any
		conds []string
	)
	qb.WriteString(baseSelectProperty())

	if f.Kind != "" {
		args = append(args, string(f.Kind))
		conds = append(conds, "kind = $"+strconv.Itoa(len(args)))
	}
	if f.City != "" {
		args = append(args, f.City)
		conds = append(conds, "LOWER(city) = LOWER($"+strconv.Itoa(len(args))+")")
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		conds = append(conds, "is_active = $"+strconv.Itoa(len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		conds = append(conds, "featured = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		qb.WriteString(" WHERE ")
		qb.WriteString(strings.Join(conds, " AND "))
	}
	qb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

/* ---------- update / delete ---------- */

func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	_, err := r.update(ctx, p, false, 0)
	return err
}

func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, p, true, expected)
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return r.versionedRows.mutate(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *propertyRepo) update(ctx context.Context, p *models.Property, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE properties SET
			name=$1, slug=$2, description=$3, property_type=$4, gender_type=$5,
			address=$6, city=$7, state=$8, country=$9, pincode=$10, latitude=$11, longitude=$12,
			contact_number=$13, email=$14, amenities=$15, rules=$16,
			check_in_time=$17, check_out_time=$18, min_stay_nights=$19, max_stay_nights=$20,
			featured=$21, is_active=$22,
			updated_at=NOW(), row_version=row_version+1
	`
	args := []any{
		p.Name, p.Slug, p.Description, p.PropertyType, p.GenderType,
		p.Location.Address, p.Location.City, p.Location.State, p.Location.Country, p.Location.Pincode,
		p.Location.Latitude, p.Location.Longitude,
		p.ContactNumber, p.Email, nonNilStrings(p.Amenities), nonNilStrings(p.Rules),
		p.CheckInTime, p.CheckOutTime, p.MinStayNights, p.MaxStayNights,
		p.Featured, p.IsActive,
	}
	if check {
		sql += ` WHERE id=$23 AND row_version=$24`
		args = append(args, p.ID, expected)
	} else {
		sql += ` WHERE id=$23`
		args = append(args, p.ID)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if hasPgCode(err, pgCodeUniqueViolation) {
		return tag, ErrSlugTaken
	}
	return tag, err
}

func (r *propertyRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Property, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE properties SET is_active=$1, updated_at=NOW(), row_version=row_version+1
		WHERE id=$2
		RETURNING `+propertyColumns, active, id)
	return scanProperty(row)
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

const propertyColumns = `
		id, kind, name, slug, description, property_type, gender_type,
		address, city, state, country, pincode, latitude, longitude,
		contact_number, email, amenities, rules,
		check_in_time, check_out_time, min_stay_nights, max_stay_nights,
		featured, is_active, rating_average, reviews_count,
		created_at, updated_at, row_version`

func baseSelectProperty() string {
	return `SELECT ` + propertyColumns + ` FROM properties`
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	if err := row.Scan(
		&p.ID, &p.Kind, &p.Name, &p.Slug, &p.Description, &p.PropertyType, &p.GenderType,
		&p.Location.Address, &p.Location.City, &p.Location.State, &p.Location.Country, &p.Location.Pincode,
		&p.Location.Latitude, &p.Location.Longitude,
		&p.ContactNumber, &p.Email, &p.Amenities, &p.Rules,
		&p.CheckInTime, &p.CheckOutTime, &p.MinStayNights, &p.MaxStayNights,
		&p.Featured, &p.IsActive, &p.Rating.Average, &p.Rating.ReviewsCount,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
