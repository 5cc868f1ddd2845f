package repositories

import (
	"context"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	AddStayMonths(ctx context.Context, id uuid.UUID, months int) error
}

type tenantRepo struct {
	db DB
}

func NewTenantRepository(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tenants (
			id, name, phone, email, gender,
			emergency_name, emergency_phone, emergency_relation,
			total_stay_months, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW())
	`, t.ID, t.Name, t.Phone, t.Email, t.Gender,
		t.EmergencyContact.Name, t.EmergencyContact.Phone, t.EmergencyContact.Relation,
		t.TotalStayMonths)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return scanTenant(r.db.QueryRow(ctx, baseSelectTenant()+" WHERE id=$1", id))
}

func (r *tenantRepo) List(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := r.db.Query(ctx, baseSelectTenant()+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tenantRepo) AddStayMonths(ctx context.Context, id uuid.UUID, months int) error {
	return addTenantStayMonths(ctx, r.db, id, months)
}

func addTenantStayMonths(ctx context.Context, q querier, id uuid.UUID, months int) error {
	if months <= 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
		UPDATE tenants SET total_stay_months = total_stay_months + $1, updated_at=NOW()
		WHERE id=$2
	`, months, id)
	return err
}

func baseSelectTenant() string {
	return `
		SELECT id, name, phone, email, gender,
			emergency_name, emergency_phone, emergency_relation,
			total_stay_months, created_at, updated_at
		FROM tenants`
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	if err := row.Scan(
		&t.ID, &t.Name, &t.Phone, &t.Email, &t.Gender,
		&t.EmergencyContact.Name, &t.EmergencyContact.Phone, &t.EmergencyContact.Relation,
		&t.TotalStayMonths, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
