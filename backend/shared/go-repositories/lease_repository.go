package repositories

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type LeaseFilter struct {
	PropertyID *uuid.UUID
	BedID      *uuid.UUID
	TenantID   *uuid.UUID
	Status     models.LeaseStatus
}

// LeaseTransition mutates a row-locked lease. The returned month count is
// credited to the tenant's total stay in the same transaction.
type LeaseTransition func(l *models.Lease) (stayMonths int, err error)

/* ───────────── public interface ───────────── */

type LeaseRepository interface {
	// Create writes the lease and its bed hold. The bed's room is locked
	// and re-checked with the bed, so a whole-room stay and a bed lease
	// cannot both commit. If the term already covers now the bed is
	// marked occupied by the tenant.
	Create(ctx context.Context, l *models.Lease, now time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error)
	List(ctx context.Context, f LeaseFilter) ([]*models.Lease, error)

	// Transition locks the lease and applies fn. Leaving Active releases
	// the hold and frees the bed. (nil, nil) when absent.
	Transition(ctx context.Context, id uuid.UUID, fn LeaseTransition) (*models.Lease, error)

	AddPayment(ctx context.Context, id uuid.UUID, p models.LeasePayment) (*models.Lease, error)

	// ListExpired returns active leases whose end date is at or before now.
	ListExpired(ctx context.Context, now time.Time) ([]*models.Lease, error)

	// OccupyStartedBeds marks the bed of every active lease whose term
	// covers now as occupied by the lease's tenant. It returns the number
	// of beds that changed.
	OccupyStartedBeds(ctx context.Context, now time.Time) (int64, error)
}

type leaseRepo struct {
	db DB
}

func NewLeaseRepository(db DB) LeaseRepository {
	return &leaseRepo{db: db}
}

func (r *leaseRepo) Create(ctx context.Context, l *models.Lease, now time.Time) error {
	if l.PaymentHistory == nil {
		l.PaymentHistory = []models.LeasePayment{}
	}
	history, err := json.Marshal(l.PaymentHistory)
	if err != nil {
		return err
	}

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		guarded := []uuid.UUID{l.BedID, l.RoomID}
		if err := lockUnits(ctx, tx, guarded); err != nil {
			return err
		}
		if l.Blocking() {
			conflicts, err := findBlockingHolds(ctx, tx, guarded, l.Term(), nil)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return &HoldConflictError{Holds: conflicts}
			}
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO leases (
				id, property_id, room_id, bed_id, tenant_id,
				start_date, end_date, rent_amount, deposit_amount,
				payment_history, status, created_at, updated_at, row_version
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW(),1)
			RETURNING created_at, updated_at, row_version`,
			l.ID, l.PropertyID, l.RoomID, l.BedID, l.TenantID,
			l.StartDate, l.EndDate, l.RentAmount, l.DepositAmount,
			history, string(l.Status),
		)
		if err := row.Scan(&l.CreatedAt, &l.UpdatedAt, &l.RowVersion); err != nil {
			return err
		}
		if err := insertHolds(ctx, tx, []models.UnitHold{models.HoldForLease(l)}); err != nil {
			return err
		}
		if l.Blocking() && l.Term().Contains(now) {
			return setBedOccupancy(ctx, tx, l.BedID, &l.TenantID)
		}
		return nil
	})
}

func (r *leaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	return scanLease(r.db.QueryRow(ctx, baseSelectLease()+" WHERE id=$1", id))
}

func (r *leaseRepo) List(ctx context.Context, f LeaseFilter) ([]*models.Lease, error) {
	var (
		qb    strings.Builder
		args  []any
		conds []string
	)
	qb.WriteString(baseSelectLease())

	if f.PropertyID != nil {
		args = append(args, *f.PropertyID)
		conds = append(conds, "property_id = $"+strconv.Itoa(len(args)))
	}
	if f.BedID != nil {
		args = append(args, *f.BedID)
		conds = append(conds, "bed_id = $"+strconv.Itoa(len(args)))
	}
	if f.TenantID != nil {
		args = append(args, *f.TenantID)
		conds = append(conds, "tenant_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		qb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	qb.WriteString(" ORDER BY start_date DESC")

	return r.list(ctx, qb.String(), args...)
}

func (r *leaseRepo) ListExpired(ctx context.Context, now time.Time) ([]*models.Lease, error) {
	return r.list(ctx, baseSelectLease()+`
		WHERE status=$1 AND end_date IS NOT NULL AND end_date <= $2
		ORDER BY end_date`, string(models.LeaseActive), now)
}

func (r *leaseRepo) OccupyStartedBeds(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE units u
		SET is_occupied=TRUE, current_tenant_id=l.tenant_id, status=$1,
			updated_at=NOW(), row_version=u.row_version+1
		FROM leases l
		WHERE l.bed_id=u.id
		  AND l.status=$2
		  AND l.start_date <= $3
		  AND (l.end_date IS NULL OR l.end_date > $3)
		  AND (NOT u.is_occupied OR u.current_tenant_id IS DISTINCT FROM l.tenant_id)
	`, models.UnitStatusOccupied, string(models.LeaseActive), now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *leaseRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *leaseRepo) Transition(ctx context.Context, id uuid.UUID, fn LeaseTransition) (*models.Lease, error) {
	var out *models.Lease
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		l, err := scanLease(tx.QueryRow(ctx, baseSelectLease()+" WHERE id=$1 FOR UPDATE", id))
		if err != nil || l == nil {
			return err
		}
		wasBlocking := l.Blocking()

		months, err := fn(l)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE leases SET status=$1, end_date=$2, updated_at=NOW(), row_version=row_version+1
			WHERE id=$3
		`, string(l.Status), l.EndDate, l.ID)
		if err != nil {
			return err
		}
		if err := setHoldsStay(ctx, tx, models.LedgerLease, l.ID, l.Term()); err != nil {
			return err
		}
		if wasBlocking && !l.Blocking() {
			if err := setHoldsBlocking(ctx, tx, models.LedgerLease, l.ID, false); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `
				UPDATE units
				SET is_occupied=FALSE, current_tenant_id=NULL, status=$1,
					updated_at=NOW(), row_version=row_version+1
				WHERE id=$2 AND current_tenant_id=$3
			`, models.UnitStatusAvailable, l.BedID, l.TenantID); err != nil {
				return err
			}
		}
		if err := addTenantStayMonths(ctx, tx, l.TenantID, months); err != nil {
			return err
		}

		out, err = scanLease(tx.QueryRow(ctx, baseSelectLease()+" WHERE id=$1", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *leaseRepo) AddPayment(ctx context.Context, id uuid.UUID, p models.LeasePayment) (*models.Lease, error) {
	entry, err := json.Marshal([]models.LeasePayment{p})
	if err != nil {
		return nil, err
	}
	return scanLease(r.db.QueryRow(ctx, `
		UPDATE leases
		SET payment_history = payment_history || $1::jsonb,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$2
		RETURNING `+leaseColumns, entry, id))
}

/* ---------- internals ---------- */

const leaseColumns = `id, property_id, room_id, bed_id, tenant_id,
	start_date, end_date, rent_amount, deposit_amount,
	payment_history, status, created_at, updated_at, row_version`

func baseSelectLease() string {
	return "SELECT " + leaseColumns + " FROM leases"
}

func scanLease(row pgx.Row) (*models.Lease, error) {
	var (
		l       models.Lease
		history []byte
	)
	if err := row.Scan(
		&l.ID, &l.PropertyID, &l.RoomID, &l.BedID, &l.TenantID,
		&l.StartDate, &l.EndDate, &l.RentAmount, &l.DepositAmount,
		&history, &l.Status, &l.CreatedAt, &l.UpdatedAt, &l.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(history, &l.PaymentHistory); err != nil {
		return nil, err
	}
	if l.PaymentHistory == nil {
		l.PaymentHistory = []models.LeasePayment{}
	}
	return &l, nil
}
