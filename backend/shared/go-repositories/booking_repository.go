package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// BookingFilter narrows List. Zero values mean "any".
type BookingFilter struct {
	Kind       models.InventoryKind
	PropertyID *uuid.UUID
	UnitID     *uuid.UUID
	Statuses   []models.BookingStatus
}

// BookingTransition mutates a row-locked booking inside the transaction and
// returns the units whose isAvailable flag should be restored to true.
type BookingTransition func(b *models.Booking) (restore []uuid.UUID, err error)

/* ───────────── public interface ───────────── */

type BookingRepository interface {
	// Reserve writes the booking and its unit holds in one transaction.
	// Overlapping blocking holds fail it with an error matching
	// ErrHoldConflict, whether found by the re-check or by the
	// exclusion constraint. linked units are locked and re-checked with
	// the held ones but get no hold.
	Reserve(ctx context.Context, b *models.Booking, linked []uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, f BookingFilter) ([]*models.Booking, error)

	// Transition locks the booking, applies fn, persists status fields,
	// flips hold blocking and restores unit availability atomically.
	// It returns (nil, nil) when the booking does not exist.
	Transition(ctx context.Context, id uuid.UUID, fn BookingTransition) (*models.Booking, error)

	// DeleteAndRelease hard-deletes the booking after restoring the
	// availability of every unit it held. (nil, nil) when absent.
	DeleteAndRelease(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

/* ───────────── implementation ───────────── */

type bookingRepo struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &bookingRepo{db: db}
}

/* ---------- create ---------- */

func (r *bookingRepo) Reserve(ctx context.Context, b *models.Booking, linked []uuid.UUID) error {
	if b.Selector == nil {
		return fmt.Errorf("booking %s has no unit selector", b.ID)
	}
	unitIDs := b.UnitIDs()
	guarded := append(append([]uuid.UUID{}, unitIDs...), linked...)

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockUnits(ctx, tx, guarded); err != nil {
			return err
		}
		if b.Blocking() {
			conflicts, err := findBlockingHolds(ctx, tx, guarded, b.Stay(), nil)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return &HoldConflictError{Holds: conflicts}
			}
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO bookings (
				id, kind, property_id, booking_type, unit_ids,
				guest_name, guest_phone, guest_email,
				check_in, check_out, total_guests, total_nights, total_price, advance_amount,
				payment_status, booking_status, special_requests,
				created_at, updated_at, row_version
			) VALUES (
				$1,$2,$3,$4,$5,
				$6,$7,$8,
				$9,$10,$11,$12,$13,$14,
				$15,$16,$17,
				NOW(), NOW(), 1
			)
			RETURNING created_at, updated_at, row_version`,
			b.ID, string(b.Kind), b.PropertyID, string(b.Selector.BookingType()), unitIDs,
			b.Guest.Name, b.Guest.Phone, b.Guest.Email,
			b.CheckIn, b.CheckOut, b.TotalGuests, b.TotalNights, b.TotalPrice, b.AdvanceAmount,
			string(b.PaymentStatus), string(b.BookingStatus), b.SpecialRequests,
		)
		if err := row.Scan(&b.CreatedAt, &b.UpdatedAt, &b.RowVersion); err != nil {
			return err
		}
		return insertHolds(ctx, tx, models.HoldsForBooking(b))
	})
}

/* ---------- reads ---------- */

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1", id))
}

func (r *bookingRepo) List(ctx context.Context, f BookingFilter) ([]*models.Booking, error) {
	var (
		qb    strings.Builder
		args  []any
		conds []string
	)
	qb.WriteString(baseSelectBooking())

	if f.Kind != "" {
		args = append(args, string(f.Kind))
		conds = append(conds, "kind = $"+strconv.Itoa(len(args)))
	}
	if f.PropertyID != nil {
		args = append(args, *f.PropertyID)
		conds = append(conds, "property_id = $"+strconv.Itoa(len(args)))
	}
	if f.UnitID != nil {
		args = append(args, *f.UnitID)
		conds = append(conds, "$"+strconv.Itoa(len(args))+" = ANY(unit_ids)")
	}
	if len(f.Statuses) > 0 {
		st := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			st = append(st, string(s))
		}
		args = append(args, st)
		conds = append(conds, "booking_status = ANY($"+strconv.Itoa(len(args))+")")
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

	var out []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

/* ---------- lifecycle ---------- */

func (r *bookingRepo) Transition(ctx context.Context, id uuid.UUID, fn BookingTransition) (*models.Booking, error) {
	var out *models.Booking
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		b, err := scanBooking(tx.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1 FOR UPDATE", id))
		if err != nil || b == nil {
			return err
		}
		wasBlocking := b.Blocking()

		restore, err := fn(b)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE bookings
			SET booking_status=$1, payment_status=$2,
				updated_at=NOW(), row_version=row_version+1
			WHERE id=$3
		`, string(b.BookingStatus), string(b.PaymentStatus), b.ID)
		if err != nil {
			return err
		}

		if nowBlocking := b.Blocking(); nowBlocking != wasBlocking {
			if err := setHoldsBlocking(ctx, tx, models.LedgerBooking, b.ID, nowBlocking); err != nil {
				return err
			}
		}
		if _, err := setUnitsAvailable(ctx, tx, restore, true); err != nil {
			return err
		}

		out, err = scanBooking(tx.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepo) DeleteAndRelease(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var out *models.Booking
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		b, err := scanBooking(tx.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1 FOR UPDATE", id))
		if err != nil || b == nil {
			return err
		}
		if _, err := setUnitsAvailable(ctx, tx, b.UnitIDs(), true); err != nil {
			return err
		}
		if err := deleteHolds(ctx, tx, models.LedgerBooking, b.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, b.ID); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* ---------- internals ---------- */

func baseSelectBooking() string {
	return `
		SELECT id, kind, property_id, booking_type, unit_ids,
			guest_name, guest_phone, guest_email,
			check_in, check_out, total_guests, total_nights, total_price, advance_amount,
			payment_status, booking_status, special_requests,
			created_at, updated_at, row_version
		FROM bookings`
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var (
		b           models.Booking
		bookingType string
		unitIDs     []uuid.UUID
	)
	if err := row.Scan(
		&b.ID, &b.Kind, &b.PropertyID, &bookingType, &unitIDs,
		&b.Guest.Name, &b.Guest.Phone, &b.Guest.Email,
		&b.CheckIn, &b.CheckOut, &b.TotalGuests, &b.TotalNights, &b.TotalPrice, &b.AdvanceAmount,
		&b.PaymentStatus, &b.BookingStatus, &b.SpecialRequests,
		&b.CreatedAt, &b.UpdatedAt, &b.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	sel, err := models.SelectorFromParts(models.BookingType(bookingType), unitIDs)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	b.Selector = sel
	return &b, nil
}
