package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

// ErrHoldConflict means a unit is already held by a blocking ledger entry
// over an overlapping stay.
var ErrHoldConflict = errors.New("unit_hold_conflict")

// HoldConflictError carries the holds that blocked a reservation when they
// are known. It matches ErrHoldConflict under errors.Is.
type HoldConflictError struct {
	Holds []models.UnitHold
}

func (e *HoldConflictError) Error() string {
	return fmt.Sprintf("%s: %d overlapping hold(s)", ErrHoldConflict, len(e.Holds))
}

func (e *HoldConflictError) Unwrap() error { return ErrHoldConflict }

/* ───────────── public interface ───────────── */

// HoldRepository reads the unit_holds ledger shared by bookings and leases.
type HoldRepository interface {
	// FindBlocking returns every blocking hold on any of unitIDs whose stay
	// overlaps rng.
	FindBlocking(ctx context.Context, unitIDs []uuid.UUID, rng models.DateRange) ([]models.UnitHold, error)
	ListByLedger(ctx context.Context, kind models.LedgerKind, ledgerID uuid.UUID) ([]models.UnitHold, error)
}

/* ───────────── implementation ───────────── */

type holdRepo struct {
	db DB
}

func NewHoldRepository(db DB) HoldRepository {
	return &holdRepo{db: db}
}

func (r *holdRepo) FindBlocking(ctx context.Context, unitIDs []uuid.UUID, rng models.DateRange) ([]models.UnitHold, error) {
	return findBlockingHolds(ctx, r.db, unitIDs, rng, nil)
}

func (r *holdRepo) ListByLedger(ctx context.Context, kind models.LedgerKind, ledgerID uuid.UUID) ([]models.UnitHold, error) {
	rows, err := r.db.Query(ctx, baseSelectHold()+` WHERE ledger_kind=$1 AND ledger_id=$2 ORDER BY unit_id`, string(kind), ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolds(rows)
}

/* ---------- helpers shared with the booking and lease repos ---------- */

func findBlockingHolds(
	ctx context.Context,
	q querier,
	unitIDs []uuid.UUID,
	rng models.DateRange,
	excludeLedger *uuid.UUID,
) ([]models.UnitHold, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	sql := baseSelectHold() + `
		WHERE blocking
		  AND unit_id = ANY($1::uuid[])
		  AND stay && tstzrange($2, $3, '[)')`
	args := []any{unitIDs, rng.Start, rng.End}
	if excludeLedger != nil {
		sql += ` AND ledger_id <> $4`
		args = append(args, *excludeLedger)
	}
	sql += ` ORDER BY lower(stay)`

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolds(rows)
}

// lockUnits takes a transaction-scoped advisory lock per unit, in a fixed
// order, so concurrent reservations of the same unit run one at a time.
func lockUnits(ctx context.Context, tx pgx.Tx, unitIDs []uuid.UUID) error {
	ids := make([]string, 0, len(unitIDs))
	for _, id := range unitIDs {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, id); err != nil {
			return fmt.Errorf("lock unit %s: %w", id, err)
		}
	}
	return nil
}

func insertHolds(ctx context.Context, q querier, holds []models.UnitHold) error {
	for _, h := range holds {
		_, err := q.Exec(ctx, `
			INSERT INTO unit_holds (unit_id, ledger_kind, ledger_id, stay, blocking)
			VALUES ($1, $2, $3, tstzrange($4, $5, '[)'), $6)
		`, h.UnitID, string(h.LedgerKind), h.LedgerID, h.Stay.Start, h.Stay.End, h.Blocking)
		if err != nil {
			if hasPgCode(err, pgCodeExclusionViolation) {
				return fmt.Errorf("unit %s: %w", h.UnitID, ErrHoldConflict)
			}
			return err
		}
	}
	return nil
}

func setHoldsBlocking(ctx context.Context, q querier, kind models.LedgerKind, ledgerID uuid.UUID, blocking bool) error {
	_, err := q.Exec(ctx, `UPDATE unit_holds SET blocking=$1 WHERE ledger_kind=$2 AND ledger_id=$3`, blocking, string(kind), ledgerID)
	if hasPgCode(err, pgCodeExclusionViolation) {
		return ErrHoldConflict
	}
	return err
}

func setHoldsStay(ctx context.Context, q querier, kind models.LedgerKind, ledgerID uuid.UUID, stay models.DateRange) error {
	_, err := q.Exec(ctx, `
		UPDATE unit_holds SET stay=tstzrange($1, $2, '[)')
		WHERE ledger_kind=$3 AND ledger_id=$4
	`, stay.Start, stay.End, string(kind), ledgerID)
	if hasPgCode(err, pgCodeExclusionViolation) {
		return ErrHoldConflict
	}
	return err
}

func deleteHolds(ctx context.Context, q querier, kind models.LedgerKind, ledgerID uuid.UUID) error {
	_, err := q.Exec(ctx, `DELETE FROM unit_holds WHERE ledger_kind=$1 AND ledger_id=$2`, string(kind), ledgerID)
	return err
}

/* ---------- internals ---------- */

func baseSelectHold() string {
	return `SELECT unit_id, ledger_kind, ledger_id, stay, blocking FROM unit_holds`
}

func scanHold(row pgx.Row) (*models.UnitHold, error) {
	var (
		h    models.UnitHold
		stay pgtype.Tstzrange
		kind string
	)
	if err := row.Scan(&h.UnitID, &kind, &h.LedgerID, &stay, &h.Blocking); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	h.LedgerKind = models.LedgerKind(kind)
	h.Stay = rangeFromTstzrange(stay)
	return &h, nil
}

func scanHolds(rows pgx.Rows) ([]models.UnitHold, error) {
	var out []models.UnitHold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// rangeFromTstzrange maps an unbounded upper bound to an open-ended range.
func rangeFromTstzrange(r pgtype.Tstzrange) models.DateRange {
	out := models.DateRange{Start: r.Lower.Time.UTC()}
	if r.UpperType != pgtype.Unbounded {
		end := r.Upper.Time.UTC()
		out.End = &end
	}
	return out
}
