package models

import "github.com/google/uuid"

// LedgerKind names the table a hold belongs to.
type LedgerKind string

const (
	LedgerBooking LedgerKind = "BOOKING"
	LedgerLease   LedgerKind = "LEASE"
)

// UnitHold is one unit held by one ledger entry over a stay. Only blocking
// holds take part in conflict detection.
type UnitHold struct {
	UnitID     uuid.UUID  `json:"unitId"`
	LedgerKind LedgerKind `json:"ledgerKind"`
	LedgerID   uuid.UUID  `json:"ledgerId"`
	Stay       DateRange  `json:"stay"`
	Blocking   bool       `json:"blocking"`
}

// HoldsForBooking expands a booking into one hold per held unit.
func HoldsForBooking(b *Booking) []UnitHold {
	ids := b.UnitIDs()
	out := make([]UnitHold, 0, len(ids))
	for _, id := range ids {
		out = append(out, UnitHold{
			UnitID:     id,
			LedgerKind: LedgerBooking,
			LedgerID:   b.ID,
			Stay:       b.Stay(),
			Blocking:   b.Blocking(),
		})
	}
	return out
}

// HoldForLease is the single bed hold of a lease.
func HoldForLease(l *Lease) UnitHold {
	return UnitHold{
		UnitID:     l.BedID,
		LedgerKind: LedgerLease,
		LedgerID:   l.ID,
		Stay:       l.Term(),
		Blocking:   l.Blocking(),
	}
}
