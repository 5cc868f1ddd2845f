package models

type BookingStatus string

const (
	BookingPending    BookingStatus = "Pending"
	BookingConfirmed  BookingStatus = "Confirmed"
	BookingCheckedIn  BookingStatus = "CheckedIn"
	BookingCheckedOut BookingStatus = "CheckedOut"
	BookingCompleted  BookingStatus = "Completed"
	BookingCancelled  BookingStatus = "Cancelled"
)

var allBookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCompleted, BookingCancelled,
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentPaid      PaymentStatus = "Paid"
	PaymentCancelled PaymentStatus = "Cancelled"
	PaymentRefunded  PaymentStatus = "Refunded"
	PaymentFailed    PaymentStatus = "Failed"
)

type bookingLifecycle struct {
	initial     BookingStatus
	transitions map[BookingStatus][]BookingStatus
	blocking    []BookingStatus
	payments    []PaymentStatus
}

// Per-inventory state machines. A status with no outgoing transitions is terminal.
var bookingLifecycles = map[InventoryKind]bookingLifecycle{
	InventoryApartment: {
		initial: BookingConfirmed,
		transitions: map[BookingStatus][]BookingStatus{
			BookingConfirmed: {BookingCompleted, BookingCancelled},
			BookingCompleted: nil,
			BookingCancelled: nil,
		},
		blocking: []BookingStatus{BookingConfirmed},
		payments: []PaymentStatus{PaymentPending, PaymentPaid, PaymentCancelled},
	},
	InventoryResort: {
		initial: BookingPending,
		transitions: map[BookingStatus][]BookingStatus{
			BookingPending:    {BookingConfirmed, BookingCancelled},
			BookingConfirmed:  {BookingCheckedIn, BookingCancelled},
			BookingCheckedIn:  {BookingCheckedOut, BookingCancelled},
			BookingCheckedOut: nil,
			BookingCancelled:  nil,
		},
		// a checked-in guest is still occupying the room
		blocking: []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn},
		payments: []PaymentStatus{PaymentPending, PaymentPaid, PaymentRefunded},
	},
	InventoryPG: {
		initial: BookingConfirmed,
		transitions: map[BookingStatus][]BookingStatus{
			BookingConfirmed: {BookingCompleted, BookingCancelled},
			BookingCompleted: nil,
			BookingCancelled: nil,
		},
		blocking: []BookingStatus{BookingConfirmed},
		payments: []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed},
	},
}

// InitialBookingStatus is the status a new booking of this kind starts in.
func InitialBookingStatus(kind InventoryKind) BookingStatus {
	return bookingLifecycles[kind].initial
}

// BookingStatuses lists the statuses valid for the kind.
func BookingStatuses(kind InventoryKind) []BookingStatus {
	var out []BookingStatus
	for _, s := range allBookingStatuses {
		if ValidBookingStatus(kind, s) {
			out = append(out, s)
		}
	}
	return out
}

func ValidBookingStatus(kind InventoryKind, s BookingStatus) bool {
	_, ok := bookingLifecycles[kind].transitions[s]
	return ok
}

func ValidPaymentStatus(kind InventoryKind, p PaymentStatus) bool {
	for _, v := range bookingLifecycles[kind].payments {
		if v == p {
			return true
		}
	}
	return false
}

// CanTransition reports whether a booking may move from -> to. Staying in
// the same status is always allowed.
func CanTransition(kind InventoryKind, from, to BookingStatus) bool {
	if from == to {
		return ValidBookingStatus(kind, from)
	}
	for _, next := range bookingLifecycles[kind].transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(kind InventoryKind, s BookingStatus) bool {
	next, ok := bookingLifecycles[kind].transitions[s]
	return ok && len(next) == 0
}

// IsBlocking reports whether a booking in status s holds its units.
func IsBlocking(kind InventoryKind, s BookingStatus) bool {
	for _, b := range bookingLifecycles[kind].blocking {
		if b == s {
			return true
		}
	}
	return false
}

// BlockingStatuses lists every status, across kinds, that holds units.
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn}
}

// CancelledPaymentStatus is what a booking's payment status becomes on
// cancellation. ok is false when it should be left alone.
func CancelledPaymentStatus(kind InventoryKind, current PaymentStatus) (PaymentStatus, bool) {
	switch kind {
	case InventoryApartment:
		return PaymentCancelled, true
	case InventoryResort:
		if current == PaymentPaid {
			return PaymentRefunded, true
		}
	}
	return current, false
}

/* ───── leases ───── */

type LeaseStatus string

const (
	LeaseActive    LeaseStatus = "Active"
	LeaseEnded     LeaseStatus = "Ended"
	LeaseCancelled LeaseStatus = "Cancelled"
)

func ValidLeaseStatus(s LeaseStatus) bool {
	switch s {
	case LeaseActive, LeaseEnded, LeaseCancelled:
		return true
	}
	return false
}

// CanTransitionLease: Active -> Ended | Cancelled, both terminal.
func CanTransitionLease(from, to LeaseStatus) bool {
	if from == to {
		return ValidLeaseStatus(from)
	}
	return from == LeaseActive && (to == LeaseEnded || to == LeaseCancelled)
}
