// Package events carries booking and lease lifecycle events from the
// request path to asynchronous consumers such as notifications.
package events

import (
	"context"
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
)

type EventType string

const (
	BookingCreated       EventType = "booking.created"
	BookingCancelled     EventType = "booking.cancelled"
	BookingStatusChanged EventType = "booking.status_changed"
	BookingDeleted       EventType = "booking.deleted"
	LeaseCreated         EventType = "lease.created"
	LeaseCancelled       EventType = "lease.cancelled"
	LeaseEnded           EventType = "lease.ended"
)

// BookingEvent is emitted after the ledger change it describes committed.
// Exactly one of Booking or Lease is set.
type BookingEvent struct {
	ID         uuid.UUID            `json:"id"`
	Type       EventType            `json:"type"`
	Kind       models.InventoryKind `json:"kind"`
	Booking    *models.Booking      `json:"booking,omitempty"`
	Lease      *models.Lease        `json:"lease,omitempty"`
	Tenant     *models.Tenant       `json:"tenant,omitempty"`
	OccurredAt time.Time            `json:"occurredAt"`
}

func NewBookingEvent(t EventType, b *models.Booking) BookingEvent {
	return BookingEvent{
		ID:         uuid.New(),
		Type:       t,
		Kind:       b.Kind,
		Booking:    b,
		OccurredAt: time.Now().UTC(),
	}
}

func NewLeaseEvent(t EventType, l *models.Lease, tenant *models.Tenant) BookingEvent {
	return BookingEvent{
		ID:         uuid.New(),
		Type:       t,
		Kind:       models.InventoryPG,
		Lease:      l,
		Tenant:     tenant,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher hands an event to the delivery mechanism. It must not block on
// consumers, and its failures never undo the ledger change.
type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
}

// Handler consumes one event. Errors are logged by the caller.
type Handler func(ctx context.Context, ev BookingEvent) error

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, ev BookingEvent) error

func (f PublisherFunc) Publish(ctx context.Context, ev BookingEvent) error { return f(ctx, ev) }
