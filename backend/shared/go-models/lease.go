package models

import (
	"time"

	"github.com/google/uuid"
)

type LeasePayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Method string    `json:"method,omitempty"`
}

// Lease is a PG tenant's claim on a bed. EndDate may be open.
type Lease struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"propertyId"`
	RoomID     uuid.UUID `json:"roomId"`
	BedID      uuid.UUID `json:"bedId"`
	TenantID   uuid.UUID `json:"tenantId"`

	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	RentAmount     float64        `json:"rentAmount"`
	DepositAmount  float64        `json:"depositAmount"`
	PaymentHistory []LeasePayment `json:"paymentHistory"`
	Status         LeaseStatus    `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *Lease) GetID() string { return l.ID.String() }

func (l *Lease) Term() DateRange {
	return DateRange{Start: l.StartDate, End: l.EndDate}
}

// Blocking reports whether the lease holds its bed.
func (l *Lease) Blocking() bool { return l.Status == LeaseActive }
