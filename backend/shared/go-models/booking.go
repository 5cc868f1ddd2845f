package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Guest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Booking is a ledger entry for apartments, resorts and PG stays.
type Booking struct {
	Versioned

	ID         uuid.UUID     `json:"id"`
	Kind       InventoryKind `json:"kind"`
	PropertyID uuid.UUID     `json:"propertyId"`
	Selector   UnitSelector  `json:"-"`

	Guest       Guest      `json:"guestDetails"`
	CheckIn     time.Time  `json:"checkInDate"`
	CheckOut    *time.Time `json:"checkOutDate,omitempty"`
	TotalGuests int        `json:"totalGuests"`

	TotalNights   int     `json:"totalNights"`
	TotalPrice    float64 `json:"totalPrice"`
	AdvanceAmount float64 `json:"advanceAmount"`

	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	BookingStatus   BookingStatus `json:"bookingStatus"`
	SpecialRequests string        `json:"specialRequests,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) GetID() string { return b.ID.String() }

// Stay is the booked interval.
func (b *Booking) Stay() DateRange {
	return DateRange{Start: b.CheckIn, End: b.CheckOut}
}

// UnitIDs lists the units the booking holds.
func (b *Booking) UnitIDs() []uuid.UUID {
	if b.Selector == nil {
		return nil
	}
	return b.Selector.UnitIDs()
}

// Blocking reports whether the booking currently holds its units.
func (b *Booking) Blocking() bool {
	return IsBlocking(b.Kind, b.BookingStatus)
}

type bookingAlias Booking

type bookingJSON struct {
	*bookingAlias
	BookingType     BookingType `json:"bookingType"`
	FullApartmentID *uuid.UUID  `json:"fullApartmentId,omitempty"`
	RoomIDs         []uuid.UUID `json:"roomIds,omitempty"`
	UnitID          *uuid.UUID  `json:"unitId,omitempty"`
}

// MarshalJSON flattens the selector into bookingType plus its own id fields.
func (b Booking) MarshalJSON() ([]byte, error) {
	out := bookingJSON{bookingAlias: (*bookingAlias)(&b)}
	switch s := b.Selector.(type) {
	case FullApartmentSelector:
		out.BookingType = s.BookingType()
		out.FullApartmentID = &s.FullApartmentID
	case RoomSetSelector:
		out.BookingType = s.BookingType()
		out.RoomIDs = s.RoomIDs
	case SingleUnitSelector:
		out.BookingType = s.BookingType()
		out.UnitID = &s.UnitID
	}
	return json.Marshal(out)
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	in := bookingJSON{bookingAlias: (*bookingAlias)(b)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var ids []uuid.UUID
	switch in.BookingType {
	case BookingTypeFullApartment:
		if in.FullApartmentID != nil {
			ids = []uuid.UUID{*in.FullApartmentID}
		}
	case BookingTypeRoom:
		ids = in.RoomIDs
	case BookingTypeUnit:
		if in.UnitID != nil {
			ids = []uuid.UUID{*in.UnitID}
		}
	case "":
		return nil
	}
	sel, err := SelectorFromParts(in.BookingType, ids)
	if err != nil {
		return err
	}
	b.Selector = sel
	return nil
}
