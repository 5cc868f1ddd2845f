package models

import (
	"fmt"

	"github.com/google/uuid"
)

// BookingType discriminates which units a booking holds.
type BookingType string

const (
	BookingTypeFullApartment BookingType = "Full Apartment"
	BookingTypeRoom          BookingType = "Room"
	BookingTypeUnit          BookingType = "Unit"
)

// UnitSelector is a closed sum type: FullApartmentSelector, RoomSetSelector
// or SingleUnitSelector.
type UnitSelector interface {
	BookingType() BookingType
	// UnitIDs lists every unit the booking holds. A conflict on any of them
	// is a conflict for the booking.
	UnitIDs() []uuid.UUID
	isUnitSelector()
}

// FullApartmentSelector books one whole apartment.
type FullApartmentSelector struct {
	FullApartmentID uuid.UUID
}

func (FullApartmentSelector) BookingType() BookingType { return BookingTypeFullApartment }
func (s FullApartmentSelector) UnitIDs() []uuid.UUID   { return []uuid.UUID{s.FullApartmentID} }
func (FullApartmentSelector) isUnitSelector()          {}

// RoomSetSelector books a set of rooms together.
type RoomSetSelector struct {
	RoomIDs []uuid.UUID
}

func (RoomSetSelector) BookingType() BookingType { return BookingTypeRoom }
func (s RoomSetSelector) UnitIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(s.RoomIDs))
	copy(out, s.RoomIDs)
	return out
}
func (RoomSetSelector) isUnitSelector() {}

// SingleUnitSelector books one resort room, PG room or PG bed.
type SingleUnitSelector struct {
	UnitID uuid.UUID
}

func (SingleUnitSelector) BookingType() BookingType { return BookingTypeUnit }
func (s SingleUnitSelector) UnitIDs() []uuid.UUID   { return []uuid.UUID{s.UnitID} }
func (SingleUnitSelector) isUnitSelector()          {}

// NewRoomSetSelector de-duplicates ids, keeping the first occurrence order.
func NewRoomSetSelector(ids []uuid.UUID) RoomSetSelector {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return RoomSetSelector{RoomIDs: out}
}

// SelectorFromParts rebuilds a selector from its stored discriminator and ids.
func SelectorFromParts(t BookingType, ids []uuid.UUID) (UnitSelector, error) {
	switch t {
	case BookingTypeFullApartment:
		if len(ids) != 1 {
			return nil, fmt.Errorf("full apartment booking must hold exactly one unit, got %d", len(ids))
		}
		return FullApartmentSelector{FullApartmentID: ids[0]}, nil
	case BookingTypeRoom:
		if len(ids) == 0 {
			return nil, fmt.Errorf("room booking must hold at least one room")
		}
		return RoomSetSelector{RoomIDs: ids}, nil
	case BookingTypeUnit:
		if len(ids) != 1 {
			return nil, fmt.Errorf("unit booking must hold exactly one unit, got %d", len(ids))
		}
		return SingleUnitSelector{UnitID: ids[0]}, nil
	}
	return nil, fmt.Errorf("unknown booking type %q", t)
}
