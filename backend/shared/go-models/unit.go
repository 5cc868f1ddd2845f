// go-models/unit.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit is anything that can be held by a booking or lease: a full
// apartment, an apartment room, a resort room, a PG room or a PG bed.
//
// IsAvailable is a cached hint for listings. Whether a unit is free for a
// date range is always derived from the hold ledger.
type Unit struct {
	Versioned

	ID         uuid.UUID  `json:"id"`
	PropertyID uuid.UUID  `json:"propertyId"`
	Kind       UnitKind   `json:"kind"`
	ParentID   *uuid.UUID `json:"parentId,omitempty"` // room in a full apartment, bed in a PG room
	FloorID    *uuid.UUID `json:"floorId,omitempty"`  // PG rooms only

	Name        string `json:"name"`
	Number      string `json:"number,omitempty"`
	RoomType    string `json:"roomType,omitempty"`
	SharingType string `json:"sharingType,omitempty"`
	BedType     string `json:"bedType,omitempty"`
	Description string `json:"description,omitempty"`

	Capacity   int `json:"capacity"`
	TotalRooms int `json:"totalRooms,omitempty"`

	PricePerNight float64  `json:"pricePerNight"`
	PricePerMonth float64  `json:"pricePerMonth"`
	DepositAmount float64  `json:"depositAmount"`
	ExtraBedPrice float64  `json:"extraBedPrice,omitempty"`
	Amenities     []string `json:"amenities"`

	IsAvailable     bool       `json:"isAvailable"`
	Status          string     `json:"status,omitempty"`
	IsOccupied      bool       `json:"isOccupied"`
	CurrentTenantID *uuid.UUID `json:"currentTenantId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *Unit) GetID() string { return u.ID.String() }

// Unit status labels shown on resort and PG rooms.
const (
	UnitStatusAvailable   = "Available"
	UnitStatusBooked      = "Booked"
	UnitStatusOccupied    = "Occupied"
	UnitStatusMaintenance = "Maintenance"
)
