package dtos

import (
	"time"

	"github.com/google/uuid"
)

type StayAvailabilityRequest struct {
	PropertyID   string `json:"propertyId" validate:"required,uuid"`
	CheckInDate  string `json:"checkInDate" validate:"required"`
	CheckOutDate string `json:"checkOutDate" validate:"required"`
}

// PGAvailabilityRequest defaults to an open-ended window starting now.
type PGAvailabilityRequest struct {
	PropertyID string  `json:"propertyId" validate:"required,uuid"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
}

type UnitAvailability struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	RoomType      string    `json:"roomType,omitempty"`
	PricePerNight float64   `json:"pricePerNight"`
	Capacity      int       `json:"capacity"`
	Available     bool      `json:"available"`
}

type ApartmentAvailabilityResponse struct {
	PropertyID     uuid.UUID          `json:"propertyId"`
	CheckInDate    time.Time          `json:"checkInDate"`
	CheckOutDate   time.Time          `json:"checkOutDate"`
	Nights         int                `json:"nights"`
	FullApartments []UnitAvailability `json:"apartments"`
	Rooms          []UnitAvailability `json:"rooms"`
}

type ResortAvailabilityResponse struct {
	PropertyID   uuid.UUID          `json:"propertyId"`
	CheckInDate  time.Time          `json:"checkInDate"`
	CheckOutDate time.Time          `json:"checkOutDate"`
	Nights       int                `json:"nights"`
	Rooms        []UnitAvailability `json:"rooms"`
}

type BedAvailability struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"bedNumber"`
	PricePerMonth float64    `json:"pricePerMonth"`
	DepositAmount float64    `json:"depositAmount"`
	Available     bool       `json:"available"`
	IsOccupied    bool       `json:"isOccupied"`
	TenantID      *uuid.UUID `json:"currentTenant,omitempty"`
}

type RoomAvailability struct {
	ID             uuid.UUID         `json:"id"`
	RoomNumber     string            `json:"roomNumber"`
	SharingType    string            `json:"sharingType"`
	PricePerMonth  float64           `json:"pricePerMonth"`
	Status         string            `json:"status"`
	Available      bool              `json:"available"`
	FullyAvailable bool              `json:"fullyAvailable"`
	AvailableBeds  int               `json:"availableBeds"`
	TotalBeds      int               `json:"totalBeds"`
	Beds           []BedAvailability `json:"beds"`
}

type FloorAvailability struct {
	ID          uuid.UUID          `json:"id"`
	FloorNumber int                `json:"floorNumber"`
	Name        string             `json:"name"`
	Rooms       []RoomAvailability `json:"rooms"`
}

type PGAvailabilityResponse struct {
	PropertyID    uuid.UUID           `json:"propertyId"`
	StartDate     time.Time           `json:"startDate"`
	EndDate       *time.Time          `json:"endDate,omitempty"`
	AvailableBeds int                 `json:"availableBeds"`
	TotalBeds     int                 `json:"totalBeds"`
	Floors        []FloorAvailability `json:"floors"`
}
