package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is the review aggregate kept on apartment properties.
type Rating struct {
	Average      float64 `json:"average"`
	ReviewsCount int     `json:"reviewsCount"`
}

// Location is where a property sits.
type Location struct {
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state,omitempty"`
	Country   string   `json:"country,omitempty"`
	Pincode   string   `json:"pincode,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Property is the root inventory container: an apartment complex, a PG
// building or a resort. It owns its units and floors.
type Property struct {
	Versioned

	ID          uuid.UUID     `json:"id"`
	Kind        InventoryKind `json:"kind"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`

	// PropertyType is "Full Apartment", "Room Based" or "Mixed" for apartments.
	PropertyType string `json:"propertyType,omitempty"`
	// GenderType is "Male", "Female" or "Co-Living" for PGs.
	GenderType string `json:"genderType,omitempty"`

	Location      Location `json:"location"`
	ContactNumber string   `json:"contactNumber,omitempty"`
	Email         string   `json:"email,omitempty"`
	Amenities     []string `json:"amenities"`
	Rules         []string `json:"rules"`

	CheckInTime   string `json:"checkInTime"`
	CheckOutTime  string `json:"checkOutTime"`
	MinStayNights int    `json:"minStayNights"`
	MaxStayNights *int   `json:"maxStayNights,omitempty"`

	Featured bool   `json:"featured"`
	IsActive bool   `json:"isActive"`
	Rating   Rating `json:"rating"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Property) GetID() string { return p.ID.String() }

const (
	DefaultCheckInTime  = "12:00 PM"
	DefaultCheckOutTime = "11:00 AM"
)
