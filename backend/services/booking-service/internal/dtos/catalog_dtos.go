package dtos

import "github.com/MikyMack/TranshaStays/backend/shared/go-models"

type LocationRequest struct {
	Address   string   `json:"address" validate:"required"`
	City      string   `json:"city" validate:"required"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Pincode   string   `json:"pincode"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// PropertyRequest is used for both create and full update. Slug is derived
// from Name when empty.
type PropertyRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Slug          string          `json:"slug" validate:"omitempty,max=200"`
	Description   string          `json:"description"`
	PropertyType  string          `json:"propertyType" validate:"omitempty,oneof='Full Apartment' 'Room Based' Mixed"`
	GenderType    string          `json:"genderType" validate:"omitempty,oneof=Male Female Co-Living"`
	Location      LocationRequest `json:"location" validate:"required"`
	ContactNumber string          `json:"contactNumber"`
	Email         string          `json:"email" validate:"omitempty,email"`
	Amenities     []string        `json:"amenities"`
	Rules         []string        `json:"rules"`
	CheckInTime   string          `json:"checkInTime"`
	CheckOutTime  string          `json:"checkOutTime"`
	MinStayNights int             `json:"minStayNights" validate:"gte=0"`
	MaxStayNights *int            `json:"maxStayNights" validate:"omitempty,gt=0"`
	Featured      bool            `json:"featured"`
	IsActive      *bool           `json:"isActive"`
}

type BedRequest struct {
	Name          string   `json:"bedNumber" validate:"required"`
	BedType       string   `json:"bedType"`
	PricePerMonth *float64 `json:"pricePerMonth" validate:"omitempty,gte=0"`
	DepositAmount *float64 `json:"depositAmount" validate:"omitempty,gte=0"`
}

// UnitRequest creates or updates any unit kind. PG rooms may carry their
// beds, which are created in the same call.
type UnitRequest struct {
	Kind          string       `json:"kind" validate:"required,oneof=FULL_APARTMENT APARTMENT_ROOM RESORT_ROOM PG_ROOM PG_BED"`
	ParentID      string       `json:"parentId" validate:"omitempty,uuid"`
	FloorID       string       `json:"floorId" validate:"omitempty,uuid"`
	Name          string       `json:"name" validate:"required,max=120"`
	Number        string       `json:"number"`
	RoomType      string       `json:"roomType"`
	SharingType   string       `json:"sharingType" validate:"omitempty,oneof=Single Double Triple Shared"`
	BedType       string       `json:"bedType"`
	Description   string       `json:"description"`
	Capacity      int          `json:"capacity" validate:"gte=0"`
	TotalRooms    int          `json:"totalRooms" validate:"gte=0"`
	PricePerNight float64      `json:"pricePerNight" validate:"gte=0"`
	PricePerMonth float64      `json:"pricePerMonth" validate:"gte=0"`
	DepositAmount float64      `json:"depositAmount" validate:"gte=0"`
	ExtraBedPrice float64      `json:"extraBedPrice" validate:"gte=0"`
	Amenities     []string     `json:"amenities"`
	IsAvailable   *bool        `json:"isAvailable"`
	Status        string       `json:"status" validate:"omitempty,oneof=Available Booked Occupied Maintenance"`
	Beds          []BedRequest `json:"beds" validate:"omitempty,dive"`
}

// ToggleRequest sets an explicit value; without one the flag is flipped.
type ToggleRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}

// ApartmentAvailabilityRequest is the admin override of a room's or full
// apartment's cached availability flag.
type ApartmentAvailabilityRequest struct {
	Type        string `json:"type" validate:"required,oneof=room apartment"`
	SubID       string `json:"subId" validate:"required,uuid"`
	IsAvailable *bool  `json:"isAvailable" validate:"required"`
}

type FloorRequest struct {
	FloorNumber int    `json:"floorNumber" validate:"gte=0"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type EmergencyContactRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

type TenantRequest struct {
	Name             string                  `json:"name" validate:"required,max=120"`
	Phone            string                  `json:"phone" validate:"required,max=32"`
	Email            string                  `json:"email" validate:"omitempty,email"`
	Gender           string                  `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	EmergencyContact EmergencyContactRequest `json:"emergencyContact"`
}

type ReviewRequest struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Rating  float64 `json:"rating" validate:"gte=1,lte=5"`
	Comment string  `json:"comment" validate:"max=2000"`
}

type ReviewResponse struct {
	Review *models.Review `json:"review,omitempty"`
	Rating models.Rating  `json:"rating"`
}

type ListPropertiesQuery struct {
	City     string
	Active   *bool
	Featured *bool
}
