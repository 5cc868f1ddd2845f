package dtos

type HealthCheckResponse struct {
	Status string `json:"status"`
}

type GuestDetails struct {
	Name  string `json:"name" validate:"required,max=120"`
	Phone string `json:"phone" validate:"required,max=32"`
	Email string `json:"email" validate:"omitempty,email"`
}

// CreateApartmentBookingRequest books either one full apartment or a set of
// rooms inside a premium apartment property.
type CreateApartmentBookingRequest struct {
	ApartmentID     string       `json:"apartmentId" validate:"required,uuid"`
	BookingType     string       `json:"bookingType" validate:"required,oneof='Full Apartment' Room"`
	FullApartmentID string       `json:"fullApartmentId" validate:"omitempty,uuid"`
	RoomIDs         []string     `json:"roomIds" validate:"omitempty,dive,uuid"`
	GuestDetails    GuestDetails `json:"guestDetails" validate:"required"`
	CheckInDate     string       `json:"checkInDate" validate:"required"`
	CheckOutDate    string       `json:"checkOutDate" validate:"required"`
	TotalGuests     int          `json:"totalGuests" validate:"gte=0"`
	SpecialRequests string       `json:"specialRequests" validate:"max=2000"`
}

type CreateResortBookingRequest struct {
	PropertyID      string   `json:"propertyId" validate:"required,uuid"`
	RoomID          string   `json:"roomId" validate:"required,uuid"`
	FullName        string   `json:"fullName" validate:"required,max=120"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Phone           string   `json:"phone" validate:"required,max=32"`
	CheckInDate     string   `json:"checkInDate" validate:"required"`
	CheckOutDate    string   `json:"checkOutDate" validate:"required"`
	Guests          int      `json:"guests" validate:"gte=0"`
	TotalAmount     *float64 `json:"totalAmount" validate:"omitempty,gte=0"`
	SpecialRequests string   `json:"specialRequests" validate:"max=2000"`
}

// CreatePGBookingRequest holds a bed when BedID is set, otherwise the room.
type CreatePGBookingRequest struct {
	PropertyID    string  `json:"propertyId" validate:"required,uuid"`
	RoomID        string  `json:"roomId" validate:"required,uuid"`
	BedID         string  `json:"bedId" validate:"omitempty,uuid"`
	Name          string  `json:"name" validate:"required,max=120"`
	Phone         string  `json:"phone" validate:"required,max=32"`
	Email         string  `json:"email" validate:"omitempty,email"`
	CheckInDate   string  `json:"checkInDate" validate:"required"`
	CheckOutDate  *string `json:"checkOutDate"`
	TotalRent     float64 `json:"totalRent" validate:"gte=0"`
	AdvanceAmount float64 `json:"advanceAmount" validate:"gte=0"`
}

// UpdateBookingStatusRequest accepts "status" or "bookingStatus" for the
// booking status; at least one of the two statuses must be present.
type UpdateBookingStatusRequest struct {
	Status        string `json:"status"`
	BookingStatus string `json:"bookingStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

func (r UpdateBookingStatusRequest) EffectiveStatus() string {
	if r.BookingStatus != "" {
		return r.BookingStatus
	}
	return r.Status
}

// DeleteByBodyRequest is the body of DELETE on a collection route.
type DeleteByBodyRequest struct {
	ID        string `json:"id"`
	BookingID string `json:"bookingId"`
}

func (r DeleteByBodyRequest) EffectiveID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.BookingID
}

type ListBookingsQuery struct {
	Status     string
	PropertyID string
}
