package utils

// Error codes specific to booking-service only.
const (
	ErrCodePropertyInactive = "property_inactive"
	ErrCodeStayOutOfBounds  = "stay_out_of_bounds"
	ErrCodeGuestsOverCap    = "guests_over_capacity"
)
