package utils

import "time"

const (
	OrganizationName                      = "TranshaStays"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// DefaultCountryCallingCode is used when a guest phone is given without one.
	DefaultCountryCallingCode = "91"

	DateLayout = "2006-01-02"
	Day        = 24 * time.Hour
)
