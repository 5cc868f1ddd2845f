package routes

const (
	// Health
	Health = "/health"

	// Premium apartment bookings
	ApartmentBookingsBase  = "/api/v1/premium-apartment-booking"
	ApartmentBookingByID   = "/api/v1/premium-apartment-booking/{id}"
	ApartmentBookingCancel = "/api/v1/premium-apartment-booking/{id}/cancel"
	ApartmentBookingStatus = "/api/v1/premium-apartment-booking/{id}/status"

	// Resort bookings
	ResortBookingsBase  = "/api/v1/resort-booking"
	ResortBookingByID   = "/api/v1/resort-booking/{id}"
	ResortBookingCancel = "/api/v1/resort-booking/{id}/cancel"
	ResortBookingStatus = "/api/v1/resort-booking/{id}/status"

	// PG bookings and leases
	PGBookingsBase  = "/api/v1/pg-booking"
	PGBookingByID   = "/api/v1/pg-booking/{id}"
	PGBookingCancel = "/api/v1/pg-booking/{id}/cancel"
	PGBookingStatus = "/api/v1/pg-booking/{id}/status"
	PGLeasesBase    = "/api/v1/pg/leases"
	PGLeaseByID     = "/api/v1/pg/leases/{id}"
	PGLeaseCancel   = "/api/v1/pg/leases/{id}/cancel"
	PGLeaseStatus   = "/api/v1/pg/leases/{id}/status"
	PGLeasePayments = "/api/v1/pg/leases/{id}/payments"

	// Availability
	ApartmentAvailability = "/api/v1/premium-apartments/availability"
	ResortAvailability    = "/api/v1/resorts/availability"
	PGAvailability        = "/api/v1/pg/availability"

	// Catalog; writes are admin-only
	ApartmentsBase          = "/api/v1/premium-apartments"
	ApartmentByID           = "/api/v1/premium-apartments/{id}"
	ApartmentToggle         = "/api/v1/premium-apartments/{id}/toggle"
	ApartmentAvailabilityOf = "/api/v1/premium-apartments/{id}/availability"
	// Reviews
	ApartmentReviews    = "/api/v1/premium-apartments/{id}/reviews"
	ApartmentReviewByID = "/api/v1/premium-apartments/{id}/reviews/{reviewId}"

	ResortsBase  = "/api/v1/resorts"
	ResortByID   = "/api/v1/resorts/{id}"
	ResortToggle = "/api/v1/resorts/{id}/toggle"

	PGPropertiesBase = "/api/v1/pg/properties"
	PGPropertyByID   = "/api/v1/pg/properties/{id}"
	PGPropertyToggle = "/api/v1/pg/properties/{id}/toggle"
	PGPropertyFloors = "/api/v1/pg/properties/{id}/floors"
	PGFloorByID      = "/api/v1/pg/floors/{floorId}"
	PGTenantsBase    = "/api/v1/pg/tenants"
	PGTenantByID     = "/api/v1/pg/tenants/{id}"

	// Units of any kind
	PropertyUnits = "/api/v1/properties/{id}/units"
	UnitByID      = "/api/v1/units/{unitId}"
	UnitToggle    = "/api/v1/units/{unitId}/toggle"

	// Admin audit trail for any entity id
	AdminAuditHistory = "/api/v1/admin/audit/{id}"
)
