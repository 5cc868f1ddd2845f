package constants

import "time"

// Event delivery
const (
	EventStream         = "transhastays:booking-events"
	EventConsumerGroup  = "booking-notifier"
	EventBusBufferSize  = 256
	EventBusWorkers     = 2
	EventHandlerTimeout = 15 * time.Second
)

// Background jobs
const (
	LeaseMaintenanceSchedule = "10 0 * * *"
	LeaseMaintenanceTimeout  = 2 * time.Minute
)

// Response messages
const (
	MsgBookingCreated   = "Booking created successfully"
	MsgBookingCancelled = "Booking cancelled successfully"
	MsgBookingUpdated   = "Booking status updated successfully"
	MsgBookingDeleted   = "Booking deleted successfully"
	MsgBookingsFetched  = "Bookings fetched successfully"
	MsgBookingFetched   = "Booking fetched successfully"
	MsgUnitUnavailable  = "Selected apartment or room is already booked for these dates"
	MsgBedUnavailable   = "Bed is already booked in the selected date range"
	MsgAvailability     = "Availability fetched successfully"
	MsgLeaseCreated     = "Lease created successfully"
	MsgLeaseUpdated     = "Lease updated successfully"
	MsgLeasesFetched    = "Leases fetched successfully"
	MsgPaymentRecorded  = "Payment recorded successfully"
	MsgReviewSaved      = "Review saved successfully"
	MsgReviewDeleted    = "Review deleted successfully"
	MsgReviewsFetched   = "Reviews fetched successfully"
	MsgPropertySaved    = "Property saved successfully"
	MsgPropertyDeleted  = "Property deleted successfully"
	MsgPropertyToggled  = "Property status updated"
	MsgPropertiesFound  = "Properties fetched successfully"
	MsgPropertyFetched  = "Property fetched successfully"
	MsgUnitSaved        = "Unit saved successfully"
	MsgUnitDeleted      = "Unit deleted successfully"
	MsgUnitsFetched     = "Units fetched successfully"
	MsgFloorSaved       = "Floor saved successfully"
	MsgFloorDeleted     = "Floor deleted successfully"
	MsgFloorsFetched    = "Floors fetched successfully"
	MsgTenantSaved      = "Tenant saved successfully"
	MsgTenantsFetched   = "Tenants fetched successfully"
	MsgTenantFetched    = "Tenant fetched successfully"
	MsgLeaseFetched     = "Lease fetched successfully"
	MsgAuditFetched     = "Audit history fetched successfully"
	ErrMsgRowVersion    = "Another update occurred, please refresh"
)
