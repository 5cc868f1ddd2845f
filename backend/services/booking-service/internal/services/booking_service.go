package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/events"
	internal_utils "github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/utils"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
)

// BookingService creates bookings for all three inventory kinds and drives
// their lifecycle. Every write goes through the ledger's transactional
// reserve/transition so availability is never decided by cached flags.
type BookingService struct {
	properties     repositories.PropertyRepository
	units          repositories.UnitRepository
	bookings       repositories.BookingRepository
	overlap        *OverlapDetector
	pricing        PriceCalculator
	publisher      events.Publisher
	storageTimeout time.Duration
}

func NewBookingService(
	cfg *config.Config,
	properties repositories.PropertyRepository,
	units repositories.UnitRepository,
	bookings repositories.BookingRepository,
	overlap *OverlapDetector,
	publisher events.Publisher,
) *BookingService {
	return &BookingService{
		properties:     properties,
		units:          units,
		bookings:       bookings,
		overlap:        overlap,
		publisher:      publisher,
		storageTimeout: cfg.StorageTimeout,
	}
}

/* ───────────── create ───────────── */

func (s *BookingService) CreateApartmentBooking(ctx context.Context, req dtos.CreateApartmentBookingRequest) (*models.Booking, error) {
	propID, err := parseID("apartmentId", req.ApartmentID)
	if err != nil {
		return nil, err
	}
	stay, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	var (
		sel      models.UnitSelector
		unitKind models.UnitKind
		field    string
	)
	switch models.BookingType(req.BookingType) {
	case models.BookingTypeFullApartment:
		field = "fullApartmentId"
		if req.FullApartmentID == "" {
			return nil, utils.NewValidationError(field, "fullApartmentId is required for a Full Apartment booking")
		}
		id, err := parseID(field, req.FullApartmentID)
		if err != nil {
			return nil, err
		}
		sel, unitKind = models.FullApartmentSelector{FullApartmentID: id}, models.UnitFullApartment
	case models.BookingTypeRoom:
		field = "roomIds"
		if len(req.RoomIDs) == 0 {
			return nil, utils.NewValidationError(field, "roomIds must list at least one room")
		}
		ids := make([]uuid.UUID, 0, len(req.RoomIDs))
		for _, raw := range req.RoomIDs {
			id, err := parseID(field, raw)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		sel, unitKind = models.NewRoomSetSelector(ids), models.UnitApartmentRoom
	default:
		return nil, utils.NewValidationError("bookingType", "bookingType must be 'Full Apartment' or 'Room'")
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	prop, err := s.activeProperty(ctx, propID, models.InventoryApartment, "Apartment")
	if err != nil {
		return nil, err
	}
	units, err := s.propertyUnits(ctx, prop.ID, sel.UnitIDs(), unitKind, field)
	if err != nil {
		return nil, err
	}

	nights := Nights(stay.Start, *stay.End)
	if err := checkStayBounds(prop, nights); err != nil {
		return nil, err
	}
	if err := checkCapacity(units, req.TotalGuests, "totalGuests"); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:         uuid.New(),
		Kind:       models.InventoryApartment,
		PropertyID: prop.ID,
		Selector:   sel,
		Guest: models.Guest{
			Name:  req.GuestDetails.Name,
			Phone: req.GuestDetails.Phone,
			Email: req.GuestDetails.Email,
		},
		CheckIn:         stay.Start,
		CheckOut:        stay.End,
		TotalGuests:     req.TotalGuests,
		TotalNights:     nights,
		TotalPrice:      s.pricing.StayTotal(units, nights),
		PaymentStatus:   models.PaymentPending,
		BookingStatus:   models.InitialBookingStatus(models.InventoryApartment),
		SpecialRequests: req.SpecialRequests,
	}
	if err := s.reserve(ctx, b, units); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) CreateResortBooking(ctx context.Context, req dtos.CreateResortBookingRequest) (*models.Booking, error) {
	propID, err := parseID("propertyId", req.PropertyID)
	if err != nil {
		return nil, err
	}
	roomID, err := parseID("roomId", req.RoomID)
	if err != nil {
		return nil, err
	}
	stay, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	prop, err := s.activeProperty(ctx, propID, models.InventoryResort, "Resort")
	if err != nil {
		return nil, err
	}
	units, err := s.propertyUnits(ctx, prop.ID, []uuid.UUID{roomID}, models.UnitResortRoom, "roomId")
	if err != nil {
		return nil, err
	}
	room := units[0]
	if room.Status == models.UnitStatusMaintenance {
		return nil, utils.NewValidationError("roomId", "Room is under maintenance")
	}
	if err := checkCapacity(units, req.Guests, "guests"); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:         uuid.New(),
		Kind:       models.InventoryResort,
		PropertyID: prop.ID,
		Selector:   models.SingleUnitSelector{UnitID: room.ID},
		Guest: models.Guest{
			Name:  req.FullName,
			Phone: req.Phone,
			Email: req.Email,
		},
		CheckIn:         stay.Start,
		CheckOut:        stay.End,
		TotalGuests:     req.Guests,
		TotalNights:     Nights(stay.Start, *stay.End),
		TotalPrice:      s.pricing.ResortTotal(room, req.TotalAmount),
		PaymentStatus:   models.PaymentPending,
		BookingStatus:   models.InitialBookingStatus(models.InventoryResort),
		SpecialRequests: req.SpecialRequests,
	}
	if err := s.reserve(ctx, b, units); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) CreatePGBooking(ctx context.Context, req dtos.CreatePGBookingRequest) (*models.Booking, error) {
	propID, err := parseID("propertyId", req.PropertyID)
	if err != nil {
		return nil, err
	}
	roomID, err := parseID("roomId", req.RoomID)
	if err != nil {
		return nil, err
	}
	bedID, err := parseOptionalID("bedId", req.BedID)
	if err != nil {
		return nil, err
	}
	stay, err := parseOpenStay("checkInDate", "checkOutDate", req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	prop, err := s.activeProperty(ctx, propID, models.InventoryPG, "PG property")
	if err != nil {
		return nil, err
	}
	rooms, err := s.propertyUnits(ctx, prop.ID, []uuid.UUID{roomID}, models.UnitPGRoom, "roomId")
	if err != nil {
		return nil, err
	}
	held := rooms[0]
	if bedID != nil {
		beds, err := s.propertyUnits(ctx, prop.ID, []uuid.UUID{*bedID}, models.UnitPGBed, "bedId")
		if err != nil {
			return nil, err
		}
		if beds[0].ParentID == nil || *beds[0].ParentID != held.ID {
			return nil, badRequest(utils.ErrCodeValidation, "bedId", "Bed does not belong to this room", internal_utils.ErrUnitNotInProperty)
		}
		held = beds[0]
	}

	nights := 0
	if stay.End != nil {
		nights = Nights(stay.Start, *stay.End)
	}

	b := &models.Booking{
		ID:            uuid.New(),
		Kind:          models.InventoryPG,
		PropertyID:    prop.ID,
		Selector:      models.SingleUnitSelector{UnitID: held.ID},
		Guest:         models.Guest{Name: req.Name, Phone: req.Phone, Email: req.Email},
		CheckIn:       stay.Start,
		CheckOut:      stay.End,
		TotalGuests:   1,
		TotalNights:   nights,
		TotalPrice:    req.TotalRent,
		AdvanceAmount: req.AdvanceAmount,
		PaymentStatus: models.PaymentPending,
		BookingStatus: models.InitialBookingStatus(models.InventoryPG),
	}
	if err := s.reserve(ctx, b, []*models.Unit{held}); err != nil {
		return nil, err
	}
	return b, nil
}

// reserve runs the advisory pre-flight and then the transactional write.
// Units linked to the held ones (parent or children) are guarded in both.
// Both conflict paths produce the same response.
func (s *BookingService) reserve(ctx context.Context, b *models.Booking, held []*models.Unit) error {
	linked, err := LinkedUnits(ctx, s.units, held)
	if err != nil {
		return storageErr(err)
	}
	conflict, _, err := s.overlap.HasConflict(ctx, b.Selector, b.Stay(), linked...)
	if err != nil {
		return storageErr(err)
	}
	if conflict {
		return utils.NewConflictError(conflictMessage(b.Kind), repositories.ErrHoldConflict)
	}
	if err := s.bookings.Reserve(ctx, b, linked); err != nil {
		if errors.Is(err, repositories.ErrHoldConflict) {
			return utils.NewConflictError(conflictMessage(b.Kind), err)
		}
		return storageErr(err)
	}
	publish(ctx, s.publisher, events.NewBookingEvent(events.BookingCreated, b))
	return nil
}

func conflictMessage(kind models.InventoryKind) string {
	switch kind {
	case models.InventoryApartment:
		return constants.MsgUnitUnavailable
	case models.InventoryResort:
		return "Room is already booked for the selected dates"
	default:
		return "Selected room or bed is already booked for these dates"
	}
}

/* ───────────── reads ───────────── */

func (s *BookingService) ListBookings(ctx context.Context, kind models.InventoryKind, q dtos.ListBookingsQuery) ([]*models.Booking, error) {
	f := repositories.BookingFilter{Kind: kind}
	if q.Status != "" {
		st := models.BookingStatus(q.Status)
		if !models.ValidBookingStatus(kind, st) {
			return nil, utils.NewValidationError("status", fmt.Sprintf("status must be one of %v", models.BookingStatuses(kind)))
		}
		f.Statuses = []models.BookingStatus{st}
	}
	if q.PropertyID != "" {
		id, err := parseID("propertyId", q.PropertyID)
		if err != nil {
			return nil, err
		}
		f.PropertyID = &id
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	list, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.Booking{}
	}
	return list, nil
}

func (s *BookingService) GetBooking(ctx context.Context, kind models.InventoryKind, rawID string) (*models.Booking, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if b == nil || b.Kind != kind {
		return nil, utils.NewNotFoundError("Booking")
	}
	return b, nil
}

/* ───────────── lifecycle ───────────── */

// CancelBooking moves the booking to Cancelled, adjusts its payment status
// and restores the availability flag of every unit it held.
func (s *BookingService) CancelBooking(ctx context.Context, kind models.InventoryKind, rawID string) (*models.Booking, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	var from models.BookingStatus
	b, err := s.bookings.Transition(ctx, id, func(b *models.Booking) ([]uuid.UUID, error) {
		if b.Kind != kind {
			return nil, utils.NewNotFoundError("Booking")
		}
		from = b.BookingStatus
		if !models.CanTransition(kind, from, models.BookingCancelled) {
			return nil, utils.NewTransitionError(string(from), string(models.BookingCancelled))
		}
		if from == models.BookingCancelled {
			return nil, nil
		}
		b.BookingStatus = models.BookingCancelled
		if p, ok := models.CancelledPaymentStatus(kind, b.PaymentStatus); ok {
			b.PaymentStatus = p
		}
		return b.UnitIDs(), nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if b == nil {
		return nil, utils.NewNotFoundError("Booking")
	}
	if from != models.BookingCancelled {
		publish(ctx, s.publisher, events.NewBookingEvent(events.BookingCancelled, b))
	}
	return b, nil
}

// UpdateStatus applies an admin status and/or payment change. Statuses
// outside the kind's enum and disallowed transitions are rejected.
func (s *BookingService) UpdateStatus(
	ctx context.Context,
	kind models.InventoryKind,
	rawID string,
	req dtos.UpdateBookingStatusRequest,
) (*models.Booking, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	status := models.BookingStatus(req.EffectiveStatus())
	payment := models.PaymentStatus(req.PaymentStatus)
	if status == "" && payment == "" {
		return nil, utils.NewValidationError("status", "status or paymentStatus is required")
	}
	if status != "" && !models.ValidBookingStatus(kind, status) {
		return nil, utils.NewValidationError("status", fmt.Sprintf("status must be one of %v", models.BookingStatuses(kind)))
	}
	if payment != "" && !models.ValidPaymentStatus(kind, payment) {
		return nil, utils.NewValidationError("paymentStatus", fmt.Sprintf("paymentStatus %q is not valid for this booking", payment))
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	var from models.BookingStatus
	b, err := s.bookings.Transition(ctx, id, func(b *models.Booking) ([]uuid.UUID, error) {
		if b.Kind != kind {
			return nil, utils.NewNotFoundError("Booking")
		}
		from = b.BookingStatus
		var restore []uuid.UUID
		if status != "" {
			if !models.CanTransition(kind, from, status) {
				return nil, utils.NewTransitionError(string(from), string(status))
			}
			if status == models.BookingCancelled && from != models.BookingCancelled {
				restore = b.UnitIDs()
				if p, ok := models.CancelledPaymentStatus(kind, b.PaymentStatus); ok && payment == "" {
					b.PaymentStatus = p
				}
			}
			b.BookingStatus = status
		}
		if payment != "" {
			b.PaymentStatus = payment
		}
		return restore, nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if b == nil {
		return nil, utils.NewNotFoundError("Booking")
	}

	if b.BookingStatus != from {
		evType := events.BookingStatusChanged
		if b.BookingStatus == models.BookingCancelled {
			evType = events.BookingCancelled
		}
		publish(ctx, s.publisher, events.NewBookingEvent(evType, b))
	}
	return b, nil
}

// DeleteBooking removes the ledger entry after restoring the availability
// of the units it held.
func (s *BookingService) DeleteBooking(ctx context.Context, kind models.InventoryKind, rawID string) (*models.Booking, error) {
	if rawID == "" {
		return nil, utils.NewValidationError("id", "Booking ID required")
	}
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	existing, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if existing == nil || existing.Kind != kind {
		return nil, utils.NewNotFoundError("Booking")
	}

	b, err := s.bookings.DeleteAndRelease(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if b == nil {
		return nil, utils.NewNotFoundError("Booking")
	}
	publish(ctx, s.publisher, events.NewBookingEvent(events.BookingDeleted, b))
	return b, nil
}

/* ───────────── helpers ───────────── */

// activeProperty loads a property of the given kind that accepts bookings.
func (s *BookingService) activeProperty(ctx context.Context, id uuid.UUID, kind models.InventoryKind, resource string) (*models.Property, error) {
	return loadActiveProperty(ctx, s.properties, id, kind, resource)
}

func loadActiveProperty(
	ctx context.Context,
	properties repositories.PropertyRepository,
	id uuid.UUID,
	kind models.InventoryKind,
	resource string,
) (*models.Property, error) {
	prop, err := properties.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if prop == nil || prop.Kind != kind {
		return nil, utils.NewNotFoundError(resource)
	}
	if !prop.IsActive {
		return nil, badRequest(internal_utils.ErrCodePropertyInactive, "propertyId",
			resource+" is not accepting bookings", internal_utils.ErrPropertyInactive)
	}
	return prop, nil
}

// propertyUnits loads ids in order, requiring each to be a unit of kind
// inside the property.
func (s *BookingService) propertyUnits(
	ctx context.Context,
	propID uuid.UUID,
	ids []uuid.UUID,
	kind models.UnitKind,
	field string,
) ([]*models.Unit, error) {
	return loadPropertyUnits(ctx, s.units, propID, ids, kind, field)
}

func loadPropertyUnits(
	ctx context.Context,
	unitRepo repositories.UnitRepository,
	propID uuid.UUID,
	ids []uuid.UUID,
	kind models.UnitKind,
	field string,
) ([]*models.Unit, error) {
	found, err := unitRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, storageErr(err)
	}
	byID := make(map[uuid.UUID]*models.Unit, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	out := make([]*models.Unit, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		switch {
		case !ok:
			return nil, utils.NewValidationError(field, fmt.Sprintf("Invalid %s: %s does not exist", field, id))
		case u.PropertyID != propID:
			return nil, badRequest(utils.ErrCodeValidation, field,
				fmt.Sprintf("Invalid %s: %s belongs to another property", field, id), internal_utils.ErrUnitNotInProperty)
		case u.Kind != kind:
			return nil, badRequest(utils.ErrCodeValidation, field,
				fmt.Sprintf("Invalid %s: %s is not a %s", field, id, kind), internal_utils.ErrWrongUnitKind)
		}
		out = append(out, u)
	}
	return out, nil
}

func checkStayBounds(prop *models.Property, nights int) error {
	if prop.MinStayNights > 0 && nights < prop.MinStayNights {
		return badRequest(internal_utils.ErrCodeStayOutOfBounds, "checkOutDate",
			fmt.Sprintf("Minimum stay is %d nights", prop.MinStayNights), internal_utils.ErrStayOutOfBounds)
	}
	if prop.MaxStayNights != nil && nights > *prop.MaxStayNights {
		return badRequest(internal_utils.ErrCodeStayOutOfBounds, "checkOutDate",
			fmt.Sprintf("Maximum stay is %d nights", *prop.MaxStayNights), internal_utils.ErrStayOutOfBounds)
	}
	return nil
}

// checkCapacity rejects more guests than the held units sleep. Units with
// no declared capacity impose no limit.
func checkCapacity(units []*models.Unit, guests int, field string) error {
	capacity := 0
	for _, u := range units {
		if u.Capacity <= 0 {
			return nil
		}
		capacity += u.Capacity
	}
	if guests > capacity {
		return badRequest(internal_utils.ErrCodeGuestsOverCap, field,
			fmt.Sprintf("At most %d guests can stay in the selected units", capacity), internal_utils.ErrGuestsOverCap)
	}
	return nil
}
