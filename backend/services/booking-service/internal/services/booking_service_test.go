package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/events"
	internal_utils "github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/utils"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireAppError(t *testing.T, err error, status int, code string) *utils.AppError {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func fullApartmentRequest(f *fixture, in, out string) dtos.CreateApartmentBookingRequest {
	return dtos.CreateApartmentBookingRequest{
		ApartmentID:     f.apartment.ID.String(),
		BookingType:     string(models.BookingTypeFullApartment),
		FullApartmentID: f.fullApartment.ID.String(),
		GuestDetails:    dtos.GuestDetails{Name: "Ravi", Phone: "9876543210", Email: "ravi@example.com"},
		CheckInDate:     in,
		CheckOutDate:    out,
		TotalGuests:     2,
	}
}

func roomRequest(f *fixture, in, out string, rooms ...*models.Unit) dtos.CreateApartmentBookingRequest {
	req := fullApartmentRequest(f, in, out)
	req.BookingType = string(models.BookingTypeRoom)
	req.FullApartmentID = ""
	for _, r := range rooms {
		req.RoomIDs = append(req.RoomIDs, r.ID.String())
	}
	return req
}

func TestCreateApartmentBookingPricesFullApartment(t *testing.T) {
	f := newFixture(t)

	b, err := f.bookings.CreateApartmentBooking(context.Background(), fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)

	assert.Equal(t, 3, b.TotalNights)
	assert.Equal(t, 6000.0, b.TotalPrice)
	assert.Equal(t, models.BookingConfirmed, b.BookingStatus)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	assert.Equal(t, models.FullApartmentSelector{FullApartmentID: f.fullApartment.ID}, b.Selector)
	assert.Equal(t, 1, f.store.bookingCount())
	assert.Equal(t, []events.EventType{events.BookingCreated}, f.pub.types())
}

func TestCreateApartmentBookingSumsRoomRates(t *testing.T) {
	f := newFixture(t)

	b, err := f.bookings.CreateApartmentBooking(context.Background(),
		roomRequest(f, "2024-01-10", "2024-01-12", f.roomA, f.roomB, f.roomA))
	require.NoError(t, err)

	assert.Equal(t, 2, b.TotalNights)
	assert.Equal(t, (1500.0+1000.0)*2, b.TotalPrice)
	assert.ElementsMatch(t, []uuid.UUID{f.roomA.ID, f.roomB.ID}, b.UnitIDs())
}

func TestApartmentBookingOverlapIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	require.NoError(t, err)

	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-12", "2024-01-15", f.roomA))
	appErr := requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeBookingConflict)
	assert.NotEmpty(t, appErr.Message)
	assert.ErrorIs(t, err, repositories.ErrHoldConflict)
	assert.Equal(t, 1, f.store.bookingCount(), "a rejected request must not write to the ledger")
}

func TestApartmentBookingAbutmentIsAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	require.NoError(t, err)
	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-13", "2024-01-16", f.roomA))
	require.NoError(t, err)
	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-07", "2024-01-10", f.roomA))
	require.NoError(t, err)

	assert.Equal(t, 3, f.store.bookingCount())
}

func TestRoomSetConflictsWhenAnyRoomIsHeld(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomB))
	require.NoError(t, err)

	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-11", "2024-01-12", f.roomA, f.roomB))
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeBookingConflict)
}

func TestCreateApartmentBookingValidation(t *testing.T) {
	f := newFixture(t)
	other := f.addProperty(models.InventoryApartment, "Other Towers")
	foreignRoom := f.addUnit(&models.Unit{PropertyID: other.ID, Kind: models.UnitApartmentRoom, Name: "X"})
	inactive := f.addProperty(models.InventoryApartment, "Closed Court")
	inactive.IsActive = false
	f.apartment.MinStayNights = 2

	tests := []struct {
		name     string
		mutate   func(*dtos.CreateApartmentBookingRequest)
		code     string
		field    string
		sentinel error
	}{
		{
			name:   "check-out before check-in",
			mutate: func(r *dtos.CreateApartmentBookingRequest) { r.CheckOutDate = "2024-01-09" },
			code:   utils.ErrCodeValidation, field: "checkOutDate",
		},
		{
			name:   "same day check-out",
			mutate: func(r *dtos.CreateApartmentBookingRequest) { r.CheckOutDate = r.CheckInDate },
			code:   utils.ErrCodeValidation, field: "checkOutDate",
		},
		{
			name:   "garbage date",
			mutate: func(r *dtos.CreateApartmentBookingRequest) { r.CheckInDate = "next tuesday" },
			code:   utils.ErrCodeValidation, field: "checkInDate",
		},
		{
			name:   "full apartment without id",
			mutate: func(r *dtos.CreateApartmentBookingRequest) { r.FullApartmentID = "" },
			code:   utils.ErrCodeValidation, field: "fullApartmentId",
		},
		{
			name: "room booking without rooms",
			mutate: func(r *dtos.CreateApartmentBookingRequest) {
				r.BookingType = string(models.BookingTypeRoom)
			},
			code: utils.ErrCodeValidation, field: "roomIds",
		},
		{
			name: "room from another property",
			mutate: func(r *dtos.CreateApartmentBookingRequest) {
				r.BookingType = string(models.BookingTypeRoom)
				r.RoomIDs = []string{foreignRoom.ID.String()}
			},
			code: utils.ErrCodeValidation, field: "roomIds", sentinel: internal_utils.ErrUnitNotInProperty,
		},
		{
			name: "room id used as full apartment",
			mutate: func(r *dtos.CreateApartmentBookingRequest) {
				r.FullApartmentID = f.roomA.ID.String()
			},
			code: utils.ErrCodeValidation, field: "fullApartmentId", sentinel: internal_utils.ErrWrongUnitKind,
		},
		{
			name:   "inactive property",
			mutate: func(r *dtos.CreateApartmentBookingRequest) { r.ApartmentID = inactive.ID.String() },
			code:   internal_utils.ErrCodePropertyInactive, field: "propertyId", sentinel: internal_utils.ErrPropertyInactive,
		},
		{
			name:   "too many guests",
			mutate: func(r *dtos.CreateApartmentBookingRequest) { r.TotalGuests = 5 },
			code:   internal_utils.ErrCodeGuestsOverCap, field: "totalGuests", sentinel: internal_utils.ErrGuestsOverCap,
		},
		{
			name:   "below minimum stay",
			mutate: func(r *dtos.CreateApartmentBookingRequest) { r.CheckOutDate = "2024-01-11" },
			code:   internal_utils.ErrCodeStayOutOfBounds, field: "checkOutDate", sentinel: internal_utils.ErrStayOutOfBounds,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := fullApartmentRequest(f, "2024-01-10", "2024-01-13")
			tc.mutate(&req)

			_, err := f.bookings.CreateApartmentBooking(context.Background(), req)
			appErr := requireAppError(t, err, http.StatusBadRequest, tc.code)
			assert.Equal(t, tc.field, appErr.Field)
			if tc.sentinel != nil {
				assert.ErrorIs(t, err, tc.sentinel)
			}
		})
	}
	assert.Zero(t, f.store.bookingCount())
}

func TestUnknownApartmentIsNotFound(t *testing.T) {
	f := newFixture(t)
	req := fullApartmentRequest(f, "2024-01-10", "2024-01-13")
	req.ApartmentID = f.resort.ID.String()

	_, err := f.bookings.CreateApartmentBooking(context.Background(), req)
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestCancelFullApartmentRestoresAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)
	_, err = f.catalog.units.SetAvailability(ctx, []uuid.UUID{f.fullApartment.ID}, false)
	require.NoError(t, err)

	cancelled, err := f.bookings.CancelBooking(ctx, models.InventoryApartment, b.ID.String())
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelled, cancelled.BookingStatus)
	assert.Equal(t, models.PaymentCancelled, cancelled.PaymentStatus)
	assert.True(t, f.store.unit(f.fullApartment.ID).IsAvailable)

	stored, err := f.bookings.GetBooking(ctx, models.InventoryApartment, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.BookingStatus)
	assert.Equal(t, []events.EventType{events.BookingCreated, events.BookingCancelled}, f.pub.types())
}

func TestCancelRoomSetRestoresEveryRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA, f.roomB))
	require.NoError(t, err)
	_, err = f.catalog.units.SetAvailability(ctx, []uuid.UUID{f.roomA.ID, f.roomB.ID}, false)
	require.NoError(t, err)

	_, err = f.bookings.CancelBooking(ctx, models.InventoryApartment, b.ID.String())
	require.NoError(t, err)

	assert.True(t, f.store.unit(f.roomA.ID).IsAvailable)
	assert.True(t, f.store.unit(f.roomB.ID).IsAvailable)
}

func TestCancelledBookingNoLongerBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	require.NoError(t, err)
	_, err = f.bookings.CancelBooking(ctx, models.InventoryApartment, b.ID.String())
	require.NoError(t, err)

	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	require.NoError(t, err)
}

func TestCancelCompletedBookingIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)
	_, err = f.bookings.UpdateStatus(ctx, models.InventoryApartment, b.ID.String(),
		dtos.UpdateBookingStatusRequest{Status: string(models.BookingCompleted)})
	require.NoError(t, err)

	_, err = f.bookings.CancelBooking(ctx, models.InventoryApartment, b.ID.String())
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeInvalidTransition)
}

func TestConcurrentReservesOnSameUnitOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	const attempts = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.bookings.CreateApartmentBooking(context.Background(),
				fullApartmentRequest(f, "2024-02-01", "2024-02-04"))
			mu.Lock()
			defer mu.Unlock()
			var appErr *utils.AppError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &appErr) && appErr.Code == utils.ErrCodeBookingConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, f.store.bookingCount())
}

func TestResortBookingLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateResortBooking(ctx, dtos.CreateResortBookingRequest{
		PropertyID:   f.resort.ID.String(),
		RoomID:       f.resortRoom.ID.String(),
		FullName:     "Meera",
		Phone:        "+919812345678",
		CheckInDate:  "2024-03-01",
		CheckOutDate: "2024-03-04",
		Guests:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.BookingStatus)
	assert.Equal(t, 4500.0, b.TotalPrice, "an omitted total falls back to the nightly rate")
	assert.Equal(t, 3, b.TotalNights)

	_, err = f.bookings.UpdateStatus(ctx, models.InventoryResort, b.ID.String(),
		dtos.UpdateBookingStatusRequest{Status: string(models.BookingCheckedOut)})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeInvalidTransition)

	for _, st := range []models.BookingStatus{models.BookingConfirmed, models.BookingCheckedIn} {
		_, err = f.bookings.UpdateStatus(ctx, models.InventoryResort, b.ID.String(),
			dtos.UpdateBookingStatusRequest{BookingStatus: string(st), PaymentStatus: string(models.PaymentPaid)})
		require.NoError(t, err)
	}

	// a checked-in guest still occupies the room
	conflict, _, err := f.bookings.overlap.HasConflict(ctx, models.SingleUnitSelector{UnitID: f.resortRoom.ID}, b.Stay())
	require.NoError(t, err)
	assert.True(t, conflict)

	cancelled, err := f.bookings.CancelBooking(ctx, models.InventoryResort, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, cancelled.PaymentStatus)

	assert.Equal(t, []events.EventType{
		events.BookingCreated,
		events.BookingStatusChanged,
		events.BookingStatusChanged,
		events.BookingCancelled,
	}, f.pub.types())
}

func TestResortBookingKeepsSuppliedTotal(t *testing.T) {
	f := newFixture(t)

	b, err := f.bookings.CreateResortBooking(context.Background(), dtos.CreateResortBookingRequest{
		PropertyID:   f.resort.ID.String(),
		RoomID:       f.resortRoom.ID.String(),
		FullName:     "Meera",
		Phone:        "+919812345678",
		CheckInDate:  "2024-03-01",
		CheckOutDate: "2024-03-04",
		TotalAmount:  utils.Ptr(12000.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 12000.0, b.TotalPrice)
}

func TestUpdateStatusValidatesEnums(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		req   dtos.UpdateBookingStatusRequest
		field string
	}{
		{"empty", dtos.UpdateBookingStatusRequest{}, "status"},
		{"resort-only status", dtos.UpdateBookingStatusRequest{Status: string(models.BookingCheckedIn)}, "status"},
		{"unknown payment", dtos.UpdateBookingStatusRequest{PaymentStatus: string(models.PaymentRefunded)}, "paymentStatus"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.bookings.UpdateStatus(ctx, models.InventoryApartment, b.ID.String(), tc.req)
			appErr := requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
			assert.Equal(t, tc.field, appErr.Field)
		})
	}
}

func TestAdminStatusCancelRestoresAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	require.NoError(t, err)
	_, err = f.catalog.units.SetAvailability(ctx, []uuid.UUID{f.roomA.ID}, false)
	require.NoError(t, err)

	updated, err := f.bookings.UpdateStatus(ctx, models.InventoryApartment, b.ID.String(),
		dtos.UpdateBookingStatusRequest{Status: string(models.BookingCancelled)})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCancelled, updated.PaymentStatus)
	assert.True(t, f.store.unit(f.roomA.ID).IsAvailable)
}

func TestBookingKindMustMatchRoute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)

	_, err = f.bookings.GetBooking(ctx, models.InventoryResort, b.ID.String())
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
	_, err = f.bookings.CancelBooking(ctx, models.InventoryPG, b.ID.String())
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestDeleteBookingReleasesUnits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)
	_, err = f.catalog.units.SetAvailability(ctx, []uuid.UUID{f.fullApartment.ID}, false)
	require.NoError(t, err)

	_, err = f.bookings.DeleteBooking(ctx, models.InventoryApartment, b.ID.String())
	require.NoError(t, err)
	assert.Zero(t, f.store.bookingCount())
	assert.True(t, f.store.unit(f.fullApartment.ID).IsAvailable)

	_, err = f.bookings.DeleteBooking(ctx, models.InventoryApartment, b.ID.String())
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	_, err = f.bookings.DeleteBooking(ctx, models.InventoryApartment, "")
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
}

func TestPGBookingOnRoomConflictsWithLeasedBed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.leases.CreateLease(ctx, dtos.CreateLeaseRequest{
		TenantID:   f.tenant.ID.String(),
		BedID:      f.bed1.ID.String(),
		StartDate:  "2024-01-01",
		RentAmount: 4500,
	})
	require.NoError(t, err)

	_, err = f.bookings.CreatePGBooking(ctx, dtos.CreatePGBookingRequest{
		PropertyID:  f.pg.ID.String(),
		RoomID:      f.pgRoom.ID.String(),
		Name:        "Kiran",
		Phone:       "9000000000",
		CheckInDate: "2024-06-01",
		TotalRent:   9000,
	})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeBookingConflict)

	b, err := f.bookings.CreatePGBooking(ctx, dtos.CreatePGBookingRequest{
		PropertyID:    f.pg.ID.String(),
		RoomID:        f.pgRoom.ID.String(),
		BedID:         f.bed2.ID.String(),
		Name:          "Kiran",
		Phone:         "9000000000",
		CheckInDate:   "2024-06-01",
		CheckOutDate:  utils.Ptr("2024-07-01"),
		TotalRent:     4500,
		AdvanceAmount: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SingleUnitSelector{UnitID: f.bed2.ID}, b.Selector)
	assert.Equal(t, 30, b.TotalNights)
	assert.Equal(t, 1000.0, b.AdvanceAmount)
}

func TestPGBookingRejectsBedFromOtherRoom(t *testing.T) {
	f := newFixture(t)
	otherRoom := f.addUnit(&models.Unit{PropertyID: f.pg.ID, Kind: models.UnitPGRoom, Name: "102", FloorID: &f.floor.ID})

	_, err := f.bookings.CreatePGBooking(context.Background(), dtos.CreatePGBookingRequest{
		PropertyID:  f.pg.ID.String(),
		RoomID:      otherRoom.ID.String(),
		BedID:       f.bed1.ID.String(),
		Name:        "Kiran",
		Phone:       "9000000000",
		CheckInDate: "2024-06-01",
	})
	appErr := requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
	assert.Equal(t, "bedId", appErr.Field)
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("bus down")

	b, err := f.bookings.CreateApartmentBooking(context.Background(), fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, 1, f.store.bookingCount())
}

func TestListBookingsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)

	list, err := f.bookings.ListBookings(ctx, models.InventoryApartment, dtos.ListBookingsQuery{Status: "Confirmed"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.bookings.ListBookings(ctx, models.InventoryResort, dtos.ListBookingsQuery{})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = f.bookings.ListBookings(ctx, models.InventoryApartment, dtos.ListBookingsQuery{Status: "Whatever"})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
}

// nestRooms places both apartment rooms inside the full apartment.
func nestRooms(f *fixture) {
	f.roomA.ParentID = &f.fullApartment.ID
	f.roomB.ParentID = &f.fullApartment.ID
}

func TestNestedRoomConflictsWithBookedFullApartment(t *testing.T) {
	f := newFixture(t)
	nestRooms(f)
	ctx := context.Background()

	_, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)

	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeBookingConflict)
	assert.Equal(t, 1, f.store.bookingCount())

	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-13", "2024-01-15", f.roomA))
	require.NoError(t, err, "the room is free once the full apartment checks out")
}

func TestFullApartmentConflictsWithBookedNestedRoom(t *testing.T) {
	f := newFixture(t)
	nestRooms(f)
	ctx := context.Background()

	_, err := f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomB))
	require.NoError(t, err)

	_, err = f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-12", "2024-01-14"))
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeBookingConflict)

	// sibling rooms stay independent
	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	require.NoError(t, err)
}

func TestReserveTransactionGuardsLinkedUnits(t *testing.T) {
	f := newFixture(t)
	nestRooms(f)
	ctx := context.Background()

	_, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)

	// Straight to the ledger, as a request whose pre-flight ran before the
	// full apartment was booked would arrive.
	in := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	b := &models.Booking{
		ID:            uuid.New(),
		Kind:          models.InventoryApartment,
		PropertyID:    f.apartment.ID,
		Selector:      models.NewRoomSetSelector([]uuid.UUID{f.roomA.ID}),
		CheckIn:       in,
		CheckOut:      utils.Ptr(in.AddDate(0, 0, 1)),
		BookingStatus: models.BookingConfirmed,
	}
	linked, err := LinkedUnits(ctx, f.catalog.units, []*models.Unit{f.roomA})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.fullApartment.ID}, linked)

	err = fakeBookings{s: f.store}.Reserve(ctx, b, linked)
	assert.ErrorIs(t, err, repositories.ErrHoldConflict)
	assert.Equal(t, 1, f.store.bookingCount())
}

func TestCancelTwicePublishesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)
	_, err = f.bookings.CancelBooking(ctx, models.InventoryApartment, b.ID.String())
	require.NoError(t, err)

	_, err = f.catalog.units.SetAvailability(ctx, []uuid.UUID{f.fullApartment.ID}, false)
	require.NoError(t, err)

	again, err := f.bookings.CancelBooking(ctx, models.InventoryApartment, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, again.BookingStatus)
	assert.Equal(t, []events.EventType{events.BookingCreated, events.BookingCancelled}, f.pub.types())
	assert.False(t, f.store.unit(f.fullApartment.ID).IsAvailable, "a repeated cancel leaves unit flags alone")
}

func TestConcurrentWholeRoomBookingAndBedLeaseOnlyOneWins(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		ctx := context.Background()

		var (
			wg       sync.WaitGroup
			roomErr  error
			leaseErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, roomErr = f.bookings.CreatePGBooking(ctx, dtos.CreatePGBookingRequest{
				PropertyID:  f.pg.ID.String(),
				RoomID:      f.pgRoom.ID.String(),
				Name:        "Kiran",
				Phone:       "9000000000",
				CheckInDate: "2024-02-01",
				TotalRent:   9000,
			})
		}()
		go func() {
			defer wg.Done()
			_, leaseErr = f.leases.CreateLease(ctx, dtos.CreateLeaseRequest{
				TenantID:   f.tenant.ID.String(),
				BedID:      f.bed1.ID.String(),
				StartDate:  "2024-02-01",
				RentAmount: 4500,
			})
		}()
		wg.Wait()

		require.True(t, (roomErr == nil) != (leaseErr == nil), "room err=%v lease err=%v", roomErr, leaseErr)
		for _, err := range []error{roomErr, leaseErr} {
			if err != nil {
				requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeBookingConflict)
			}
		}
	}
}
