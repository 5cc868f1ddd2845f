package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availableByID(list []dtos.UnitAvailability) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(list))
	for _, u := range list {
		out[u.ID] = u.Available
	}
	return out
}

func TestApartmentAvailabilityReadsLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	require.NoError(t, err)
	// the cached flag is stale on purpose
	_, err = f.catalog.units.SetAvailability(ctx, []uuid.UUID{f.roomB.ID}, false)
	require.NoError(t, err)

	resp, err := f.availability.ApartmentAvailability(ctx, dtos.StayAvailabilityRequest{
		PropertyID:   f.apartment.ID.String(),
		CheckInDate:  "2024-01-11",
		CheckOutDate: "2024-01-12",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Nights)

	rooms := availableByID(resp.Rooms)
	assert.False(t, rooms[f.roomA.ID])
	assert.True(t, rooms[f.roomB.ID])
	assert.Equal(t, map[uuid.UUID]bool{f.fullApartment.ID: true}, availableByID(resp.FullApartments))

	resp, err = f.availability.ApartmentAvailability(ctx, dtos.StayAvailabilityRequest{
		PropertyID:   f.apartment.ID.String(),
		CheckInDate:  "2024-01-13",
		CheckOutDate: "2024-01-15",
	})
	require.NoError(t, err)
	assert.True(t, availableByID(resp.Rooms)[f.roomA.ID], "check-out day is free again")
}

func TestApartmentAvailabilityErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.availability.ApartmentAvailability(ctx, dtos.StayAvailabilityRequest{
		PropertyID: f.resort.ID.String(), CheckInDate: "2024-01-10", CheckOutDate: "2024-01-12",
	})
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	_, err = f.availability.ApartmentAvailability(ctx, dtos.StayAvailabilityRequest{
		PropertyID: f.apartment.ID.String(), CheckInDate: "2024-01-12", CheckOutDate: "2024-01-10",
	})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
}

func TestResortAvailabilityExcludesMaintenance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := dtos.StayAvailabilityRequest{PropertyID: f.resort.ID.String(), CheckInDate: "2024-03-01", CheckOutDate: "2024-03-03"}

	resp, err := f.availability.ResortAvailability(ctx, req)
	require.NoError(t, err)
	assert.True(t, availableByID(resp.Rooms)[f.resortRoom.ID])

	f.resortRoom.Status = models.UnitStatusMaintenance
	resp, err = f.availability.ResortAvailability(ctx, req)
	require.NoError(t, err)
	assert.False(t, availableByID(resp.Rooms)[f.resortRoom.ID])
}

func TestPGAvailabilityTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.leases.CreateLease(ctx, leaseRequest(f, "2024-01-01", nil))
	require.NoError(t, err)

	resp, err := f.availability.PGAvailability(ctx, dtos.PGAvailabilityRequest{PropertyID: f.pg.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, resp.StartDate)
	assert.Nil(t, resp.EndDate)
	assert.Equal(t, 1, resp.AvailableBeds)
	assert.Equal(t, 2, resp.TotalBeds)

	require.Len(t, resp.Floors, 1)
	require.Len(t, resp.Floors[0].Rooms, 1)
	room := resp.Floors[0].Rooms[0]
	assert.Equal(t, "101", room.RoomNumber)
	assert.True(t, room.Available)
	assert.False(t, room.FullyAvailable)
	require.Len(t, room.Beds, 2)
	beds := map[uuid.UUID]dtos.BedAvailability{}
	for _, b := range room.Beds {
		beds[b.ID] = b
	}
	assert.False(t, beds[f.bed1.ID].Available)
	assert.True(t, beds[f.bed1.ID].IsOccupied)
	assert.True(t, beds[f.bed2.ID].Available)

	// a window that closes before the lease starts sees everything free
	resp, err = f.availability.PGAvailability(ctx, dtos.PGAvailabilityRequest{
		PropertyID: f.pg.ID.String(),
		StartDate:  utils.Ptr("2023-12-01"),
		EndDate:    utils.Ptr("2024-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.AvailableBeds)
	assert.True(t, resp.Floors[0].Rooms[0].FullyAvailable)
}

func TestPGAvailabilityRoomHoldCoversBeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreatePGBooking(ctx, dtos.CreatePGBookingRequest{
		PropertyID:   f.pg.ID.String(),
		RoomID:       f.pgRoom.ID.String(),
		Name:         "Kiran",
		Phone:        "9000000000",
		CheckInDate:  "2024-02-01",
		CheckOutDate: utils.Ptr("2024-03-01"),
	})
	require.NoError(t, err)

	resp, err := f.availability.PGAvailability(ctx, dtos.PGAvailabilityRequest{
		PropertyID: f.pg.ID.String(),
		StartDate:  utils.Ptr("2024-02-10"),
		EndDate:    utils.Ptr("2024-02-20"),
	})
	require.NoError(t, err)
	assert.Zero(t, resp.AvailableBeds)
	assert.False(t, resp.Floors[0].Rooms[0].Available)

	f.pgRoom.Status = models.UnitStatusMaintenance
	resp, err = f.availability.PGAvailability(ctx, dtos.PGAvailabilityRequest{
		PropertyID: f.pg.ID.String(),
		StartDate:  utils.Ptr("2024-04-01"),
	})
	require.NoError(t, err)
	assert.Zero(t, resp.AvailableBeds, "beds in a room under maintenance are not offered")
}

func TestApartmentAvailabilityFollowsNestedRooms(t *testing.T) {
	f := newFixture(t)
	f.roomA.ParentID = &f.fullApartment.ID
	ctx := context.Background()
	req := dtos.StayAvailabilityRequest{
		PropertyID:   f.apartment.ID.String(),
		CheckInDate:  "2024-01-11",
		CheckOutDate: "2024-01-12",
	}

	full, err := f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	require.NoError(t, err)

	resp, err := f.availability.ApartmentAvailability(ctx, req)
	require.NoError(t, err)
	rooms := availableByID(resp.Rooms)
	assert.False(t, rooms[f.roomA.ID], "a room inside a booked full apartment is taken")
	assert.True(t, rooms[f.roomB.ID], "a standalone room is unaffected")

	_, err = f.bookings.CancelBooking(ctx, models.InventoryApartment, full.ID.String())
	require.NoError(t, err)
	_, err = f.bookings.CreateApartmentBooking(ctx, roomRequest(f, "2024-01-10", "2024-01-13", f.roomA))
	require.NoError(t, err)

	resp, err = f.availability.ApartmentAvailability(ctx, req)
	require.NoError(t, err)
	assert.False(t, availableByID(resp.FullApartments)[f.fullApartment.ID], "a booked room takes its full apartment")
}
