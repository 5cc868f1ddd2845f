package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	internal_utils "github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/utils"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propertyRequest(name string) dtos.PropertyRequest {
	return dtos.PropertyRequest{
		Name:     name,
		Location: dtos.LocationRequest{Address: "12 Beach Road", City: "Kochi"},
	}
}

func TestCreatePropertyDerivesSlugAndDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.catalog.CreateProperty(ctx, models.InventoryResort, propertyRequest("Backwater Bliss Resort"))
	require.NoError(t, err)
	assert.Equal(t, "backwater-bliss-resort", p.Slug)
	assert.True(t, p.IsActive)
	assert.Equal(t, models.DefaultCheckInTime, p.CheckInTime)
	assert.Equal(t, models.DefaultCheckOutTime, p.CheckOutTime)
	assert.NotNil(t, p.Amenities)

	bySlug, err := f.catalog.GetProperty(ctx, models.InventoryResort, "backwater-bliss-resort")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)

	_, err = f.catalog.GetProperty(ctx, models.InventoryPG, p.ID.String())
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	_, err = f.catalog.CreateProperty(ctx, models.InventoryResort, propertyRequest("Backwater  Bliss resort!"))
	appErr := requireAppError(t, err, http.StatusConflict, utils.ErrCodeConflict)
	assert.Equal(t, "slug", appErr.Field)
}

func TestPropertyRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := propertyRequest("Lake Stay")
	req.GenderType = "Female"
	_, err := f.catalog.CreateProperty(ctx, models.InventoryResort, req)
	appErr := requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
	assert.Equal(t, "genderType", appErr.Field)

	req = propertyRequest("Lake Stay")
	req.MinStayNights = 3
	req.MaxStayNights = utils.Ptr(2)
	_, err = f.catalog.CreateProperty(ctx, models.InventoryApartment, req)
	appErr = requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
	assert.Equal(t, "maxStayNights", appErr.Field)

	_, err = f.catalog.CreateProperty(ctx, models.InventoryApartment, propertyRequest("!!!"))
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
}

func TestUpdateAndToggleProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := propertyRequest("Sea View Residences")
	req.Description = "Refurbished in 2023"
	req.MinStayNights = 2
	updated, err := f.catalog.UpdateProperty(ctx, models.InventoryApartment, f.apartment.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, "Refurbished in 2023", updated.Description)
	assert.Equal(t, 2, updated.MinStayNights)

	req = propertyRequest("Palm Grove Resort")
	_, err = f.catalog.UpdateProperty(ctx, models.InventoryApartment, f.apartment.ID.String(), req)
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeConflict)

	_, err = f.catalog.UpdateProperty(ctx, models.InventoryResort, f.apartment.ID.String(), req)
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	toggled, err := f.catalog.ToggleProperty(ctx, models.InventoryApartment, f.apartment.ID.String())
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	// an inactive property stops taking bookings
	_, err = f.bookings.CreateApartmentBooking(ctx, fullApartmentRequest(f, "2024-01-10", "2024-01-13"))
	requireAppError(t, err, http.StatusBadRequest, internal_utils.ErrCodePropertyInactive)
}

func TestCreatePGRoomWithBeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.catalog.CreateUnit(ctx, f.pg.ID.String(), dtos.UnitRequest{
		Kind:          string(models.UnitPGRoom),
		FloorID:       f.floor.ID.String(),
		Name:          "102",
		Number:        "102",
		SharingType:   "Triple",
		PricePerMonth: 6000,
		DepositAmount: 8000,
		Beds: []dtos.BedRequest{
			{Name: "A"},
			{Name: "B", PricePerMonth: utils.Ptr(6500.0)},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	room := created[0]
	assert.Equal(t, models.UnitStatusAvailable, room.Status)
	for _, bed := range created[1:] {
		assert.Equal(t, models.UnitPGBed, bed.Kind)
		require.NotNil(t, bed.ParentID)
		assert.Equal(t, room.ID, *bed.ParentID)
		assert.Equal(t, 8000.0, bed.DepositAmount)
	}
	assert.Equal(t, 6000.0, created[1].PricePerMonth)
	assert.Equal(t, 6500.0, created[2].PricePerMonth)

	units, err := f.catalog.ListUnits(ctx, f.pg.ID.String(), string(models.UnitPGBed))
	require.NoError(t, err)
	assert.Len(t, units, 4)
}

func TestCreateUnitPlacementRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	otherPG := f.addProperty(models.InventoryPG, "Blue Nest PG")

	tests := []struct {
		name     string
		propID   string
		req      dtos.UnitRequest
		field    string
		sentinel error
	}{
		{
			name:   "kind of another product line",
			propID: f.apartment.ID.String(),
			req:    dtos.UnitRequest{Kind: string(models.UnitResortRoom), Name: "R1"},
			field:  "kind", sentinel: internal_utils.ErrWrongPropertyKind,
		},
		{
			name:   "PG room without floor",
			propID: f.pg.ID.String(),
			req:    dtos.UnitRequest{Kind: string(models.UnitPGRoom), Name: "103"},
			field:  "floorId",
		},
		{
			name:   "floor of another property",
			propID: otherPG.ID.String(),
			req:    dtos.UnitRequest{Kind: string(models.UnitPGRoom), Name: "103", FloorID: f.floor.ID.String()},
			field:  "floorId", sentinel: internal_utils.ErrUnitNotInProperty,
		},
		{
			name:   "bed without room",
			propID: f.pg.ID.String(),
			req:    dtos.UnitRequest{Kind: string(models.UnitPGBed), Name: "C"},
			field:  "parentId",
		},
		{
			name:   "bed under a bed",
			propID: f.pg.ID.String(),
			req:    dtos.UnitRequest{Kind: string(models.UnitPGBed), Name: "C", ParentID: f.bed1.ID.String()},
			field:  "parentId", sentinel: internal_utils.ErrWrongUnitKind,
		},
		{
			name:   "beds on a resort room",
			propID: f.resort.ID.String(),
			req:    dtos.UnitRequest{Kind: string(models.UnitResortRoom), Name: "R2", Beds: []dtos.BedRequest{{Name: "A"}}},
			field:  "beds",
		},
		{
			name:   "resort room with a parent",
			propID: f.resort.ID.String(),
			req:    dtos.UnitRequest{Kind: string(models.UnitResortRoom), Name: "R2", ParentID: f.resortRoom.ID.String()},
			field:  "parentId",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.catalog.CreateUnit(ctx, tc.propID, tc.req)
			appErr := requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
			assert.Equal(t, tc.field, appErr.Field)
			if tc.sentinel != nil {
				assert.ErrorIs(t, err, tc.sentinel)
			}
		})
	}
}

func TestUnitKindIsImmutable(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.UpdateUnit(context.Background(), f.roomA.ID.String(), dtos.UnitRequest{
		Kind: string(models.UnitFullApartment),
		Name: "Room A",
	})
	appErr := requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
	assert.Equal(t, "kind", appErr.Field)
}

func TestToggleUnitSyncsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.catalog.ToggleUnit(ctx, f.resortRoom.ID.String(), dtos.ToggleRequest{})
	require.NoError(t, err)
	assert.False(t, u.IsAvailable)
	assert.Equal(t, models.UnitStatusBooked, u.Status)

	u, err = f.catalog.ToggleUnit(ctx, f.pgRoom.ID.String(), dtos.ToggleRequest{IsAvailable: utils.Ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, models.UnitStatusOccupied, u.Status)

	u, err = f.catalog.ToggleUnit(ctx, f.resortRoom.ID.String(), dtos.ToggleRequest{IsAvailable: utils.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, u.IsAvailable)
	assert.Equal(t, models.UnitStatusAvailable, u.Status)
}

func TestSetApartmentAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.catalog.SetApartmentAvailability(ctx, f.apartment.ID.String(), dtos.ApartmentAvailabilityRequest{
		Type: "room", SubID: f.roomB.ID.String(), IsAvailable: utils.Ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, u.IsAvailable)

	_, err = f.catalog.SetApartmentAvailability(ctx, f.apartment.ID.String(), dtos.ApartmentAvailabilityRequest{
		Type: "apartment", SubID: f.roomB.ID.String(), IsAvailable: utils.Ptr(true),
	})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
	assert.ErrorIs(t, err, internal_utils.ErrWrongUnitKind)
}

func TestFloors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fl, err := f.catalog.CreateFloor(ctx, f.pg.ID.String(), dtos.FloorRequest{FloorNumber: 2, Name: "Second"})
	require.NoError(t, err)
	assert.Equal(t, 2, fl.Number)

	_, err = f.catalog.CreateFloor(ctx, f.pg.ID.String(), dtos.FloorRequest{FloorNumber: 1})
	appErr := requireAppError(t, err, http.StatusConflict, utils.ErrCodeConflict)
	assert.Equal(t, "floorNumber", appErr.Field)

	_, err = f.catalog.CreateFloor(ctx, f.resort.ID.String(), dtos.FloorRequest{FloorNumber: 1})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	floors, err := f.catalog.ListFloors(ctx, f.pg.ID.String())
	require.NoError(t, err)
	require.Len(t, floors, 2)
	assert.Equal(t, 1, floors[0].Number)
}

func TestCreateTenantNormalizesPhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tn, err := f.catalog.CreateTenant(ctx, dtos.TenantRequest{Name: "Divya", Phone: "098470 12345"})
	require.NoError(t, err)
	assert.Equal(t, "+919847012345", tn.Phone)

	got, err := f.catalog.GetTenant(ctx, tn.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Divya", got.Name)

	tn, err = f.catalog.CreateTenant(ctx, dtos.TenantRequest{Name: "Sam", Phone: "ext 12"})
	require.NoError(t, err)
	assert.Equal(t, "ext 12", tn.Phone, "unparseable numbers are stored as given")
}
