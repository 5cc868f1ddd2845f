// backend/shared/go-testhelpers/data.go

package testhelpers

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// UniquePhone generates a unique Indian mobile number for testing.
func UniquePhone() string {
	return fmt.Sprintf("+919%09d", rand.New(rand.NewSource(time.Now().UnixNano())).Int31n(1e9))
}

// UniqueEmail generates a unique email for testing.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@transhastays.test", prefix, time.Now().UnixNano())
}

func (h *TestHelper) createProperty(ctx context.Context, kind models.InventoryKind, name string) *models.Property {
	name = fmt.Sprintf("%s %s", name, uuid.NewString()[:8])
	p := &models.Property{
		ID:            uuid.New(),
		Kind:          kind,
		Name:          name,
		Slug:          utils.Slugify(name),
		Location:      models.Location{Address: "1 Test Road", City: "Kochi"},
		Amenities:     []string{},
		Rules:         []string{},
		CheckInTime:   "14:00",
		CheckOutTime:  "11:00",
		MinStayNights: 1,
		IsActive:      true,
	}
	require.NoError(h.T, h.PropertyRepo.Create(ctx, p), "Failed to create test %s property", kind)
	return p
}

func testUnit(p *models.Property, kind models.UnitKind, name string) *models.Unit {
	return &models.Unit{
		ID:          uuid.New(),
		PropertyID:  p.ID,
		Kind:        kind,
		Name:        name,
		Amenities:   []string{},
		IsAvailable: true,
		Status:      models.UnitStatusAvailable,
	}
}

// TestApartment is a full apartment with two rooms inside it.
type TestApartment struct {
	Property *models.Property
	Full     *models.Unit
	Rooms    []*models.Unit
}

// CreateTestApartment persists an apartment property priced at 2000 per night
// for the whole apartment and 800 and 1200 for its rooms.
func (h *TestHelper) CreateTestApartment(ctx context.Context) TestApartment {
	p := h.createProperty(ctx, models.InventoryApartment, "Test Apartment")

	full := testUnit(p, models.UnitFullApartment, "Full 2BHK")
	full.Capacity = 4
	full.TotalRooms = 2
	full.PricePerNight = 2000

	units := []*models.Unit{full}
	for i, price := range []float64{800, 1200} {
		room := testUnit(p, models.UnitApartmentRoom, fmt.Sprintf("Room %d", i+1))
		room.ParentID = utils.Ptr(full.ID)
		room.Capacity = 2
		room.PricePerNight = price
		units = append(units, room)
	}
	require.NoError(h.T, h.UnitRepo.CreateMany(ctx, units), "Failed to create test apartment units")
	return TestApartment{Property: p, Full: full, Rooms: units[1:]}
}

// CreateTestResort persists a resort with one room at 5000 per night.
func (h *TestHelper) CreateTestResort(ctx context.Context) (*models.Property, *models.Unit) {
	p := h.createProperty(ctx, models.InventoryResort, "Test Resort")

	room := testUnit(p, models.UnitResortRoom, "Cottage")
	room.RoomType = "Cottage"
	room.Capacity = 3
	room.PricePerNight = 5000
	require.NoError(h.T, h.UnitRepo.Create(ctx, room), "Failed to create test resort room")
	return p, room
}

// TestPG is a PG property with one floor and a double-sharing room.
type TestPG struct {
	Property *models.Property
	Floor    *models.Floor
	Room     *models.Unit
	Beds     []*models.Unit
}

// CreateTestPG persists a PG whose room rents at 6000 per month per bed.
func (h *TestHelper) CreateTestPG(ctx context.Context) TestPG {
	p := h.createProperty(ctx, models.InventoryPG, "Test PG")

	floor := &models.Floor{ID: uuid.New(), PropertyID: p.ID, Number: 1, Name: "First"}
	require.NoError(h.T, h.FloorRepo.Create(ctx, floor), "Failed to create test floor")

	room := testUnit(p, models.UnitPGRoom, "101")
	room.FloorID = utils.Ptr(floor.ID)
	room.Number = "101"
	room.SharingType = "Double"
	room.Capacity = 2
	room.PricePerMonth = 6000
	room.DepositAmount = 12000

	units := []*models.Unit{room}
	for _, n := range []string{"A", "B"} {
		bed := testUnit(p, models.UnitPGBed, "Bed "+n)
		bed.ParentID = utils.Ptr(room.ID)
		bed.Number = n
		bed.Capacity = 1
		bed.PricePerMonth = room.PricePerMonth
		bed.DepositAmount = room.DepositAmount
		units = append(units, bed)
	}
	require.NoError(h.T, h.UnitRepo.CreateMany(ctx, units), "Failed to create test PG units")
	return TestPG{Property: p, Floor: floor, Room: room, Beds: units[1:]}
}

// CreateTestTenant persists a tenant with a unique phone number.
func (h *TestHelper) CreateTestTenant(ctx context.Context) *models.Tenant {
	t := &models.Tenant{
		ID:    uuid.New(),
		Name:  "Test Tenant",
		Phone: UniquePhone(),
		Email: UniqueEmail("tenant"),
	}
	require.NoError(h.T, h.TenantRepo.Create(ctx, t), "Failed to create test tenant")
	return t
}
