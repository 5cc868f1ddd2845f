package seeding

import (
	"context"
	"fmt"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
)

const DemoApartmentID = "11111111-1111-1111-1111-111111111111"

// SeedDemoApartment creates a mixed apartment property holding one full
// apartment with two bookable rooms inside it.
func SeedDemoApartment(ctx context.Context, c Catalog) error {
	p := &models.Property{
		ID:           uuid.MustParse(DemoApartmentID),
		Kind:         models.InventoryApartment,
		Name:         "Marine Drive Residency",
		Description:  "Serviced apartments facing the backwaters.",
		PropertyType: "Mixed",
		Location: models.Location{
			Address: "Marine Drive",
			City:    "Kochi",
			State:   "Kerala",
			Country: "India",
			Pincode: "682031",
		},
		ContactNumber: "+914842000000",
		Amenities:     []string{"WiFi", "Parking", "Power Backup"},
		CheckInTime:   "14:00",
		CheckOutTime:  "11:00",
		MinStayNights: 1,
		Featured:      true,
	}
	created, err := createProperty(ctx, c, p)
	if err != nil || !created {
		return err
	}

	full := newUnit(p.ID, models.UnitFullApartment, "2BHK Bay View")
	full.Capacity = 4
	full.TotalRooms = 2
	full.PricePerNight = 4500

	units := []*models.Unit{full}
	for i, price := range []float64{1800, 2200} {
		room := newUnit(p.ID, models.UnitApartmentRoom, fmt.Sprintf("Bay View Room %d", i+1))
		room.ParentID = utils.Ptr(full.ID)
		room.RoomType = "Deluxe"
		room.Capacity = 2
		room.PricePerNight = price
		units = append(units, room)
	}
	if err := c.Units.CreateMany(ctx, units); err != nil {
		return fmt.Errorf("create demo apartment units: %w", err)
	}
	return nil
}
