package seeding

import (
	"context"
	"fmt"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
)

const DemoPGID = "44444444-4444-4444-4444-444444444444"

// SeedDemoPG creates a PG with one floor holding a double-sharing room.
// The beds inherit the room's monthly rent and deposit.
func SeedDemoPG(ctx context.Context, c Catalog) error {
	p := &models.Property{
		ID:   uuid.MustParse(DemoPGID),
		Kind: models.InventoryPG,
		Name: "Kakkanad Co-Living",
		Location: models.Location{
			Address: "Infopark Phase 1",
			City:    "Kochi",
			State:   "Kerala",
			Country: "India",
		},
		GenderType: "Co-Living",
		Amenities:  []string{"WiFi", "Laundry", "Meals"},
	}
	created, err := createProperty(ctx, c, p)
	if err != nil || !created {
		return err
	}

	floor := &models.Floor{ID: uuid.New(), PropertyID: p.ID, Number: 1, Name: "First Floor"}
	if err := c.Floors.Create(ctx, floor); err != nil {
		return fmt.Errorf("create demo floor: %w", err)
	}

	room := newUnit(p.ID, models.UnitPGRoom, "101")
	room.FloorID = utils.Ptr(floor.ID)
	room.Number = "101"
	room.SharingType = "Double"
	room.Capacity = 2
	room.PricePerMonth = 7500
	room.DepositAmount = 15000

	units := []*models.Unit{room}
	for _, n := range []string{"A", "B"} {
		bed := newUnit(p.ID, models.UnitPGBed, "Bed "+n)
		bed.ParentID = utils.Ptr(room.ID)
		bed.Number = n
		bed.Capacity = 1
		bed.PricePerMonth = room.PricePerMonth
		bed.DepositAmount = room.DepositAmount
		units = append(units, bed)
	}
	if err := c.Units.CreateMany(ctx, units); err != nil {
		return fmt.Errorf("create demo PG room: %w", err)
	}
	return nil
}
