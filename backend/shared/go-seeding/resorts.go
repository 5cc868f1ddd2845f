package seeding

import (
	"context"
	"fmt"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/google/uuid"
)

const DemoResortID = "33333333-3333-3333-3333-333333333333"

// SeedDemoResort creates a resort with a cottage and a suite.
func SeedDemoResort(ctx context.Context, c Catalog) error {
	p := &models.Property{
		ID:          uuid.MustParse(DemoResortID),
		Kind:        models.InventoryResort,
		Name:        "Munnar Hills Resort",
		Description: "Tea-estate cottages with valley views.",
		Location: models.Location{
			Address: "Chithirapuram",
			City:    "Munnar",
			State:   "Kerala",
			Country: "India",
		},
		Amenities:     []string{"Pool", "Restaurant", "Spa"},
		Rules:         []string{"No loud music after 10 PM"},
		CheckInTime:   "13:00",
		CheckOutTime:  "11:00",
		MinStayNights: 1,
	}
	created, err := createProperty(ctx, c, p)
	if err != nil || !created {
		return err
	}

	cottage := newUnit(p.ID, models.UnitResortRoom, "Tea Garden Cottage")
	cottage.RoomType = "Cottage"
	cottage.Capacity = 3
	cottage.PricePerNight = 6500
	cottage.ExtraBedPrice = 800

	suite := newUnit(p.ID, models.UnitResortRoom, "Valley Suite")
	suite.RoomType = "Suite"
	suite.Capacity = 2
	suite.PricePerNight = 9000

	if err := c.Units.CreateMany(ctx, []*models.Unit{cottage, suite}); err != nil {
		return fmt.Errorf("create demo resort rooms: %w", err)
	}
	return nil
}
