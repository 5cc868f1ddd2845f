package seeding

import (
	"context"
	"errors"
	"fmt"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
)

// Catalog bundles the repositories the demo seeders write to.
type Catalog struct {
	Properties repositories.PropertyRepository
	Units      repositories.UnitRepository
	Floors     repositories.FloorRepository
}

// SeedDemoCatalog creates one property of each kind. Properties that already
// exist are left untouched, so it is safe to run on every start.
func SeedDemoCatalog(ctx context.Context, c Catalog) error {
	if err := SeedDemoApartment(ctx, c); err != nil {
		return err
	}
	if err := SeedDemoResort(ctx, c); err != nil {
		return err
	}
	return SeedDemoPG(ctx, c)
}

// createProperty reports false when the property is already present.
func createProperty(ctx context.Context, c Catalog, p *models.Property) (bool, error) {
	if existing, err := c.Properties.GetByID(ctx, p.ID); err != nil {
		return false, fmt.Errorf("check existing property %s: %w", p.ID, err)
	} else if existing != nil {
		utils.Logger.Infof("seeding: %s already present; skipping", p.Slug)
		return false, nil
	}

	p.Slug = utils.Slugify(p.Name)
	p.IsActive = true
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Rules == nil {
		p.Rules = []string{}
	}
	if err := c.Properties.Create(ctx, p); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			utils.Logger.Infof("seeding: property %s already exists; skipping", p.Slug)
			return false, nil
		}
		return false, fmt.Errorf("create property %s: %w", p.Slug, err)
	}
	utils.Logger.Infof("seeding: created %s property id=%s", p.Kind, p.ID)
	return true, nil
}

func newUnit(propertyID uuid.UUID, kind models.UnitKind, name string) *models.Unit {
	return &models.Unit{
		ID:          uuid.New(),
		PropertyID:  propertyID,
		Kind:        kind,
		Name:        name,
		Amenities:   []string{},
		IsAvailable: true,
		Status:      models.UnitStatusAvailable,
	}
}
