package services

import (
	"context"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/google/uuid"
)

// OverlapDetector is the pre-flight conflict check. The reserve
// transaction repeats it under lock, so a clear answer here is advisory.
type OverlapDetector struct {
	holds repositories.HoldRepository
}

func NewOverlapDetector(holds repositories.HoldRepository) *OverlapDetector {
	return &OverlapDetector{holds: holds}
}

// HasConflict reports whether any unit the selector holds, or any of the
// linked units, already has a blocking hold overlapping rng.
func (d *OverlapDetector) HasConflict(
	ctx context.Context,
	sel models.UnitSelector,
	rng models.DateRange,
	linked ...uuid.UUID,
) (bool, []models.UnitHold, error) {
	ids := append(sel.UnitIDs(), linked...)
	holds, err := d.holds.FindBlocking(ctx, ids, rng)
	if err != nil {
		return false, nil, err
	}
	return len(holds) > 0, holds, nil
}

// BlockedUnits returns the subset of unitIDs that are held over rng.
func (d *OverlapDetector) BlockedUnits(
	ctx context.Context,
	unitIDs []uuid.UUID,
	rng models.DateRange,
) (map[uuid.UUID]bool, error) {
	holds, err := d.holds.FindBlocking(ctx, unitIDs, rng)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(holds))
	for _, h := range holds {
		out[h.UnitID] = true
	}
	return out, nil
}

// LinkedUnits lists the units that share space with held without being held
// themselves: each unit's parent and its children. A full apartment is
// linked to its rooms, a PG room to its beds, and the reverse. A blocking
// hold on a linked unit conflicts with holding the unit.
func LinkedUnits(ctx context.Context, units repositories.UnitRepository, held []*models.Unit) ([]uuid.UUID, error) {
	skip := make(map[uuid.UUID]bool, len(held))
	for _, u := range held {
		skip[u.ID] = true
	}
	var out []uuid.UUID
	add := func(id uuid.UUID) {
		if !skip[id] {
			skip[id] = true
			out = append(out, id)
		}
	}
	for _, u := range held {
		if u.ParentID != nil {
			add(*u.ParentID)
		}
		if u.Kind != models.UnitFullApartment && u.Kind != models.UnitPGRoom {
			continue
		}
		children, err := units.ListByParentID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			add(c.ID)
		}
	}
	return out, nil
}
