package services

import (
	"context"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
)

// AvailabilityService answers "what is free for these dates" for every
// inventory kind by reading the hold ledger. The cached IsAvailable flags
// are never consulted.
type AvailabilityService struct {
	properties     repositories.PropertyRepository
	units          repositories.UnitRepository
	floors         repositories.FloorRepository
	overlap        *OverlapDetector
	storageTimeout time.Duration
	now            func() time.Time
}

func NewAvailabilityService(
	cfg *config.Config,
	properties repositories.PropertyRepository,
	units repositories.UnitRepository,
	floors repositories.FloorRepository,
	overlap *OverlapDetector,
) *AvailabilityService {
	return &AvailabilityService{
		properties:     properties,
		units:          units,
		floors:         floors,
		overlap:        overlap,
		storageTimeout: cfg.StorageTimeout,
		now:            time.Now,
	}
}

func (s *AvailabilityService) ApartmentAvailability(
	ctx context.Context,
	req dtos.StayAvailabilityRequest,
) (*dtos.ApartmentAvailabilityResponse, error) {
	propID, stay, err := parseAvailabilityRequest(req)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	units, blocked, err := s.unitsWithHolds(ctx, propID, models.InventoryApartment, "Apartment", stay)
	if err != nil {
		return nil, err
	}

	resp := &dtos.ApartmentAvailabilityResponse{
		PropertyID:     propID,
		CheckInDate:    stay.Start,
		CheckOutDate:   *stay.End,
		Nights:         Nights(stay.Start, *stay.End),
		FullApartments: []dtos.UnitAvailability{},
		Rooms:          []dtos.UnitAvailability{},
	}
	// A booked full apartment takes its rooms, and a booked room takes
	// the full apartment it sits in.
	roomTaken := make(map[uuid.UUID]bool)
	for _, u := range units {
		if u.Kind == models.UnitApartmentRoom && u.ParentID != nil && blocked[u.ID] {
			roomTaken[*u.ParentID] = true
		}
	}
	for _, u := range units {
		switch u.Kind {
		case models.UnitFullApartment:
			free := !blocked[u.ID] && !roomTaken[u.ID]
			resp.FullApartments = append(resp.FullApartments, unitAvailability(u, free))
		case models.UnitApartmentRoom:
			free := !blocked[u.ID] && (u.ParentID == nil || !blocked[*u.ParentID])
			resp.Rooms = append(resp.Rooms, unitAvailability(u, free))
		}
	}
	return resp, nil
}

func (s *AvailabilityService) ResortAvailability(
	ctx context.Context,
	req dtos.StayAvailabilityRequest,
) (*dtos.ResortAvailabilityResponse, error) {
	propID, stay, err := parseAvailabilityRequest(req)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	units, blocked, err := s.unitsWithHolds(ctx, propID, models.InventoryResort, "Resort", stay)
	if err != nil {
		return nil, err
	}

	resp := &dtos.ResortAvailabilityResponse{
		PropertyID:   propID,
		CheckInDate:  stay.Start,
		CheckOutDate: *stay.End,
		Nights:       Nights(stay.Start, *stay.End),
		Rooms:        []dtos.UnitAvailability{},
	}
	for _, u := range units {
		if u.Kind != models.UnitResortRoom {
			continue
		}
		free := !blocked[u.ID] && u.Status != models.UnitStatusMaintenance
		resp.Rooms = append(resp.Rooms, unitAvailability(u, free))
	}
	return resp, nil
}

// PGAvailability builds the floor -> room -> bed tree. A bed is taken when
// it or its room carries a blocking hold over the window.
func (s *AvailabilityService) PGAvailability(
	ctx context.Context,
	req dtos.PGAvailabilityRequest,
) (*dtos.PGAvailabilityResponse, error) {
	propID, err := parseID("propertyId", req.PropertyID)
	if err != nil {
		return nil, err
	}
	start := s.now()
	if req.StartDate != nil {
		if start, err = utils.ParseDate(*req.StartDate); err != nil {
			return nil, utils.NewValidationError("startDate", "startDate is not a valid date")
		}
	}
	end, err := utils.ParseOptionalDate(req.EndDate)
	if err != nil {
		return nil, utils.NewValidationError("endDate", "endDate is not a valid date")
	}
	window, err := models.NewDateRange(start, end)
	if err != nil {
		return nil, utils.NewValidationError("endDate", "endDate must be after startDate")
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	units, blocked, err := s.unitsWithHolds(ctx, propID, models.InventoryPG, "PG property", window)
	if err != nil {
		return nil, err
	}
	floors, err := s.floors.ListByPropertyID(ctx, propID)
	if err != nil {
		return nil, storageErr(err)
	}

	roomsByFloor := make(map[uuid.UUID][]*models.Unit)
	bedsByRoom := make(map[uuid.UUID][]*models.Unit)
	for _, u := range units {
		switch {
		case u.Kind == models.UnitPGRoom && u.FloorID != nil:
			roomsByFloor[*u.FloorID] = append(roomsByFloor[*u.FloorID], u)
		case u.Kind == models.UnitPGBed && u.ParentID != nil:
			bedsByRoom[*u.ParentID] = append(bedsByRoom[*u.ParentID], u)
		}
	}

	resp := &dtos.PGAvailabilityResponse{
		PropertyID: propID,
		StartDate:  window.Start,
		EndDate:    window.End,
		Floors:     make([]dtos.FloorAvailability, 0, len(floors)),
	}
	for _, f := range floors {
		fa := dtos.FloorAvailability{
			ID:          f.ID,
			FloorNumber: f.Number,
			Name:        f.Name,
			Rooms:       []dtos.RoomAvailability{},
		}
		for _, room := range roomsByFloor[f.ID] {
			ra := roomAvailability(room, bedsByRoom[room.ID], blocked)
			resp.AvailableBeds += ra.AvailableBeds
			resp.TotalBeds += ra.TotalBeds
			fa.Rooms = append(fa.Rooms, ra)
		}
		resp.Floors = append(resp.Floors, fa)
	}
	return resp, nil
}

// unitsWithHolds loads the property's units and the subset blocked over rng.
func (s *AvailabilityService) unitsWithHolds(
	ctx context.Context,
	propID uuid.UUID,
	kind models.InventoryKind,
	resource string,
	rng models.DateRange,
) ([]*models.Unit, map[uuid.UUID]bool, error) {
	prop, err := s.properties.GetByID(ctx, propID)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	if prop == nil || prop.Kind != kind {
		return nil, nil, utils.NewNotFoundError(resource)
	}

	units, err := s.units.ListByPropertyID(ctx, propID)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	ids := make([]uuid.UUID, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.ID)
	}
	blocked := map[uuid.UUID]bool{}
	if len(ids) > 0 {
		if blocked, err = s.overlap.BlockedUnits(ctx, ids, rng); err != nil {
			return nil, nil, storageErr(err)
		}
	}
	return units, blocked, nil
}

func parseAvailabilityRequest(req dtos.StayAvailabilityRequest) (uuid.UUID, models.DateRange, error) {
	propID, err := parseID("propertyId", req.PropertyID)
	if err != nil {
		return uuid.Nil, models.DateRange{}, err
	}
	stay, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return uuid.Nil, models.DateRange{}, err
	}
	return propID, stay, nil
}

func unitAvailability(u *models.Unit, available bool) dtos.UnitAvailability {
	return dtos.UnitAvailability{
		ID:            u.ID,
		Name:          u.Name,
		Kind:          string(u.Kind),
		RoomType:      u.RoomType,
		PricePerNight: u.PricePerNight,
		Capacity:      u.Capacity,
		Available:     available,
	}
}

func roomAvailability(room *models.Unit, beds []*models.Unit, blocked map[uuid.UUID]bool) dtos.RoomAvailability {
	roomHeld := blocked[room.ID] || room.Status == models.UnitStatusMaintenance
	ra := dtos.RoomAvailability{
		ID:            room.ID,
		RoomNumber:    orDefault(room.Number, room.Name),
		SharingType:   room.SharingType,
		PricePerMonth: room.PricePerMonth,
		Status:        room.Status,
		TotalBeds:     len(beds),
		Beds:          make([]dtos.BedAvailability, 0, len(beds)),
	}
	for _, b := range beds {
		free := !roomHeld && !blocked[b.ID]
		if free {
			ra.AvailableBeds++
		}
		ra.Beds = append(ra.Beds, dtos.BedAvailability{
			ID:            b.ID,
			Name:          orDefault(b.Number, b.Name),
			PricePerMonth: b.PricePerMonth,
			DepositAmount: b.DepositAmount,
			Available:     free,
			IsOccupied:    b.IsOccupied,
			TenantID:      b.CurrentTenantID,
		})
	}
	ra.FullyAvailable = !roomHeld && ra.AvailableBeds == ra.TotalBeds
	ra.Available = !roomHeld && (ra.TotalBeds == 0 || ra.AvailableBeds > 0)
	return ra
}
