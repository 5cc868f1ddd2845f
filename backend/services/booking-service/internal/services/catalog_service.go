package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	internal_utils "github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/utils"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
)

// CatalogService is admin CRUD over properties, units, floors and tenants.
// Writes here never touch the booking ledger.
type CatalogService struct {
	properties     repositories.PropertyRepository
	units          repositories.UnitRepository
	floors         repositories.FloorRepository
	tenants        repositories.TenantRepository
	storageTimeout time.Duration
}

func NewCatalogService(
	cfg *config.Config,
	properties repositories.PropertyRepository,
	units repositories.UnitRepository,
	floors repositories.FloorRepository,
	tenants repositories.TenantRepository,
) *CatalogService {
	return &CatalogService{
		properties:     properties,
		units:          units,
		floors:         floors,
		tenants:        tenants,
		storageTimeout: cfg.StorageTimeout,
	}
}

var errSlugTaken = &utils.AppError{
	StatusCode: http.StatusConflict,
	Code:       utils.ErrCodeConflict,
	Message:    "A property with this slug already exists",
	Field:      "slug",
	Err:        repositories.ErrSlugTaken,
}

/* ───────────── properties ───────────── */

func (s *CatalogService) CreateProperty(ctx context.Context, kind models.InventoryKind, req dtos.PropertyRequest) (*models.Property, error) {
	p := &models.Property{
		ID:       uuid.New(),
		Kind:     kind,
		IsActive: true,
	}
	if err := applyPropertyRequest(p, req); err != nil {
		return nil, err
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	if err := s.properties.Create(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrSlugTaken) {
			return nil, errSlugTaken
		}
		return nil, storageErr(err)
	}
	return p, nil
}

func (s *CatalogService) ListProperties(ctx context.Context, kind models.InventoryKind, q dtos.ListPropertiesQuery) ([]*models.Property, error) {
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	list, err := s.properties.List(ctx, repositories.PropertyFilter{
		Kind:     kind,
		City:     q.City,
		Active:   q.Active,
		Featured: q.Featured,
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.Property{}
	}
	return list, nil
}

// GetProperty resolves either an id or a slug.
func (s *CatalogService) GetProperty(ctx context.Context, kind models.InventoryKind, idOrSlug string) (*models.Property, error) {
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	var (
		p   *models.Property
		err error
	)
	if id, perr := uuid.Parse(idOrSlug); perr == nil {
		p, err = s.properties.GetByID(ctx, id)
	} else {
		p, err = s.properties.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, storageErr(err)
	}
	if p == nil || p.Kind != kind {
		return nil, utils.NewNotFoundError("Property")
	}
	return p, nil
}

func (s *CatalogService) UpdateProperty(
	ctx context.Context,
	kind models.InventoryKind,
	rawID string,
	req dtos.PropertyRequest,
) (*models.Property, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	err = s.properties.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		if p.Kind != kind {
			return utils.NewNotFoundError("Property")
		}
		return applyPropertyRequest(p, req)
	})
	switch {
	case errors.Is(err, repositories.ErrSlugTaken):
		return nil, errSlugTaken
	case err != nil:
		return nil, notFoundOr(err, "Property")
	}

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if p == nil {
		return nil, utils.NewNotFoundError("Property")
	}
	return p, nil
}

// DeleteProperty cascades to floors, units and reviews. Ledger entries are
// kept for history.
func (s *CatalogService) DeleteProperty(ctx context.Context, kind models.InventoryKind, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if p == nil || p.Kind != kind {
		return utils.NewNotFoundError("Property")
	}
	return notFoundOr(s.properties.Delete(ctx, id), "Property")
}

func (s *CatalogService) ToggleProperty(ctx context.Context, kind models.InventoryKind, rawID string) (*models.Property, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if p == nil || p.Kind != kind {
		return nil, utils.NewNotFoundError("Property")
	}
	updated, err := s.properties.SetActive(ctx, id, !p.IsActive)
	if err != nil {
		return nil, storageErr(err)
	}
	if updated == nil {
		return nil, utils.NewNotFoundError("Property")
	}
	return updated, nil
}

func applyPropertyRequest(p *models.Property, req dtos.PropertyRequest) error {
	slug := req.Slug
	if slug == "" {
		slug = req.Name
	}
	slug = utils.Slugify(slug)
	if slug == "" {
		return utils.NewValidationError("slug", "slug must contain letters or digits")
	}
	if req.PropertyType != "" && p.Kind != models.InventoryApartment {
		return utils.NewValidationError("propertyType", "propertyType only applies to premium apartments")
	}
	if req.GenderType != "" && p.Kind != models.InventoryPG {
		return utils.NewValidationError("genderType", "genderType only applies to PG properties")
	}
	if req.MaxStayNights != nil && *req.MaxStayNights < req.MinStayNights {
		return utils.NewValidationError("maxStayNights", "maxStayNights must not be below minStayNights")
	}

	p.Name = req.Name
	p.Slug = slug
	p.Description = req.Description
	p.PropertyType = req.PropertyType
	p.GenderType = req.GenderType
	p.Location = models.Location{
		Address:   req.Location.Address,
		City:      req.Location.City,
		State:     req.Location.State,
		Country:   req.Location.Country,
		Pincode:   req.Location.Pincode,
		Latitude:  req.Location.Latitude,
		Longitude: req.Location.Longitude,
	}
	p.ContactNumber = req.ContactNumber
	p.Email = req.Email
	p.Amenities = nonNil(req.Amenities)
	p.Rules = nonNil(req.Rules)
	p.CheckInTime = orDefault(req.CheckInTime, models.DefaultCheckInTime)
	p.CheckOutTime = orDefault(req.CheckOutTime, models.DefaultCheckOutTime)
	p.MinStayNights = req.MinStayNights
	p.MaxStayNights = req.MaxStayNights
	p.Featured = req.Featured
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return nil
}

/* ───────────── units ───────────── */

// CreateUnit adds a unit to a property. A PG room may bring its beds, which
// inherit the room's rent and deposit unless they set their own.
func (s *CatalogService) CreateUnit(ctx context.Context, rawPropertyID string, req dtos.UnitRequest) ([]*models.Unit, error) {
	propID, err := parseID("propertyId", rawPropertyID)
	if err != nil {
		return nil, err
	}
	kind := models.UnitKind(req.Kind)
	if !kind.Valid() {
		return nil, utils.NewValidationError("kind", "kind is not a valid unit kind")
	}
	if len(req.Beds) > 0 && kind != models.UnitPGRoom {
		return nil, utils.NewValidationError("beds", "only PG rooms can carry beds")
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	prop, err := s.properties.GetByID(ctx, propID)
	if err != nil {
		return nil, storageErr(err)
	}
	if prop == nil {
		return nil, utils.NewNotFoundError("Property")
	}
	if kind.Inventory() != prop.Kind {
		return nil, badRequest(utils.ErrCodeValidation, "kind",
			string(kind)+" units cannot be added to a "+string(prop.Kind)+" property", internal_utils.ErrWrongPropertyKind)
	}

	u := &models.Unit{
		ID:          uuid.New(),
		PropertyID:  prop.ID,
		Kind:        kind,
		IsAvailable: true,
	}
	if err := applyUnitRequest(u, req); err != nil {
		return nil, err
	}
	if err := s.checkPlacement(ctx, u); err != nil {
		return nil, err
	}

	created := []*models.Unit{u}
	for _, b := range req.Beds {
		created = append(created, &models.Unit{
			ID:            uuid.New(),
			PropertyID:    prop.ID,
			Kind:          models.UnitPGBed,
			ParentID:      &u.ID,
			Name:          b.Name,
			Number:        b.Name,
			BedType:       b.BedType,
			Capacity:      1,
			PricePerMonth: valueOr(b.PricePerMonth, u.PricePerMonth),
			DepositAmount: valueOr(b.DepositAmount, u.DepositAmount),
			Amenities:     []string{},
			IsAvailable:   true,
		})
	}

	if err := s.units.CreateMany(ctx, created); err != nil {
		return nil, storageErr(err)
	}
	return created, nil
}

func (s *CatalogService) ListUnits(ctx context.Context, rawPropertyID string, kind string) ([]*models.Unit, error) {
	propID, err := parseID("propertyId", rawPropertyID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	all, err := s.units.ListByPropertyID(ctx, propID)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]*models.Unit, 0, len(all))
	for _, u := range all {
		if kind == "" || string(u.Kind) == kind {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *CatalogService) UpdateUnit(ctx context.Context, rawID string, req dtos.UnitRequest) (*models.Unit, error) {
	id, err := parseID("unitId", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	err = s.units.UpdateWithRetry(ctx, id, func(u *models.Unit) error {
		if string(u.Kind) != req.Kind {
			return utils.NewValidationError("kind", "a unit's kind cannot be changed")
		}
		if err := applyUnitRequest(u, req); err != nil {
			return err
		}
		return s.checkPlacement(ctx, u)
	})
	if err != nil {
		return nil, notFoundOr(err, "Unit")
	}
	return s.getUnit(ctx, id)
}

// DeleteUnit removes the unit. Child rooms and beds go with it.
func (s *CatalogService) DeleteUnit(ctx context.Context, rawID string) error {
	id, err := parseID("unitId", rawID)
	if err != nil {
		return err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()
	return notFoundOr(s.units.Delete(ctx, id), "Unit")
}

// ToggleUnit sets the cached availability flag, flipping it when no value
// is given. Resort and PG room status labels follow the flag.
func (s *CatalogService) ToggleUnit(ctx context.Context, rawID string, req dtos.ToggleRequest) (*models.Unit, error) {
	id, err := parseID("unitId", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	err = s.units.UpdateWithRetry(ctx, id, func(u *models.Unit) error {
		u.IsAvailable = valueOr(req.IsAvailable, !u.IsAvailable)
		if u.Kind == models.UnitResortRoom || u.Kind == models.UnitPGRoom {
			switch {
			case u.IsAvailable:
				u.Status = models.UnitStatusAvailable
			case u.Kind == models.UnitResortRoom:
				u.Status = models.UnitStatusBooked
			default:
				u.Status = models.UnitStatusOccupied
			}
		}
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Unit")
	}
	return s.getUnit(ctx, id)
}

// SetApartmentAvailability is the admin override of a room's or full
// apartment's cached flag inside one apartment property.
func (s *CatalogService) SetApartmentAvailability(
	ctx context.Context,
	rawPropertyID string,
	req dtos.ApartmentAvailabilityRequest,
) (*models.Unit, error) {
	propID, err := parseID("id", rawPropertyID)
	if err != nil {
		return nil, err
	}
	subID, err := parseID("subId", req.SubID)
	if err != nil {
		return nil, err
	}
	if req.IsAvailable == nil {
		return nil, utils.NewValidationError("isAvailable", "isAvailable is required")
	}
	var kind models.UnitKind
	switch req.Type {
	case "room":
		kind = models.UnitApartmentRoom
	case "apartment":
		kind = models.UnitFullApartment
	default:
		return nil, utils.NewValidationError("type", "type must be 'room' or 'apartment'")
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	prop, err := s.properties.GetByID(ctx, propID)
	if err != nil {
		return nil, storageErr(err)
	}
	if prop == nil || prop.Kind != models.InventoryApartment {
		return nil, utils.NewNotFoundError("Apartment")
	}
	if _, err := loadPropertyUnits(ctx, s.units, propID, []uuid.UUID{subID}, kind, "subId"); err != nil {
		return nil, err
	}
	if _, err := s.units.SetAvailability(ctx, []uuid.UUID{subID}, *req.IsAvailable); err != nil {
		return nil, storageErr(err)
	}
	return s.getUnit(ctx, subID)
}

func (s *CatalogService) getUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	u, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if u == nil {
		return nil, utils.NewNotFoundError("Unit")
	}
	return u, nil
}

// checkPlacement enforces the containment rules: apartment rooms may sit
// in a full apartment, PG rooms sit on a floor, PG beds sit in a PG room.
func (s *CatalogService) checkPlacement(ctx context.Context, u *models.Unit) error {
	var wantParent models.UnitKind
	switch u.Kind {
	case models.UnitApartmentRoom:
		wantParent = models.UnitFullApartment
	case models.UnitPGBed:
		if u.ParentID == nil {
			return utils.NewValidationError("parentId", "a bed must belong to a PG room")
		}
		wantParent = models.UnitPGRoom
	case models.UnitPGRoom:
		if u.FloorID == nil {
			return utils.NewValidationError("floorId", "a PG room must belong to a floor")
		}
		floor, err := s.floors.GetByID(ctx, *u.FloorID)
		if err != nil {
			return storageErr(err)
		}
		if floor == nil || floor.PropertyID != u.PropertyID {
			return badRequest(utils.ErrCodeValidation, "floorId", "floor does not belong to this property", internal_utils.ErrUnitNotInProperty)
		}
	}

	if u.Kind != models.UnitPGRoom && u.FloorID != nil {
		return utils.NewValidationError("floorId", "only PG rooms sit on floors")
	}
	if u.ParentID == nil {
		return nil
	}
	if wantParent == "" {
		return utils.NewValidationError("parentId", string(u.Kind)+" units have no parent")
	}
	_, err := loadPropertyUnits(ctx, s.units, u.PropertyID, []uuid.UUID{*u.ParentID}, wantParent, "parentId")
	return err
}

func applyUnitRequest(u *models.Unit, req dtos.UnitRequest) error {
	parentID, err := parseOptionalID("parentId", req.ParentID)
	if err != nil {
		return err
	}
	floorID, err := parseOptionalID("floorId", req.FloorID)
	if err != nil {
		return err
	}

	u.ParentID = parentID
	u.FloorID = floorID
	u.Name = req.Name
	u.Number = req.Number
	u.RoomType = req.RoomType
	u.SharingType = req.SharingType
	u.BedType = req.BedType
	u.Description = req.Description
	u.Capacity = req.Capacity
	u.TotalRooms = req.TotalRooms
	u.PricePerNight = req.PricePerNight
	u.PricePerMonth = req.PricePerMonth
	u.DepositAmount = req.DepositAmount
	u.ExtraBedPrice = req.ExtraBedPrice
	u.Amenities = nonNil(req.Amenities)
	if req.IsAvailable != nil {
		u.IsAvailable = *req.IsAvailable
	}
	u.Status = req.Status
	if u.Status == "" && (u.Kind == models.UnitResortRoom || u.Kind == models.UnitPGRoom) {
		u.Status = models.UnitStatusAvailable
	}
	return nil
}

/* ───────────── floors ───────────── */

func (s *CatalogService) CreateFloor(ctx context.Context, rawPropertyID string, req dtos.FloorRequest) (*models.Floor, error) {
	propID, err := parseID("id", rawPropertyID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	if err := s.requirePG(ctx, propID); err != nil {
		return nil, err
	}
	f := &models.Floor{
		ID:          uuid.New(),
		PropertyID:  propID,
		Number:      req.FloorNumber,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.floors.Create(ctx, f); err != nil {
		if errors.Is(err, repositories.ErrFloorNumberTaken) {
			return nil, floorTaken(err)
		}
		return nil, storageErr(err)
	}
	return f, nil
}

func (s *CatalogService) ListFloors(ctx context.Context, rawPropertyID string) ([]*models.Floor, error) {
	propID, err := parseID("id", rawPropertyID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	list, err := s.floors.ListByPropertyID(ctx, propID)
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.Floor{}
	}
	return list, nil
}

func (s *CatalogService) UpdateFloor(ctx context.Context, rawID string, req dtos.FloorRequest) (*models.Floor, error) {
	id, err := parseID("floorId", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	err = s.floors.UpdateWithRetry(ctx, id, func(f *models.Floor) error {
		f.Number = req.FloorNumber
		f.Name = req.Name
		f.Description = req.Description
		return nil
	})
	switch {
	case errors.Is(err, repositories.ErrFloorNumberTaken):
		return nil, floorTaken(err)
	case err != nil:
		return nil, notFoundOr(err, "Floor")
	}
	f, err := s.floors.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if f == nil {
		return nil, utils.NewNotFoundError("Floor")
	}
	return f, nil
}

// DeleteFloor removes the floor together with its rooms and their beds.
func (s *CatalogService) DeleteFloor(ctx context.Context, rawID string) error {
	id, err := parseID("floorId", rawID)
	if err != nil {
		return err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()
	return notFoundOr(s.floors.Delete(ctx, id), "Floor")
}

func (s *CatalogService) requirePG(ctx context.Context, propID uuid.UUID) error {
	prop, err := s.properties.GetByID(ctx, propID)
	if err != nil {
		return storageErr(err)
	}
	if prop == nil {
		return utils.NewNotFoundError("PG property")
	}
	if prop.Kind != models.InventoryPG {
		return badRequest(utils.ErrCodeValidation, "id", "floors only exist on PG properties", internal_utils.ErrWrongPropertyKind)
	}
	return nil
}

func floorTaken(err error) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       utils.ErrCodeConflict,
		Message:    "This floor number already exists on the property",
		Field:      "floorNumber",
		Err:        err,
	}
}

/* ───────────── tenants ───────────── */

func (s *CatalogService) CreateTenant(ctx context.Context, req dtos.TenantRequest) (*models.Tenant, error) {
	phone := req.Phone
	if e164, ok := utils.NormalizePhoneE164(req.Phone, utils.DefaultCountryCallingCode); ok {
		phone = e164
	}
	t := &models.Tenant{
		ID:     uuid.New(),
		Name:   req.Name,
		Phone:  phone,
		Email:  req.Email,
		Gender: req.Gender,
		EmergencyContact: models.EmergencyContact{
			Name:     req.EmergencyContact.Name,
			Phone:    req.EmergencyContact.Phone,
			Relation: req.EmergencyContact.Relation,
		},
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	if err := s.tenants.Create(ctx, t); err != nil {
		return nil, storageErr(err)
	}
	return t, nil
}

func (s *CatalogService) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	list, err := s.tenants.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.Tenant{}
	}
	return list, nil
}

func (s *CatalogService) GetTenant(ctx context.Context, rawID string) (*models.Tenant, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if t == nil {
		return nil, utils.NewNotFoundError("Tenant")
	}
	return t, nil
}

/* ───────────── small helpers ───────────── */

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func valueOr[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}
