package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/events"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// memStore is an in-memory stand-in for Postgres. The ledger fakes apply
// the same hold rules as the real reserve transaction, serialized by mu.
type memStore struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*models.Property
	units      map[uuid.UUID]*models.Unit
	floors     map[uuid.UUID]*models.Floor
	tenants    map[uuid.UUID]*models.Tenant
	bookings   map[uuid.UUID]*models.Booking
	leases     map[uuid.UUID]*models.Lease
	reviews    map[uuid.UUID]*models.Review
	holds      []models.UnitHold
}

func newMemStore() *memStore {
	return &memStore{
		properties: map[uuid.UUID]*models.Property{},
		units:      map[uuid.UUID]*models.Unit{},
		floors:     map[uuid.UUID]*models.Floor{},
		tenants:    map[uuid.UUID]*models.Tenant{},
		bookings:   map[uuid.UUID]*models.Booking{},
		leases:     map[uuid.UUID]*models.Lease{},
		reviews:    map[uuid.UUID]*models.Review{},
	}
}

func (s *memStore) blocking(unitIDs []uuid.UUID, rng models.DateRange) []models.UnitHold {
	want := make(map[uuid.UUID]bool, len(unitIDs))
	for _, id := range unitIDs {
		want[id] = true
	}
	var out []models.UnitHold
	for _, h := range s.holds {
		if h.Blocking && want[h.UnitID] && h.Stay.Overlaps(rng) {
			out = append(out, h)
		}
	}
	return out
}

func (s *memStore) setBlocking(kind models.LedgerKind, id uuid.UUID, blocking bool) {
	for i := range s.holds {
		if s.holds[i].LedgerKind == kind && s.holds[i].LedgerID == id {
			s.holds[i].Blocking = blocking
		}
	}
}

func (s *memStore) dropHolds(kind models.LedgerKind, id uuid.UUID) {
	kept := s.holds[:0]
	for _, h := range s.holds {
		if h.LedgerKind != kind || h.LedgerID != id {
			kept = append(kept, h)
		}
	}
	s.holds = kept
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *memStore) unit(id uuid.UUID) models.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.units[id]
}

/* ---------- properties ---------- */

type fakeProperties struct {
	repositories.PropertyRepository
	s *memStore
}

func (f fakeProperties) Create(_ context.Context, p *models.Property) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.properties {
		if existing.Slug == p.Slug {
			return repositories.ErrSlugTaken
		}
	}
	p.RowVersion = 1
	cp := *p
	f.s.properties[p.ID] = &cp
	return nil
}

func (f fakeProperties) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.properties[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f fakeProperties) GetBySlug(_ context.Context, slug string) (*models.Property, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, p := range f.s.properties {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeProperties) SetActive(_ context.Context, id uuid.UUID, active bool) (*models.Property, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.properties[id]
	if !ok {
		return nil, nil
	}
	p.IsActive = active
	cp := *p
	return &cp, nil
}

func (f fakeProperties) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	p, _ := f.GetByID(ctx, id)
	if p == nil {
		return pgx.ErrNoRows
	}
	if err := mutate(p); err != nil {
		return err
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for otherID, other := range f.s.properties {
		if otherID != id && other.Slug == p.Slug {
			return repositories.ErrSlugTaken
		}
	}
	p.RowVersion++
	f.s.properties[id] = p
	return nil
}

/* ---------- units ---------- */

type fakeUnits struct {
	repositories.UnitRepository
	s *memStore
}

func (f fakeUnits) CreateMany(_ context.Context, list []*models.Unit) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range list {
		u.RowVersion = 1
		cp := *u
		f.s.units[u.ID] = &cp
	}
	return nil
}

func (f fakeUnits) GetByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.units[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f fakeUnits) GetMany(_ context.Context, ids []uuid.UUID) ([]*models.Unit, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Unit
	for _, id := range ids {
		if u, ok := f.s.units[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f fakeUnits) filter(keep func(*models.Unit) bool) []*models.Unit {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Unit
	for _, u := range f.s.units {
		if keep(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f fakeUnits) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Unit, error) {
	return f.filter(func(u *models.Unit) bool { return u.PropertyID == propID }), nil
}

func (f fakeUnits) ListByParentID(_ context.Context, parentID uuid.UUID) ([]*models.Unit, error) {
	return f.filter(func(u *models.Unit) bool { return u.ParentID != nil && *u.ParentID == parentID }), nil
}

func (f fakeUnits) SetAvailability(_ context.Context, ids []uuid.UUID, available bool) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if u, ok := f.s.units[id]; ok {
			u.IsAvailable = available
			n++
		}
	}
	return n, nil
}

func (f fakeUnits) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	u, _ := f.GetByID(ctx, id)
	if u == nil {
		return pgx.ErrNoRows
	}
	if err := mutate(u); err != nil {
		return err
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u.RowVersion++
	f.s.units[id] = u
	return nil
}

func (f fakeUnits) Delete(_ context.Context, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.units[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.s.units, id)
	return nil
}

/* ---------- floors & tenants ---------- */

type fakeFloors struct {
	repositories.FloorRepository
	s *memStore
}

func (f fakeFloors) Create(_ context.Context, fl *models.Floor) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.floors {
		if existing.PropertyID == fl.PropertyID && existing.Number == fl.Number {
			return repositories.ErrFloorNumberTaken
		}
	}
	cp := *fl
	f.s.floors[fl.ID] = &cp
	return nil
}

func (f fakeFloors) GetByID(_ context.Context, id uuid.UUID) (*models.Floor, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	fl, ok := f.s.floors[id]
	if !ok {
		return nil, nil
	}
	cp := *fl
	return &cp, nil
}

func (f fakeFloors) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Floor, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Floor
	for _, fl := range f.s.floors {
		if fl.PropertyID == propID {
			cp := *fl
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type fakeTenants struct {
	repositories.TenantRepository
	s *memStore
}

func (f fakeTenants) Create(_ context.Context, t *models.Tenant) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *t
	f.s.tenants[t.ID] = &cp
	return nil
}

func (f fakeTenants) GetByID(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.tenants[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

/* ---------- ledger ---------- */

type fakeHolds struct {
	repositories.HoldRepository
	s *memStore
}

func (f fakeHolds) FindBlocking(_ context.Context, unitIDs []uuid.UUID, rng models.DateRange) ([]models.UnitHold, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.blocking(unitIDs, rng), nil
}

type fakeBookings struct {
	repositories.BookingRepository
	s *memStore
}

func (f fakeBookings) Reserve(_ context.Context, b *models.Booking, linked []uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if b.Blocking() {
		guarded := append(b.UnitIDs(), linked...)
		if conflicts := f.s.blocking(guarded, b.Stay()); len(conflicts) > 0 {
			return &repositories.HoldConflictError{Holds: conflicts}
		}
	}
	b.CreatedAt, b.UpdatedAt, b.RowVersion = time.Now(), time.Now(), 1
	cp := *b
	f.s.bookings[b.ID] = &cp
	f.s.holds = append(f.s.holds, models.HoldsForBooking(b)...)
	return nil
}

func (f fakeBookings) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f fakeBookings) List(_ context.Context, filter repositories.BookingFilter) ([]*models.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.s.bookings {
		if b.Kind != filter.Kind {
			continue
		}
		if filter.PropertyID != nil && b.PropertyID != *filter.PropertyID {
			continue
		}
		if len(filter.Statuses) > 0 && b.BookingStatus != filter.Statuses[0] {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (f fakeBookings) Transition(_ context.Context, id uuid.UUID, fn repositories.BookingTransition) (*models.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	wasBlocking := cp.Blocking()
	restore, err := fn(&cp)
	if err != nil {
		return nil, err
	}
	if cp.Blocking() != wasBlocking {
		f.s.setBlocking(models.LedgerBooking, id, cp.Blocking())
	}
	for _, uid := range restore {
		if u, ok := f.s.units[uid]; ok {
			u.IsAvailable = true
		}
	}
	cp.RowVersion++
	stored := cp
	f.s.bookings[id] = &stored
	return &cp, nil
}

func (f fakeBookings) DeleteAndRelease(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.bookings[id]
	if !ok {
		return nil, nil
	}
	for _, uid := range b.UnitIDs() {
		if u, ok := f.s.units[uid]; ok {
			u.IsAvailable = true
		}
	}
	f.s.dropHolds(models.LedgerBooking, id)
	delete(f.s.bookings, id)
	return b, nil
}

type fakeLeases struct {
	repositories.LeaseRepository
	s *memStore
}

func (f fakeLeases) Create(_ context.Context, l *models.Lease, now time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if l.Blocking() {
		if conflicts := f.s.blocking([]uuid.UUID{l.BedID, l.RoomID}, l.Term()); len(conflicts) > 0 {
			return &repositories.HoldConflictError{Holds: conflicts}
		}
	}
	l.RowVersion = 1
	cp := *l
	f.s.leases[l.ID] = &cp
	f.s.holds = append(f.s.holds, models.HoldForLease(l))
	if l.Blocking() && l.Term().Contains(now) {
		bed := f.s.units[l.BedID]
		bed.IsOccupied = true
		bed.CurrentTenantID = &l.TenantID
	}
	return nil
}

func (f fakeLeases) GetByID(_ context.Context, id uuid.UUID) (*models.Lease, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	l, ok := f.s.leases[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f fakeLeases) Transition(_ context.Context, id uuid.UUID, fn repositories.LeaseTransition) (*models.Lease, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	l, ok := f.s.leases[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	wasActive := cp.Blocking()
	months, err := fn(&cp)
	if err != nil {
		return nil, err
	}
	for i := range f.s.holds {
		if f.s.holds[i].LedgerKind == models.LedgerLease && f.s.holds[i].LedgerID == id {
			f.s.holds[i].Stay = cp.Term()
		}
	}
	if wasActive && !cp.Blocking() {
		f.s.setBlocking(models.LedgerLease, id, false)
		bed := f.s.units[cp.BedID]
		if bed.CurrentTenantID != nil && *bed.CurrentTenantID == cp.TenantID {
			bed.IsOccupied = false
			bed.CurrentTenantID = nil
		}
	}
	if months > 0 {
		f.s.tenants[cp.TenantID].TotalStayMonths += months
	}
	stored := cp
	f.s.leases[id] = &stored
	return &cp, nil
}

func (f fakeLeases) AddPayment(_ context.Context, id uuid.UUID, p models.LeasePayment) (*models.Lease, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	l, ok := f.s.leases[id]
	if !ok {
		return nil, nil
	}
	l.PaymentHistory = append(l.PaymentHistory, p)
	cp := *l
	return &cp, nil
}

func (f fakeLeases) ListExpired(_ context.Context, now time.Time) ([]*models.Lease, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Lease
	for _, l := range f.s.leases {
		if l.Status == models.LeaseActive && l.EndDate != nil && !l.EndDate.After(now) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f fakeLeases) OccupyStartedBeds(_ context.Context, now time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, l := range f.s.leases {
		if l.Status != models.LeaseActive || !l.Term().Contains(now) {
			continue
		}
		bed := f.s.units[l.BedID]
		if bed.IsOccupied && bed.CurrentTenantID != nil && *bed.CurrentTenantID == l.TenantID {
			continue
		}
		tenant := l.TenantID
		bed.IsOccupied = true
		bed.CurrentTenantID = &tenant
		bed.Status = models.UnitStatusOccupied
		n++
	}
	return n, nil
}

type fakeReviews struct {
	repositories.ReviewRepository
	s *memStore
}

func (f fakeReviews) recompute(propID uuid.UUID) models.Rating {
	var list []*models.Review
	for _, rv := range f.s.reviews {
		if rv.PropertyID == propID {
			list = append(list, rv)
		}
	}
	rating := models.AggregateRatings(list)
	f.s.properties[propID].Rating = rating
	return rating
}

func (f fakeReviews) Add(_ context.Context, rv *models.Review) (models.Rating, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *rv
	f.s.reviews[rv.ID] = &cp
	return f.recompute(rv.PropertyID), nil
}

func (f fakeReviews) Update(_ context.Context, rv *models.Review) (models.Rating, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if existing, ok := f.s.reviews[rv.ID]; !ok || existing.PropertyID != rv.PropertyID {
		return models.Rating{}, pgx.ErrNoRows
	}
	cp := *rv
	f.s.reviews[rv.ID] = &cp
	return f.recompute(rv.PropertyID), nil
}

func (f fakeReviews) Delete(_ context.Context, propertyID, reviewID uuid.UUID) (models.Rating, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if existing, ok := f.s.reviews[reviewID]; !ok || existing.PropertyID != propertyID {
		return models.Rating{}, pgx.ErrNoRows
	}
	delete(f.s.reviews, reviewID)
	return f.recompute(propertyID), nil
}

func (f fakeReviews) GetByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	rv, ok := f.s.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *rv
	return &cp, nil
}

func (f fakeReviews) ListByProperty(_ context.Context, propertyID uuid.UUID) ([]*models.Review, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Review
	for _, rv := range f.s.reviews {
		if rv.PropertyID == propertyID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

/* ---------- publisher ---------- */

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

/* ---------- fixture ---------- */

var fixedNow = time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store *memStore
	pub   *recordingPublisher
	cfg   *config.Config

	bookings     *BookingService
	leases       *LeaseService
	catalog      *CatalogService
	reviews      *ReviewService
	availability *AvailabilityService

	apartment     *models.Property
	fullApartment *models.Unit
	roomA, roomB  *models.Unit
	resort        *models.Property
	resortRoom    *models.Unit
	pg            *models.Property
	floor         *models.Floor
	pgRoom        *models.Unit
	bed1, bed2    *models.Unit
	tenant        *models.Tenant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newMemStore()
	pub := &recordingPublisher{}
	cfg := &config.Config{
		OrganizationName: utils.OrganizationName,
		StorageTimeout:   time.Second,
	}

	props, units, floors := fakeProperties{s: s}, fakeUnits{s: s}, fakeFloors{s: s}
	tenants, holds := fakeTenants{s: s}, fakeHolds{s: s}
	overlap := NewOverlapDetector(holds)

	f := &fixture{store: s, pub: pub, cfg: cfg}
	f.bookings = NewBookingService(cfg, props, units, fakeBookings{s: s}, overlap, pub)
	f.leases = NewLeaseService(cfg, props, units, tenants, fakeLeases{s: s}, overlap, pub)
	f.leases.now = func() time.Time { return fixedNow }
	f.catalog = NewCatalogService(cfg, props, units, floors, tenants)
	f.reviews = NewReviewService(cfg, props, fakeReviews{s: s})
	f.reviews.now = func() time.Time { return fixedNow }
	f.availability = NewAvailabilityService(cfg, props, units, floors, overlap)
	f.availability.now = func() time.Time { return fixedNow }

	f.apartment = f.addProperty(models.InventoryApartment, "Sea View Residences")
	f.fullApartment = f.addUnit(&models.Unit{PropertyID: f.apartment.ID, Kind: models.UnitFullApartment, Name: "A-101", PricePerNight: 2000, Capacity: 4})
	f.roomA = f.addUnit(&models.Unit{PropertyID: f.apartment.ID, Kind: models.UnitApartmentRoom, Name: "Room A", PricePerNight: 1500, Capacity: 2})
	f.roomB = f.addUnit(&models.Unit{PropertyID: f.apartment.ID, Kind: models.UnitApartmentRoom, Name: "Room B", PricePerNight: 1000, Capacity: 2})

	f.resort = f.addProperty(models.InventoryResort, "Palm Grove Resort")
	f.resortRoom = f.addUnit(&models.Unit{PropertyID: f.resort.ID, Kind: models.UnitResortRoom, Name: "Deluxe 1", PricePerNight: 4500, Capacity: 3, Status: models.UnitStatusAvailable})

	f.pg = f.addProperty(models.InventoryPG, "Green Nest PG")
	f.floor = &models.Floor{ID: uuid.New(), PropertyID: f.pg.ID, Number: 1, Name: "First"}
	s.floors[f.floor.ID] = f.floor
	f.pgRoom = f.addUnit(&models.Unit{PropertyID: f.pg.ID, Kind: models.UnitPGRoom, Name: "101", Number: "101", FloorID: &f.floor.ID, SharingType: "Double", PricePerMonth: 9000, DepositAmount: 9000, Status: models.UnitStatusAvailable})
	f.bed1 = f.addUnit(&models.Unit{PropertyID: f.pg.ID, Kind: models.UnitPGBed, Name: "101-A", Number: "A", ParentID: &f.pgRoom.ID, PricePerMonth: 4500, DepositAmount: 5000})
	f.bed2 = f.addUnit(&models.Unit{PropertyID: f.pg.ID, Kind: models.UnitPGBed, Name: "101-B", Number: "B", ParentID: &f.pgRoom.ID, PricePerMonth: 4500, DepositAmount: 5000})

	f.tenant = &models.Tenant{ID: uuid.New(), Name: "Asha", Phone: "+919876543210"}
	s.tenants[f.tenant.ID] = f.tenant
	return f
}

func (f *fixture) addProperty(kind models.InventoryKind, name string) *models.Property {
	p := &models.Property{
		ID:       uuid.New(),
		Kind:     kind,
		Name:     name,
		Slug:     utils.Slugify(name),
		IsActive: true,
	}
	f.store.properties[p.ID] = p
	return p
}

func (f *fixture) addUnit(u *models.Unit) *models.Unit {
	u.ID = uuid.New()
	u.IsAvailable = true
	f.store.units[u.ID] = u
	return u
}
