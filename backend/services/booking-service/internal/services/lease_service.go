package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/events"
	internal_utils "github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/utils"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LeaseService manages PG tenant leases on beds.
type LeaseService struct {
	properties     repositories.PropertyRepository
	units          repositories.UnitRepository
	tenants        repositories.TenantRepository
	leases         repositories.LeaseRepository
	overlap        *OverlapDetector
	publisher      events.Publisher
	storageTimeout time.Duration
	now            func() time.Time
}

func NewLeaseService(
	cfg *config.Config,
	properties repositories.PropertyRepository,
	units repositories.UnitRepository,
	tenants repositories.TenantRepository,
	leases repositories.LeaseRepository,
	overlap *OverlapDetector,
	publisher events.Publisher,
) *LeaseService {
	return &LeaseService{
		properties:     properties,
		units:          units,
		tenants:        tenants,
		leases:         leases,
		overlap:        overlap,
		publisher:      publisher,
		storageTimeout: cfg.StorageTimeout,
		now:            time.Now,
	}
}

func (s *LeaseService) CreateLease(ctx context.Context, req dtos.CreateLeaseRequest) (*models.Lease, error) {
	tenantID, err := parseID("tenantId", req.TenantID)
	if err != nil {
		return nil, err
	}
	bedID, err := parseID("bedId", req.BedID)
	if err != nil {
		return nil, err
	}
	propID, err := parseOptionalID("propertyId", req.PropertyID)
	if err != nil {
		return nil, err
	}
	roomID, err := parseOptionalID("roomId", req.RoomID)
	if err != nil {
		return nil, err
	}
	term, err := parseOpenStay("startDate", "endDate", req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, storageErr(err)
	}
	if tenant == nil {
		return nil, utils.NewNotFoundError("Tenant")
	}

	bed, err := s.units.GetByID(ctx, bedID)
	if err != nil {
		return nil, storageErr(err)
	}
	if bed == nil || bed.Kind != models.UnitPGBed || bed.ParentID == nil {
		return nil, utils.NewNotFoundError("Bed")
	}
	if roomID != nil && *roomID != *bed.ParentID {
		return nil, badRequest(utils.ErrCodeValidation, "roomId", "Bed does not belong to this room", internal_utils.ErrUnitNotInProperty)
	}
	if propID != nil && *propID != bed.PropertyID {
		return nil, badRequest(utils.ErrCodeValidation, "propertyId", "Bed does not belong to this property", internal_utils.ErrUnitNotInProperty)
	}
	if _, err := loadActiveProperty(ctx, s.properties, bed.PropertyID, models.InventoryPG, "PG property"); err != nil {
		return nil, err
	}

	deposit := bed.DepositAmount
	if req.DepositAmount != nil {
		deposit = *req.DepositAmount
	}
	l := &models.Lease{
		ID:             uuid.New(),
		PropertyID:     bed.PropertyID,
		RoomID:         *bed.ParentID,
		BedID:          bed.ID,
		TenantID:       tenant.ID,
		StartDate:      term.Start,
		EndDate:        term.End,
		RentAmount:     req.RentAmount,
		DepositAmount:  deposit,
		PaymentHistory: []models.LeasePayment{},
		Status:         models.LeaseActive,
	}

	// A lease guards its room too, so a whole-room stay blocks the bed.
	conflict, _, err := s.overlap.HasConflict(ctx, models.SingleUnitSelector{UnitID: bed.ID}, l.Term(), l.RoomID)
	if err != nil {
		return nil, storageErr(err)
	}
	if conflict {
		return nil, utils.NewConflictError(constants.MsgBedUnavailable, repositories.ErrHoldConflict)
	}
	if err := s.leases.Create(ctx, l, s.now()); err != nil {
		if errors.Is(err, repositories.ErrHoldConflict) {
			return nil, utils.NewConflictError(constants.MsgBedUnavailable, err)
		}
		return nil, storageErr(err)
	}

	publish(ctx, s.publisher, events.NewLeaseEvent(events.LeaseCreated, l, tenant))
	return l, nil
}

func (s *LeaseService) ListLeases(ctx context.Context, q dtos.ListLeasesQuery) ([]*models.Lease, error) {
	var f repositories.LeaseFilter
	if q.Status != "" {
		st := models.LeaseStatus(q.Status)
		if !models.ValidLeaseStatus(st) {
			return nil, utils.NewValidationError("status", "status must be one of Active, Ended, Cancelled")
		}
		f.Status = st
	}
	var err error
	if f.PropertyID, err = parseOptionalID("propertyId", q.PropertyID); err != nil {
		return nil, err
	}
	if f.TenantID, err = parseOptionalID("tenantId", q.TenantID); err != nil {
		return nil, err
	}
	if f.BedID, err = parseOptionalID("bedId", q.BedID); err != nil {
		return nil, err
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	list, err := s.leases.List(ctx, f)
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.Lease{}
	}
	return list, nil
}

func (s *LeaseService) GetLease(ctx context.Context, rawID string) (*models.Lease, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	l, err := s.leases.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if l == nil {
		return nil, utils.NewNotFoundError("Lease")
	}
	return l, nil
}

func (s *LeaseService) CancelLease(ctx context.Context, rawID string) (*models.Lease, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, models.LeaseCancelled)
}

func (s *LeaseService) UpdateLeaseStatus(ctx context.Context, rawID string, req dtos.UpdateLeaseStatusRequest) (*models.Lease, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	to := models.LeaseStatus(req.Status)
	if !models.ValidLeaseStatus(to) {
		return nil, utils.NewValidationError("status", "status must be one of Active, Ended, Cancelled")
	}
	return s.transition(ctx, id, to)
}

// transition moves a lease out of Active. Ending a lease early closes its
// term at now; the tenant is credited the months actually stayed.
func (s *LeaseService) transition(ctx context.Context, id uuid.UUID, to models.LeaseStatus) (*models.Lease, error) {
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	now := s.now()
	changed := false
	l, err := s.leases.Transition(ctx, id, func(l *models.Lease) (int, error) {
		if !models.CanTransitionLease(l.Status, to) {
			return 0, utils.NewTransitionError(string(l.Status), string(to))
		}
		if l.Status == to {
			return 0, nil
		}
		changed = true
		l.Status = to

		stayedUntil := now
		if l.EndDate != nil && l.EndDate.Before(now) {
			stayedUntil = *l.EndDate
		}
		if to == models.LeaseEnded && (l.EndDate == nil || l.EndDate.After(now)) {
			end := now
			if end.Before(l.StartDate) {
				end = l.StartDate.Add(utils.Day)
			}
			l.EndDate = &end
		}
		return StayMonths(l.StartDate, stayedUntil), nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if l == nil {
		return nil, utils.NewNotFoundError("Lease")
	}

	if changed {
		evType := events.LeaseCancelled
		if to == models.LeaseEnded {
			evType = events.LeaseEnded
		}
		tenant, terr := s.tenants.GetByID(ctx, l.TenantID)
		if terr != nil {
			utils.Logger.WithError(terr).WithField("lease_id", l.ID).Warn("tenant lookup for lease event failed")
		}
		publish(ctx, s.publisher, events.NewLeaseEvent(evType, l, tenant))
	}
	return l, nil
}

func (s *LeaseService) RecordPayment(ctx context.Context, rawID string, req dtos.RecordPaymentRequest) (*models.Lease, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, utils.NewValidationError("amount", "amount must be positive")
	}
	paidAt := s.now()
	if req.Date != nil {
		if paidAt, err = utils.ParseDate(*req.Date); err != nil {
			return nil, utils.NewValidationError("date", "date is not a valid date")
		}
	}

	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	l, err := s.leases.AddPayment(ctx, id, models.LeasePayment{
		Date:   paidAt,
		Amount: req.Amount,
		Method: req.Method,
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if l == nil {
		return nil, utils.NewNotFoundError("Lease")
	}
	return l, nil
}

// OccupyStartedLeases marks the bed of every running lease as occupied. It
// picks up leases created ahead of their start date.
func (s *LeaseService) OccupyStartedLeases(ctx context.Context) (int, error) {
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()
	n, err := s.leases.OccupyStartedBeds(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("occupy started leases: %w", storageErr(err))
	}
	return int(n), nil
}

// EndExpiredLeases ends every active lease whose end date has passed. One
// failing lease does not stop the sweep.
func (s *LeaseService) EndExpiredLeases(ctx context.Context) (int, error) {
	listCtx, cancel := storageCtx(ctx, s.storageTimeout)
	expired, err := s.leases.ListExpired(listCtx, s.now())
	cancel()
	if err != nil {
		return 0, fmt.Errorf("list expired leases: %w", storageErr(err))
	}

	ended := 0
	for _, l := range expired {
		if _, err := s.transition(ctx, l.ID, models.LeaseEnded); err != nil {
			utils.Logger.WithError(err).WithFields(logrus.Fields{
				"lease_id": l.ID,
				"bed_id":   l.BedID,
			}).Error("Failed to end expired lease")
			continue
		}
		ended++
	}
	return ended, nil
}
