package services

import (
	"context"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
)

type leaseSweeper interface {
	EndExpiredLeases(ctx context.Context) (int, error)
	OccupyStartedLeases(ctx context.Context) (int, error)
}

type LeaseMaintenanceService struct {
	leases  leaseSweeper
	timeout time.Duration
}

func NewLeaseMaintenanceService(leases *LeaseService) *LeaseMaintenanceService {
	return &LeaseMaintenanceService{leases: leases, timeout: constants.LeaseMaintenanceTimeout}
}

// RunDailyLeaseMaintenance is triggered once per day (around 00:10 UTC).
// It ends every lease whose term is over, which frees the bed and credits
// the tenant's stay months. Then it occupies the beds of leases that have
// started, so a bed freed today can go to its next tenant.
func (s *LeaseMaintenanceService) RunDailyLeaseMaintenance(ctx context.Context) error {
	utils.Logger.Info("Running daily lease maintenance...")
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ended, err := s.leases.EndExpiredLeases(ctx)
	if err != nil {
		return err
	}
	occupied, err := s.leases.OccupyStartedLeases(ctx)
	if err != nil {
		return err
	}
	utils.Logger.WithField("ended", ended).WithField("occupied", occupied).Info("Daily lease maintenance finished")
	return nil
}
