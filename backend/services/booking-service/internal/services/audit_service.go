package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService keeps the trail of admin mutations. Writing the trail never
// fails the admin's request.
type AuditService struct {
	logs           repositories.AdminAuditLogRepository
	storageTimeout time.Duration
}

func NewAuditService(cfg *config.Config, logs repositories.AdminAuditLogRepository) *AuditService {
	return &AuditService{logs: logs, storageTimeout: cfg.StorageTimeout}
}

// Record stores snapshot as the entry's details. It outlives the request
// context so a client disconnect does not drop the entry.
func (s *AuditService) Record(
	ctx context.Context,
	adminID string,
	action models.AuditAction,
	target models.AuditTargetType,
	targetID uuid.UUID,
	snapshot any,
) {
	entry := &models.AdminAuditLog{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetID:   targetID,
		TargetType: target,
	}
	fields := logrus.Fields{"admin_id": adminID, "action": action, "target_type": target, "target_id": targetID}

	if snapshot != nil {
		raw, err := json.Marshal(snapshot)
		if err != nil {
			utils.Logger.WithError(err).WithFields(fields).Warn("audit snapshot not serializable; recording without details")
		} else {
			details := json.RawMessage(raw)
			entry.Details = &details
		}
	}

	ctx, cancel := storageCtx(context.WithoutCancel(ctx), s.storageTimeout)
	defer cancel()
	if err := s.logs.Create(ctx, entry); err != nil {
		utils.Logger.WithError(err).WithFields(fields).Error("Failed to write admin audit log")
	}
}

func (s *AuditService) History(ctx context.Context, rawTargetID string) ([]*models.AdminAuditLog, error) {
	id, err := parseID("id", rawTargetID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storageCtx(ctx, s.storageTimeout)
	defer cancel()

	list, err := s.logs.ListByTarget(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.AdminAuditLog{}
	}
	return list, nil
}
