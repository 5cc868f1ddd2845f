// backend/shared/go-models/admin_audit_log.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

type AuditTargetType string

const (
	TargetProperty AuditTargetType = "PROPERTY"
	TargetUnit     AuditTargetType = "UNIT"
	TargetFloor    AuditTargetType = "FLOOR"
	TargetTenant   AuditTargetType = "TENANT"
	TargetBooking  AuditTargetType = "BOOKING"
	TargetLease    AuditTargetType = "LEASE"
	TargetReview   AuditTargetType = "REVIEW"
)

// AdminAuditLog records one admin mutation. AdminID is the token subject,
// which is not necessarily a UUID.
type AdminAuditLog struct {
	ID         uuid.UUID        `json:"id"`
	AdminID    string           `json:"adminId"`
	Action     AuditAction      `json:"action"`
	TargetID   uuid.UUID        `json:"targetId"`
	TargetType AuditTargetType  `json:"targetType"`
	Details    *json.RawMessage `json:"details,omitempty"` // JSONB snapshot of the target after the change
	CreatedAt  time.Time        `json:"createdAt"`
}
