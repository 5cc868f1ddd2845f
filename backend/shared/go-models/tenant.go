package models

import (
	"time"

	"github.com/google/uuid"
)

type EmergencyContact struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Relation string `json:"relation,omitempty"`
}

// Tenant is a PG resident. Leases reference tenants.
type Tenant struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email,omitempty"`
	Gender           string           `json:"gender,omitempty"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	TotalStayMonths  int              `json:"totalStayMonths"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}
