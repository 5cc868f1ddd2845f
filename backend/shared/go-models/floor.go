package models

import (
	"time"

	"github.com/google/uuid"
)

// Floor is a level of a PG property. PG rooms hang off floors.
type Floor struct {
	Versioned
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"propertyId"`
	Number      int       `json:"floorNumber"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (f *Floor) GetID() string { return f.ID.String() }
