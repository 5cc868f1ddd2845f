package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"propertyId"`
	Name       string    `json:"name"`
	Rating     float64   `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Date       time.Time `json:"date"`
}

// AggregateRatings is the arithmetic mean of the ratings plus the count.
// An empty list yields the zero Rating.
func AggregateRatings(reviews []*Review) Rating {
	if len(reviews) == 0 {
		return Rating{}
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return Rating{Average: sum / float64(len(reviews)), ReviewsCount: len(reviews)}
}
