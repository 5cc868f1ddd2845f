package services

import (
	"math"
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
)

// Nights is the ceiling of the elapsed time in whole days. Any positive
// interval counts at least one night. Both instants are compared as
// absolute times, so the zone they were written in does not matter.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(utils.Day)))
}

// PriceCalculator applies flat per-night pricing. Monthly PG rent is
// supplied by the caller and never computed here.
type PriceCalculator struct{}

// StayTotal sums each unit's nightly rate over the stay.
func (PriceCalculator) StayTotal(units []*models.Unit, nights int) float64 {
	var total float64
	for _, u := range units {
		total += u.PricePerNight * float64(nights)
	}
	return total
}

// ResortTotal trusts a caller-supplied amount and otherwise falls back to
// the room's nightly rate.
func (PriceCalculator) ResortTotal(room *models.Unit, supplied *float64) float64 {
	if supplied != nil {
		return *supplied
	}
	return room.PricePerNight
}

// StayMonths credits a tenant for the part of [start, end) already lived.
// Partial months round up; a stay that never began counts zero.
func StayMonths(start, end time.Time) int {
	days := Nights(start, end)
	if days == 0 {
		return 0
	}
	return (days + 29) / 30
}
