package testhelpers

import (
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
)

// StayDates returns check-in and check-out dates starting offsetDays from
// today. Tests far in the future keep clear of earlier runs' bookings.
func StayDates(offsetDays, nights int) (string, string) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	in := today.AddDate(0, 0, offsetDays)
	return in.Format(utils.DateLayout), in.AddDate(0, 0, nights).Format(utils.DateLayout)
}
