package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VIPCost is the weekly subscription price in CBT.
var VIPCost = decimal.NewFromInt(500)

const secondsPerDay = 86400

// EndOfWeek returns the last second (Sunday 23:59:59 UTC) of the week
// containing now. Unix day 0 was a Thursday, hence the +3 shift to make
// Monday day 0 of the week.
func EndOfWeek(now time.Time) time.Time {
	days := now.Unix() / secondsPerDay
	dayOfWeek := (days + 3) % 7
	daysUntilSunday := 6 - dayOfWeek
	end := (days+daysUntilSunday+1)*secondsPerDay - 1
	return time.Unix(end, 0).UTC()
}
