package subscription

import (
	"fmt"
	"time"
)

// CriticalDays is the inclusive threshold under which an expiry is flagged.
const CriticalDays = 10

// Expiry is the display form of a package end date.
type Expiry struct {
	DaysLeft int    `json:"days_left"`
	Expired  bool   `json:"expired"`
	Critical bool   `json:"critical"`
	Label    string `json:"label"`
}

// DescribeExpiry compares calendar dates, ignoring the time of day.
func DescribeExpiry(end *time.Time, now time.Time) Expiry {
	if end == nil {
		return Expiry{Label: "N/A"}
	}
	days := calendarDays(*end) - calendarDays(now)
	e := Expiry{DaysLeft: days}
	if days < 0 {
		e.Expired = true
		e.Critical = true
		e.Label = "Expired"
		return e
	}
	e.Critical = days <= CriticalDays
	e.Label = fmt.Sprintf("%d days left", days)
	return e
}

// calendarDays counts whole days since the epoch for t's UTC calendar date.
func calendarDays(t time.Time) int {
	y, m, d := t.UTC().Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
