package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/geo"
)

type Status string

const (
	StatusAbsent  Status = "absent"
	StatusPartial Status = "partial"
	StatusPresent Status = "present"
)

// Attendance is the single record of a user for one calendar day.
type Attendance struct {
	ID                   string
	UserID               string
	Date                 time.Time
	EntryTime            *time.Time
	ExitTime             *time.Time
	EntryLocation        geo.Point
	ExitLocation         geo.Point
	TotalDurationMinutes int
	Status               Status
	IsWFH                bool
	AutoEntry            bool
	AutoExit             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (a *Attendance) HasEntry() bool {
	return a.EntryTime != nil
}

func (a *Attendance) HasExit() bool {
	return a.ExitTime != nil
}

// Summarize derives the stored duration and status from an entry/exit pair.
// Minutes are the elapsed milliseconds rounded once; the presence threshold uses the unrounded duration.
func Summarize(entry, exit time.Time, minPresence time.Duration) (minutes int, status Status) {
	elapsed := exit.Sub(entry)
	if elapsed < 0 {
		elapsed = 0
	}
	minutes = int(math.Round(float64(elapsed.Milliseconds()) / 60000))

	if elapsed >= minPresence {
		return minutes, StatusPresent
	}
	return minutes, StatusPartial
}

// DateOf truncates t to midnight of its calendar day in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay is 23:59:59 in loc on the calendar date carried by date's own fields.
func EndOfDay(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, loc)
}
