package attendance

import "errors"

var (
	ErrMissingLocation    = errors.New("location data is required")
	ErrOutsideGeofence    = errors.New("you are outside office premises")
	ErrAlreadyMarked      = errors.New("attendance already marked")
	ErrNoEntryFound       = errors.New("no entry found for today")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
