package attendance

import (
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MarkRequest carries the caller's position. Location may be omitted on approved WFH days.
type MarkRequest struct {
	Location *geo.Point `json:"location"`
}

func (r *MarkRequest) Validate() error {
	if r.Location == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !validator.IsValidLatitude(r.Location.Latitude) {
		errs.Add("location.latitude", "latitude must be between -90 and 90")
	}
	if !validator.IsValidLongitude(r.Location.Longitude) {
		errs.Add("location.longitude", "longitude must be between -180 and 180")
	}
	return errs.OrNil()
}

type HistoryFilter struct {
	From     *string
	To       *string
	Page     int
	PageSize int
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors
	var from, to time.Time
	var okFrom, okTo bool
	if f.From != nil {
		if from, okFrom = validator.IsValidDate(*f.From); !okFrom {
			errs.Add("from", "must be a date in YYYY-MM-DD format")
		}
	}
	if f.To != nil {
		if to, okTo = validator.IsValidDate(*f.To); !okTo {
			errs.Add("to", "must be a date in YYYY-MM-DD format")
		}
	}
	if okFrom && okTo && to.Before(from) {
		errs.Add("to", "must not be before from")
	}
	if f.Page < 0 {
		errs.Add("page", "must be positive")
	}
	if f.PageSize < 0 || f.PageSize > MaxPageSize {
		errs.Add("page_size", "must be between 1 and 100")
	}
	if err := errs.OrNil(); err != nil {
		return err
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	return nil
}

func (f HistoryFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type AttendanceResponse struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	Date                 string     `json:"date"`
	EntryTime            *time.Time `json:"entry_time,omitempty"`
	ExitTime             *time.Time `json:"exit_time,omitempty"`
	EntryLocation        geo.Point  `json:"entry_location"`
	ExitLocation         geo.Point  `json:"exit_location"`
	TotalDurationMinutes int        `json:"total_duration"`
	Status               Status     `json:"status"`
	IsWFH                bool       `json:"is_wfh"`
	AutoEntry            bool       `json:"auto_entry"`
	AutoExit             bool       `json:"auto_exit"`
}

type ListAttendanceResponse struct {
	Records    []AttendanceResponse `json:"records"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                   a.ID,
		UserID:               a.UserID,
		Date:                 a.Date.Format(validator.DateLayout),
		EntryTime:            a.EntryTime,
		ExitTime:             a.ExitTime,
		EntryLocation:        a.EntryLocation,
		ExitLocation:         a.ExitLocation,
		TotalDurationMinutes: a.TotalDurationMinutes,
		Status:               a.Status,
		IsWFH:                a.IsWFH,
		AutoEntry:            a.AutoEntry,
		AutoExit:             a.AutoExit,
	}
}

func NewListResponse(records []Attendance, total int64, filter HistoryFilter) ListAttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToResponse(r))
	}
	totalPages := 0
	if filter.PageSize > 0 {
		totalPages = int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	}
	return ListAttendanceResponse{
		Records:    out,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}
}
