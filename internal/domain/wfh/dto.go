package wfh

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

const maxReasonLength = 1000

type SubmitRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`

	parsedDate time.Time
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if d, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else {
		r.parsedDate = d
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > maxReasonLength {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.OrNil()
}

// ParsedDate is valid after a successful Validate.
func (r *SubmitRequest) ParsedDate() time.Time {
	return r.parsedDate
}

type RespondRequest struct {
	Status Status `json:"status"`
}

func (r *RespondRequest) Validate() error {
	if !r.Status.IsDecision() {
		return ErrInvalidDecision
	}
	return nil
}

type WFHResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	ManagerID    string     `json:"manager_id"`
	Date         string     `json:"date"`
	Reason       string     `json:"reason"`
	Status       Status     `json:"status"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToResponse(r WFHRequest) WFHResponse {
	return WFHResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		EmployeeName: r.EmployeeName,
		ManagerID:    r.ManagerID,
		Date:         r.Date.Format(validator.DateLayout),
		Reason:       r.Reason,
		Status:       r.Status,
		RespondedAt:  r.RespondedAt,
		CreatedAt:    r.CreatedAt,
	}
}

func ToResponses(reqs []WFHRequest) []WFHResponse {
	out := make([]WFHResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, ToResponse(r))
	}
	return out
}
