package task

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 200 {
		errs.Add("title", "title must not exceed 200 characters")
	}
	r.Description = strings.TrimSpace(r.Description)

	return errs.OrNil()
}

type AssignTaskRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *AssignTaskRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	return errs.OrNil()
}

type ApproveTaskRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
}

func (r *ApproveTaskRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	return errs.OrNil()
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type AssignmentResponse struct {
	ID              string           `json:"id"`
	TaskID          string           `json:"task_id"`
	TaskTitle       string           `json:"task_title,omitempty"`
	TaskDescription string           `json:"task_description,omitempty"`
	EmployeeID      string           `json:"employee_id"`
	EmployeeName    string           `json:"employee_name,omitempty"`
	EmployeeEmail   string           `json:"employee_email,omitempty"`
	AssignedBy      string           `json:"assigned_by"`
	Status          AssignmentStatus `json:"status"`
	AssignedAt      time.Time        `json:"assigned_at"`
	CompletedDate   *time.Time       `json:"completed_date,omitempty"`
	ApprovedDate    *time.Time       `json:"approved_date,omitempty"`
}

func ToTaskResponse(t Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
	}
}

func ToAssignmentResponse(a Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:              a.ID,
		TaskID:          a.TaskID,
		TaskTitle:       a.TaskTitle,
		TaskDescription: a.TaskDescription,
		EmployeeID:      a.EmployeeID,
		EmployeeName:    a.EmployeeName,
		EmployeeEmail:   a.EmployeeEmail,
		AssignedBy:      a.AssignedBy,
		Status:          a.Status,
		AssignedAt:      a.AssignedAt,
		CompletedDate:   a.CompletedDate,
		ApprovedDate:    a.ApprovedDate,
	}
}

func ToAssignmentResponses(as []Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(as))
	for _, a := range as {
		out = append(out, ToAssignmentResponse(a))
	}
	return out
}
