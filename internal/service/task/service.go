package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

var _ task.TaskService = (*TaskServiceImpl)(nil)

type TaskServiceImpl struct {
	tasks       task.TaskRepository
	assignments task.AssignmentRepository
	users       user.UserRepository
	notifier    notification.Notifier
	now         func() time.Time
}

func NewTaskService(taskRepository task.TaskRepository, assignmentRepository task.AssignmentRepository, userRepository user.UserRepository, notifier notification.Notifier) *TaskServiceImpl {
	return &TaskServiceImpl{
		tasks:       taskRepository,
		assignments: assignmentRepository,
		users:       userRepository,
		notifier:    notifier,
		now:         time.Now,
	}
}

// CreateTask implements task.TaskService.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, managerID string, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	created, err := s.tasks.Create(ctx, task.Task{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   managerID,
	})
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task.ToTaskResponse(created), nil
}

// ListTasks implements task.TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context) ([]task.TaskResponse, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	out := make([]task.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, task.ToTaskResponse(t))
	}
	return out, nil
}

func (s *TaskServiceImpl) getTask(ctx context.Context, taskID string) (task.Task, error) {
	if !validator.IsValidUUID(taskID) {
		return task.Task{}, task.ErrTaskNotFound
	}
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return task.Task{}, err
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// AssignTask implements task.TaskService.
func (s *TaskServiceImpl) AssignTask(ctx context.Context, managerID, taskID string, req task.AssignTaskRequest) (task.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return task.AssignmentResponse{}, err
	}

	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return task.AssignmentResponse{}, err
	}

	employee, err := s.users.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return task.AssignmentResponse{}, task.ErrInvalidEmployee
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if employee.Role != user.RoleEmployee {
		return task.AssignmentResponse{}, task.ErrInvalidEmployee
	}

	created, err := s.assignments.Create(ctx, task.Assignment{
		TaskID:     t.ID,
		EmployeeID: employee.ID,
		AssignedBy: managerID,
		Status:     task.StatusPending,
	})
	if err != nil {
		if errors.Is(err, task.ErrAlreadyAssigned) {
			return task.AssignmentResponse{}, err
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to assign task: %w", err)
	}
	created.TaskTitle = t.Title
	created.TaskDescription = t.Description
	created.EmployeeName = employee.Name
	created.EmployeeEmail = employee.Email

	s.notify(ctx, employee.ID, managerID, notification.TypeTaskAssigned, "New task assigned",
		fmt.Sprintf("You have been assigned %q", t.Title), created)

	return task.ToAssignmentResponse(created), nil
}

// ListMyAssignments implements task.TaskService.
func (s *TaskServiceImpl) ListMyAssignments(ctx context.Context, employeeID string) ([]task.AssignmentResponse, error) {
	as, err := s.assignments.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return task.ToAssignmentResponses(as), nil
}

// ListAssignments implements task.TaskService.
func (s *TaskServiceImpl) ListAssignments(ctx context.Context) ([]task.AssignmentResponse, error) {
	as, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return task.ToAssignmentResponses(as), nil
}

// TeamAssignments implements task.TaskService.
func (s *TaskServiceImpl) TeamAssignments(ctx context.Context, employeeID string) ([]task.AssignmentResponse, error) {
	me, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !me.HasManager() {
		return nil, task.ErrNoManagerAssigned
	}

	team, err := s.users.ListByManager(ctx, *me.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	ids := make([]string, 0, len(team))
	for _, member := range team {
		ids = append(ids, member.ID)
	}

	as, err := s.assignments.ListByEmployees(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list team assignments: %w", err)
	}
	return task.ToAssignmentResponses(as), nil
}

// GetReview implements task.TaskService.
func (s *TaskServiceImpl) GetReview(ctx context.Context, taskID string) ([]task.AssignmentResponse, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}
	as, err := s.assignments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task assignments: %w", err)
	}
	return task.ToAssignmentResponses(as), nil
}

// CompleteTask implements task.TaskService.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, employeeID, taskID string) (task.AssignmentResponse, error) {
	if !validator.IsValidUUID(taskID) {
		return task.AssignmentResponse{}, task.ErrAssignmentNotFound
	}

	a, err := s.assignments.Get(ctx, taskID, employeeID)
	if err != nil {
		if errors.Is(err, task.ErrAssignmentNotFound) {
			return task.AssignmentResponse{}, err
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	if a.Status != task.StatusPending {
		return task.AssignmentResponse{}, task.ErrNotPending
	}

	updated, err := s.assignments.Transition(ctx, a.ID, task.StatusPending, task.StatusPendingReview, s.now())
	if err != nil {
		if errors.Is(err, task.ErrStatusChanged) {
			return task.AssignmentResponse{}, task.ErrNotPending
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to complete task: %w", err)
	}

	s.notify(ctx, updated.AssignedBy, employeeID, notification.TypeTaskCompleted, "Task ready for review",
		fmt.Sprintf("%s marked %q as complete", updated.EmployeeName, updated.TaskTitle), updated)

	return task.ToAssignmentResponse(updated), nil
}

// ApproveTask implements task.TaskService.
func (s *TaskServiceImpl) ApproveTask(ctx context.Context, managerID, taskID, employeeID string) (task.AssignmentResponse, error) {
	if !validator.IsValidUUID(taskID) {
		return task.AssignmentResponse{}, task.ErrAssignmentNotFound
	}

	var (
		a   task.Assignment
		err error
	)
	if employeeID == "" {
		a, err = s.assignments.GetEarliest(ctx, taskID)
	} else {
		a, err = s.assignments.Get(ctx, taskID, employeeID)
	}
	if err != nil {
		if errors.Is(err, task.ErrAssignmentNotFound) {
			return task.AssignmentResponse{}, err
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to get assignment: %w", err)
	}

	if a.EmployeeID == managerID {
		return task.AssignmentResponse{}, task.ErrSelfReview
	}
	if a.Status != task.StatusPendingReview {
		return task.AssignmentResponse{}, task.ErrNotPendingReview
	}

	updated, err := s.assignments.Transition(ctx, a.ID, task.StatusPendingReview, task.StatusApproved, s.now())
	if err != nil {
		if errors.Is(err, task.ErrStatusChanged) {
			return task.AssignmentResponse{}, task.ErrNotPendingReview
		}
		return task.AssignmentResponse{}, fmt.Errorf("failed to approve task: %w", err)
	}

	s.notify(ctx, updated.EmployeeID, managerID, notification.TypeTaskApproved, "Task approved",
		fmt.Sprintf("%q was approved", updated.TaskTitle), updated)

	return task.ToAssignmentResponse(updated), nil
}

func (s *TaskServiceImpl) notify(ctx context.Context, recipientID, senderID string, notifType notification.NotificationType, title, message string, a task.Assignment) {
	if recipientID == "" {
		return
	}
	err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: recipientID,
		SenderID:    &senderID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		Data: map[string]interface{}{
			"task_id":       a.TaskID,
			"assignment_id": a.ID,
			"status":        string(a.Status),
		},
	})
	if err != nil {
		slog.Warn("Failed to queue task notification", "type", notifType, "assignment_id", a.ID, "error", err)
	}
}
