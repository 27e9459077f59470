package task

import "context"

type TaskService interface {
	CreateTask(ctx context.Context, managerID string, req CreateTaskRequest) (TaskResponse, error)
	ListTasks(ctx context.Context) ([]TaskResponse, error)
	AssignTask(ctx context.Context, managerID, taskID string, req AssignTaskRequest) (AssignmentResponse, error)

	ListMyAssignments(ctx context.Context, employeeID string) ([]AssignmentResponse, error)
	ListAssignments(ctx context.Context) ([]AssignmentResponse, error)
	// TeamAssignments lists assignments of everyone reporting to the caller's manager.
	TeamAssignments(ctx context.Context, employeeID string) ([]AssignmentResponse, error)
	GetReview(ctx context.Context, taskID string) ([]AssignmentResponse, error)

	CompleteTask(ctx context.Context, employeeID, taskID string) (AssignmentResponse, error)
	// ApproveTask reviews employeeID's assignment, or the earliest one when employeeID is empty.
	ApproveTask(ctx context.Context, managerID, taskID, employeeID string) (AssignmentResponse, error)
}
