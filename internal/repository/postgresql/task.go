package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type taskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepository{db: db}
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

// Create implements task.TaskRepository.
func (r *taskRepository) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (title, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, created_by, created_at
	`
	created, err := scanTask(q.QueryRow(ctx, query, t.Title, t.Description, t.CreatedBy))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepository) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)
	return scanTask(q.QueryRow(ctx, `SELECT id, title, description, created_by, created_at FROM tasks WHERE id = $1`, id))
}

// List implements task.TaskRepository.
func (r *taskRepository) List(ctx context.Context) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, title, description, created_by, created_at FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

const assignmentSelect = `
	SELECT a.id, a.task_id, a.employee_id, a.assigned_by, a.status, a.assigned_at,
		   a.completed_date, a.approved_date, t.title, t.description, u.name, u.email
	FROM task_assignments a
	JOIN tasks t ON t.id = a.task_id
	JOIN users u ON u.id = a.employee_id`

type assignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) task.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func scanAssignment(row pgx.Row) (task.Assignment, error) {
	var a task.Assignment
	err := row.Scan(
		&a.ID, &a.TaskID, &a.EmployeeID, &a.AssignedBy, &a.Status, &a.AssignedAt,
		&a.CompletedDate, &a.ApprovedDate, &a.TaskTitle, &a.TaskDescription, &a.EmployeeName, &a.EmployeeEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Assignment{}, task.ErrAssignmentNotFound
		}
		return task.Assignment{}, err
	}
	return a, nil
}

func (r *assignmentRepository) list(ctx context.Context, query string, args ...any) ([]task.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []task.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// byID re-reads an assignment with its joined columns.
func (r *assignmentRepository) byID(ctx context.Context, id string) (task.Assignment, error) {
	q := GetQuerier(ctx, r.db)
	return scanAssignment(q.QueryRow(ctx, assignmentSelect+` WHERE a.id = $1`, id))
}

// Create implements task.AssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, a task.Assignment) (task.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO task_assignments (task_id, employee_id, assigned_by, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (task_id, employee_id) DO NOTHING
		RETURNING id`,
		a.TaskID, a.EmployeeID, a.AssignedBy, task.StatusPending,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Assignment{}, task.ErrAlreadyAssigned
		}
		return task.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}
	return r.byID(ctx, id)
}

// Get implements task.AssignmentRepository.
func (r *assignmentRepository) Get(ctx context.Context, taskID, employeeID string) (task.Assignment, error) {
	q := GetQuerier(ctx, r.db)
	return scanAssignment(q.QueryRow(ctx, assignmentSelect+` WHERE a.task_id = $1 AND a.employee_id = $2`, taskID, employeeID))
}

// GetEarliest implements task.AssignmentRepository.
func (r *assignmentRepository) GetEarliest(ctx context.Context, taskID string) (task.Assignment, error) {
	q := GetQuerier(ctx, r.db)
	return scanAssignment(q.QueryRow(ctx, assignmentSelect+` WHERE a.task_id = $1 ORDER BY a.assigned_at, a.id LIMIT 1`, taskID))
}

// Transition implements task.AssignmentRepository.
func (r *assignmentRepository) Transition(ctx context.Context, id string, from, to task.AssignmentStatus, at time.Time) (task.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	var updatedID string
	err := q.QueryRow(ctx, `
		UPDATE task_assignments SET
			status         = $3,
			completed_date = CASE WHEN $3 = 'pending_review' THEN $4 ELSE completed_date END,
			approved_date  = CASE WHEN $3 = 'approved' THEN $4 ELSE approved_date END
		WHERE id = $1 AND status = $2
		RETURNING id`,
		id, from, to, at,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Assignment{}, task.ErrStatusChanged
		}
		return task.Assignment{}, fmt.Errorf("failed to update assignment status: %w", err)
	}
	return r.byID(ctx, updatedID)
}

// ListByTask implements task.AssignmentRepository.
func (r *assignmentRepository) ListByTask(ctx context.Context, taskID string) ([]task.Assignment, error) {
	return r.list(ctx, assignmentSelect+` WHERE a.task_id = $1 ORDER BY a.assigned_at`, taskID)
}

// ListByEmployee implements task.AssignmentRepository.
func (r *assignmentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]task.Assignment, error) {
	return r.list(ctx, assignmentSelect+` WHERE a.employee_id = $1 ORDER BY a.assigned_at DESC`, employeeID)
}

// ListByEmployees implements task.AssignmentRepository.
func (r *assignmentRepository) ListByEmployees(ctx context.Context, employeeIDs []string) ([]task.Assignment, error) {
	if len(employeeIDs) == 0 {
		return []task.Assignment{}, nil
	}
	return r.list(ctx, assignmentSelect+` WHERE a.employee_id = ANY($1::uuid[]) ORDER BY a.assigned_at DESC`, employeeIDs)
}

// ListAll implements task.AssignmentRepository.
func (r *assignmentRepository) ListAll(ctx context.Context) ([]task.Assignment, error) {
	return r.list(ctx, assignmentSelect+` ORDER BY a.assigned_at DESC`)
}

// CountByEmployeeAndStatus implements task.AssignmentRepository.
func (r *assignmentRepository) CountByEmployeeAndStatus(ctx context.Context, employeeID string, status task.AssignmentStatus) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM task_assignments WHERE employee_id = $1 AND status = $2`,
		employeeID, status).Scan(&n)
	return n, err
}

// CountAwaitingReview implements task.AssignmentRepository.
func (r *assignmentRepository) CountAwaitingReview(ctx context.Context, managerID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM task_assignments a
		JOIN users u ON u.id = a.employee_id
		WHERE u.manager_id = $1 AND a.status = $2`,
		managerID, task.StatusPendingReview).Scan(&n)
	return n, err
}
