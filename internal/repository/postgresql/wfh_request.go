package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const wfhColumns = `
	w.id, w.user_id, w.manager_id, w.date, w.reason, w.status, w.responded_at,
	w.created_at, w.updated_at, u.name, u.email`

type wfhRequestRepository struct {
	db *database.DB
}

func NewWFHRequestRepository(db *database.DB) wfh.WFHRequestRepository {
	return &wfhRequestRepository{db: db}
}

func scanWFHRequest(row pgx.Row) (wfh.WFHRequest, error) {
	var r wfh.WFHRequest
	err := row.Scan(
		&r.ID, &r.UserID, &r.ManagerID, &r.Date, &r.Reason, &r.Status, &r.RespondedAt,
		&r.CreatedAt, &r.UpdatedAt, &r.EmployeeName, &r.EmployeeEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wfh.WFHRequest{}, wfh.ErrRequestNotFound
		}
		return wfh.WFHRequest{}, err
	}
	return r, nil
}

func (r *wfhRequestRepository) list(ctx context.Context, query string, args ...any) ([]wfh.WFHRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []wfh.WFHRequest{}
	for rows.Next() {
		req, err := scanWFHRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan WFH request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Create implements wfh.WFHRequestRepository.
func (r *wfhRequestRepository) Create(ctx context.Context, req wfh.WFHRequest) (wfh.WFHRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH w AS (
			INSERT INTO wfh_requests (user_id, manager_id, date, reason, status)
			VALUES ($1, $2, $3::date, $4, $5)
			ON CONFLICT (user_id, date) DO NOTHING
			RETURNING *
		)
		SELECT ` + wfhColumns + ` FROM w JOIN users u ON u.id = w.user_id`

	created, err := scanWFHRequest(q.QueryRow(ctx, query,
		req.UserID, req.ManagerID, dateParam(req.Date), req.Reason, wfh.StatusPending,
	))
	if err != nil {
		if errors.Is(err, wfh.ErrRequestNotFound) {
			return wfh.WFHRequest{}, wfh.ErrDuplicateRequest
		}
		return wfh.WFHRequest{}, fmt.Errorf("failed to create WFH request: %w", err)
	}
	return created, nil
}

// GetByID implements wfh.WFHRequestRepository.
func (r *wfhRequestRepository) GetByID(ctx context.Context, id string) (wfh.WFHRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + wfhColumns + ` FROM wfh_requests w JOIN users u ON u.id = w.user_id WHERE w.id = $1`
	return scanWFHRequest(q.QueryRow(ctx, query, id))
}

// Respond implements wfh.WFHRequestRepository.
func (r *wfhRequestRepository) Respond(ctx context.Context, id string, status wfh.Status, respondedAt time.Time) (wfh.WFHRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH w AS (
			UPDATE wfh_requests
			SET status = $2, responded_at = $3, updated_at = NOW()
			WHERE id = $1 AND status = $4
			RETURNING *
		)
		SELECT ` + wfhColumns + ` FROM w JOIN users u ON u.id = w.user_id`

	updated, err := scanWFHRequest(q.QueryRow(ctx, query, id, status, respondedAt, wfh.StatusPending))
	if err != nil {
		if errors.Is(err, wfh.ErrRequestNotFound) {
			return wfh.WFHRequest{}, wfh.ErrAlreadyProcessed
		}
		return wfh.WFHRequest{}, fmt.Errorf("failed to respond to WFH request: %w", err)
	}
	return updated, nil
}

// ListByManager implements wfh.WFHRequestRepository.
func (r *wfhRequestRepository) ListByManager(ctx context.Context, managerID string) ([]wfh.WFHRequest, error) {
	query := `SELECT ` + wfhColumns + `
		FROM wfh_requests w JOIN users u ON u.id = w.user_id
		WHERE w.manager_id = $1
		ORDER BY w.created_at DESC`
	return r.list(ctx, query, managerID)
}

// ListByUser implements wfh.WFHRequestRepository.
func (r *wfhRequestRepository) ListByUser(ctx context.Context, userID string, limit int) ([]wfh.WFHRequest, error) {
	query := `SELECT ` + wfhColumns + `
		FROM wfh_requests w JOIN users u ON u.id = w.user_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`
	if limit > 0 {
		return r.list(ctx, query+` LIMIT $2`, userID, limit)
	}
	return r.list(ctx, query, userID)
}

// GetStatusForDate implements wfh.WFHRequestRepository. Returns nil when no request exists.
func (r *wfhRequestRepository) GetStatusForDate(ctx context.Context, userID string, date time.Time) (*wfh.Status, error) {
	q := GetQuerier(ctx, r.db)

	var status wfh.Status
	err := q.QueryRow(ctx, `SELECT status FROM wfh_requests WHERE user_id = $1 AND date = $2::date`,
		userID, dateParam(date)).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get WFH status: %w", err)
	}
	return &status, nil
}

// CountPendingByManager implements wfh.WFHRequestRepository.
func (r *wfhRequestRepository) CountPendingByManager(ctx context.Context, managerID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM wfh_requests WHERE manager_id = $1 AND status = $2`,
		managerID, wfh.StatusPending).Scan(&n)
	return n, err
}
