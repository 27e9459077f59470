package wfh

import (
	"context"
	"time"
)

type WFHRequestRepository interface {
	// Create returns ErrDuplicateRequest when (user, date) already has a request.
	Create(ctx context.Context, req WFHRequest) (WFHRequest, error)
	GetByID(ctx context.Context, id string) (WFHRequest, error)

	// Respond moves a Pending request to status. Returns ErrAlreadyProcessed when it is no longer Pending.
	Respond(ctx context.Context, id string, status Status, respondedAt time.Time) (WFHRequest, error)

	ListByManager(ctx context.Context, managerID string) ([]WFHRequest, error)
	// ListByUser returns newest first; limit <= 0 returns everything.
	ListByUser(ctx context.Context, userID string, limit int) ([]WFHRequest, error)

	GetStatusForDate(ctx context.Context, userID string, date time.Time) (*Status, error)
	CountPendingByManager(ctx context.Context, managerID string) (int, error)
}
