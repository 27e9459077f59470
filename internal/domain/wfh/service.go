package wfh

import (
	"context"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
)

type WFHService interface {
	SubmitRequest(ctx context.Context, userID string, req SubmitRequest) (WFHResponse, error)
	Respond(ctx context.Context, managerID, requestID string, req RespondRequest) (WFHResponse, error)

	// ListRequests returns the manager's inbox for managers and the caller's own requests otherwise.
	ListRequests(ctx context.Context, userID string, role user.Role) ([]WFHResponse, error)

	HasApprovedWFH(ctx context.Context, userID string, date time.Time) (bool, error)
}
