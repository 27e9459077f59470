package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingIdentity):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrGoogleAccountUnknown):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleDisabled):
		NotFound(w, err.Error())
	case errors.Is(err, oauth.ErrStateMismatch):
		BadRequest(w, "Invalid OAuth state", nil)
	case errors.Is(err, oauth.ErrEmailNotVerified):
		Forbidden(w, "Google email is not verified")

	// Users
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrManagerRequired), errors.Is(err, user.ErrInvalidManager):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrManagerAccessRequired), errors.Is(err, user.ErrNotTeamMember):
		Forbidden(w, err.Error())

	// Attendance
	case errors.Is(err, attendance.ErrMissingLocation):
		Error(w, http.StatusBadRequest, "MISSING_LOCATION", err.Error())
	case errors.Is(err, attendance.ErrOutsideGeofence):
		Error(w, http.StatusBadRequest, "OUTSIDE_GEOFENCE", err.Error())
	case errors.Is(err, attendance.ErrAlreadyMarked):
		Error(w, http.StatusConflict, "ALREADY_MARKED", err.Error())
	case errors.Is(err, attendance.ErrNoEntryFound):
		Error(w, http.StatusConflict, "NO_ENTRY_FOUND", err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// WFH
	case errors.Is(err, wfh.ErrInvalidDecision):
		Error(w, http.StatusBadRequest, "INVALID_DECISION", err.Error())
	case errors.Is(err, wfh.ErrNoManagerAssigned), errors.Is(err, task.ErrNoManagerAssigned):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, wfh.ErrDuplicateRequest):
		Error(w, http.StatusConflict, "DUPLICATE_REQUEST", err.Error())
	case errors.Is(err, wfh.ErrAlreadyProcessed):
		Error(w, http.StatusConflict, "ALREADY_PROCESSED", err.Error())
	case errors.Is(err, wfh.ErrRequestNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, wfh.ErrForbidden):
		Forbidden(w, err.Error())

	// Tasks
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, task.ErrAssignmentNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, task.ErrInvalidEmployee):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, task.ErrSelfReview):
		Forbidden(w, err.Error())
	case errors.Is(err, task.ErrAlreadyAssigned):
		Error(w, http.StatusConflict, "ALREADY_ASSIGNED", err.Error())
	case errors.Is(err, task.ErrNotPending):
		Error(w, http.StatusConflict, "NOT_PENDING", err.Error())
	case errors.Is(err, task.ErrNotPendingReview):
		Error(w, http.StatusConflict, "NOT_PENDING_REVIEW", err.Error())
	case errors.Is(err, task.ErrStatusChanged):
		Conflict(w, err.Error())

	// Notifications
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, err.Error())

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
