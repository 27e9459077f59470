package wfh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

var _ wfh.WFHService = (*WFHServiceImpl)(nil)

type WFHServiceImpl struct {
	wfh.WFHRequestRepository
	user.UserRepository
	notifier notification.Notifier
	now      func() time.Time
}

func NewWFHService(wfhRepository wfh.WFHRequestRepository, userRepository user.UserRepository, notifier notification.Notifier) *WFHServiceImpl {
	return &WFHServiceImpl{
		WFHRequestRepository: wfhRepository,
		UserRepository:       userRepository,
		notifier:             notifier,
		now:                  time.Now,
	}
}

// SubmitRequest implements wfh.WFHService.
func (s *WFHServiceImpl) SubmitRequest(ctx context.Context, userID string, req wfh.SubmitRequest) (wfh.WFHResponse, error) {
	if err := req.Validate(); err != nil {
		return wfh.WFHResponse{}, err
	}

	requester, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return wfh.WFHResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}

	// a duplicate is reported before a missing manager; the insert still guards the race
	existing, err := s.WFHRequestRepository.GetStatusForDate(ctx, requester.ID, req.ParsedDate())
	if err != nil {
		return wfh.WFHResponse{}, fmt.Errorf("failed to check existing WFH request: %w", err)
	}
	if existing != nil {
		return wfh.WFHResponse{}, wfh.ErrDuplicateRequest
	}

	if !requester.HasManager() {
		return wfh.WFHResponse{}, wfh.ErrNoManagerAssigned
	}

	created, err := s.WFHRequestRepository.Create(ctx, wfh.WFHRequest{
		UserID:    requester.ID,
		ManagerID: *requester.ManagerID,
		Date:      req.ParsedDate(),
		Reason:    req.Reason,
		Status:    wfh.StatusPending,
	})
	if err != nil {
		if errors.Is(err, wfh.ErrDuplicateRequest) {
			return wfh.WFHResponse{}, err
		}
		return wfh.WFHResponse{}, fmt.Errorf("failed to create WFH request: %w", err)
	}
	created.EmployeeName = requester.Name

	s.notifyManager(ctx, requester, created)

	return wfh.ToResponse(created), nil
}

func (s *WFHServiceImpl) notifyManager(ctx context.Context, requester user.User, req wfh.WFHRequest) {
	manager, err := s.UserRepository.GetByID(ctx, req.ManagerID)
	if err != nil {
		slog.Warn("Failed to load manager for WFH notification", "manager_id", req.ManagerID, "error", err)
		return
	}

	date := req.Date.Format(validator.DateLayout)
	err = s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID:    manager.ID,
		RecipientEmail: manager.Email,
		RecipientName:  manager.Name,
		SenderID:       &requester.ID,
		Type:           notification.TypeWFHRequested,
		Title:          "New WFH request",
		Message:        fmt.Sprintf("%s requested to work from home on %s", requester.Name, date),
		Data: map[string]interface{}{
			"request_id":    req.ID,
			"employee_name": requester.Name,
			"date":          date,
			"reason":        req.Reason,
		},
	})
	if err != nil {
		slog.Warn("Failed to queue WFH request notification", "request_id", req.ID, "error", err)
	}
}

// Respond implements wfh.WFHService.
func (s *WFHServiceImpl) Respond(ctx context.Context, managerID, requestID string, req wfh.RespondRequest) (wfh.WFHResponse, error) {
	if err := req.Validate(); err != nil {
		return wfh.WFHResponse{}, err
	}
	if !validator.IsValidUUID(requestID) {
		return wfh.WFHResponse{}, wfh.ErrRequestNotFound
	}

	existing, err := s.WFHRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, wfh.ErrRequestNotFound) {
			return wfh.WFHResponse{}, err
		}
		return wfh.WFHResponse{}, fmt.Errorf("failed to get WFH request: %w", err)
	}
	if existing.ManagerID != managerID {
		return wfh.WFHResponse{}, wfh.ErrForbidden
	}
	if existing.Status != wfh.StatusPending {
		return wfh.WFHResponse{}, wfh.ErrAlreadyProcessed
	}

	updated, err := s.WFHRequestRepository.Respond(ctx, requestID, req.Status, s.now())
	if err != nil {
		if errors.Is(err, wfh.ErrAlreadyProcessed) {
			return wfh.WFHResponse{}, err
		}
		return wfh.WFHResponse{}, fmt.Errorf("failed to respond to WFH request: %w", err)
	}

	s.notifyEmployee(ctx, managerID, updated)

	return wfh.ToResponse(updated), nil
}

func (s *WFHServiceImpl) notifyEmployee(ctx context.Context, managerID string, req wfh.WFHRequest) {
	employee, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		slog.Warn("Failed to load employee for WFH notification", "user_id", req.UserID, "error", err)
		return
	}

	notifType := notification.TypeWFHApproved
	if req.Status == wfh.StatusRejected {
		notifType = notification.TypeWFHRejected
	}
	date := req.Date.Format(validator.DateLayout)
	err = s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID:    employee.ID,
		RecipientEmail: employee.Email,
		RecipientName:  employee.Name,
		SenderID:       &managerID,
		Type:           notifType,
		Title:          fmt.Sprintf("WFH request %s", req.Status),
		Message:        fmt.Sprintf("Your WFH request for %s was %s", date, req.Status),
		Data: map[string]interface{}{
			"request_id": req.ID,
			"date":       date,
			"status":     string(req.Status),
		},
	})
	if err != nil {
		slog.Warn("Failed to queue WFH decision notification", "request_id", req.ID, "error", err)
	}
}

// ListRequests implements wfh.WFHService.
func (s *WFHServiceImpl) ListRequests(ctx context.Context, userID string, role user.Role) ([]wfh.WFHResponse, error) {
	var (
		reqs []wfh.WFHRequest
		err  error
	)
	if role == user.RoleManager {
		reqs, err = s.WFHRequestRepository.ListByManager(ctx, userID)
	} else {
		reqs, err = s.WFHRequestRepository.ListByUser(ctx, userID, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list WFH requests: %w", err)
	}
	return wfh.ToResponses(reqs), nil
}

// HasApprovedWFH implements wfh.WFHService.
func (s *WFHServiceImpl) HasApprovedWFH(ctx context.Context, userID string, date time.Time) (bool, error) {
	status, err := s.WFHRequestRepository.GetStatusForDate(ctx, userID, date)
	if err != nil {
		return false, err
	}
	return status != nil && *status == wfh.StatusApproved, nil
}
