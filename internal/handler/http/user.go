package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	ListManagers(w http.ResponseWriter, r *http.Request)
	ListMyEmployees(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

func (h *userHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	profile, err := h.userService.GetProfile(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

// ListManagers is public so the registration form can offer a manager picker.
func (h *userHandlerImpl) ListManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.userService.ListManagers(r.Context())
	if err != nil {
		slog.Error("ListManagers service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, managers)
}

func (h *userHandlerImpl) ListMyEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	employees, err := h.userService.ListMyEmployees(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employees)
}
