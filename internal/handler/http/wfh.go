package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type WFHHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Respond(w http.ResponseWriter, r *http.Request)
}

type wfhHandlerImpl struct {
	wfhService wfh.WFHService
}

func NewWFHHandler(wfhService wfh.WFHService) WFHHandler {
	return &wfhHandlerImpl{wfhService: wfhService}
}

func (h *wfhHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req wfh.SubmitRequest
	if !decodeJSON(w, r, "Submit WFH", &req, false) {
		return
	}

	created, err := h.wfhService.SubmitRequest(r.Context(), id.UserID, req)
	if err != nil {
		slog.Info("WFH request rejected", "user_id", id.UserID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "WFH request submitted", created)
}

func (h *wfhHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	requests, err := h.wfhService.ListRequests(r.Context(), id.UserID, id.Role)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

func (h *wfhHandlerImpl) Respond(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req wfh.RespondRequest
	if !decodeJSON(w, r, "Respond WFH", &req, false) {
		return
	}

	updated, err := h.wfhService.Respond(r.Context(), id.UserID, chi.URLParam(r, "requestID"), req)
	if err != nil {
		slog.Info("WFH response rejected", "manager_id", id.UserID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "WFH request "+string(updated.Status), updated)
}
