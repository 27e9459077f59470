package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	MarkEntry(w http.ResponseWriter, r *http.Request)
	MarkExit(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	TeamMemberHistory(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

func (h *attendanceHandlerImpl) MarkEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req attendance.MarkRequest
	if !decodeJSON(w, r, "MarkEntry", &req, true) {
		return
	}

	record, err := h.attendanceService.MarkEntry(r.Context(), id.UserID, req)
	if err != nil {
		slog.Info("MarkEntry rejected", "user_id", id.UserID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Entry recorded", record)
}

func (h *attendanceHandlerImpl) MarkExit(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req attendance.MarkRequest
	if !decodeJSON(w, r, "MarkExit", &req, true) {
		return
	}

	record, err := h.attendanceService.MarkExit(r.Context(), id.UserID, req)
	if err != nil {
		slog.Info("MarkExit rejected", "user_id", id.UserID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Exit recorded", record)
}

// Today responds with null data when nothing has been recorded yet.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	record, err := h.attendanceService.GetToday(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, record)
}

func historyFilter(r *http.Request) attendance.HistoryFilter {
	return attendance.HistoryFilter{
		From:     optionalQuery(r, "from"),
		To:       optionalQuery(r, "to"),
		Page:     getIntQueryParam(r, "page", 1),
		PageSize: getIntQueryParam(r, "page_size", attendance.DefaultPageSize),
	}
}

func writeHistory(w http.ResponseWriter, list attendance.ListAttendanceResponse) {
	response.SuccessWithMeta(w, list.Records, &response.Meta{
		Page:       list.Page,
		Limit:      list.PageSize,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	list, err := h.attendanceService.History(r.Context(), id.UserID, historyFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeHistory(w, list)
}

func (h *attendanceHandlerImpl) TeamMemberHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	list, err := h.attendanceService.TeamMemberHistory(r.Context(), id.UserID, chi.URLParam(r, "employeeID"), historyFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeHistory(w, list)
}
