package http

import (
	"net/http"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TaskHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	ListAssigned(w http.ResponseWriter, r *http.Request)
	MyTasks(w http.ResponseWriter, r *http.Request)
	TeamTasks(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	taskService task.TaskService
}

func NewTaskHandler(taskService task.TaskService) TaskHandler {
	return &taskHandlerImpl{taskService: taskService}
}

func (h *taskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req task.CreateTaskRequest
	if !decodeJSON(w, r, "Create Task", &req, false) {
		return
	}
	created, err := h.taskService.CreateTask(r.Context(), id.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Task created", created)
}

func (h *taskHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, tasks)
}

func (h *taskHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req task.AssignTaskRequest
	if !decodeJSON(w, r, "Assign Task", &req, false) {
		return
	}
	assignment, err := h.taskService.AssignTask(r.Context(), id.UserID, chi.URLParam(r, "taskID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Task assigned", assignment)
}

func (h *taskHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	assignment, err := h.taskService.CompleteTask(r.Context(), id.UserID, chi.URLParam(r, "taskID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Task submitted for review", assignment)
}

func (h *taskHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req task.ApproveTaskRequest
	if !decodeJSON(w, r, "Approve Task", &req, true) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	assignment, err := h.taskService.ApproveTask(r.Context(), id.UserID, chi.URLParam(r, "taskID"), req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Task approved", assignment)
}

func (h *taskHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.taskService.GetReview(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, assignments)
}

func (h *taskHandlerImpl) ListAssigned(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.taskService.ListAssignments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, assignments)
}

func (h *taskHandlerImpl) MyTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	assignments, err := h.taskService.ListMyAssignments(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, assignments)
}

func (h *taskHandlerImpl) TeamTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	assignments, err := h.taskService.TeamAssignments(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, assignments)
}
