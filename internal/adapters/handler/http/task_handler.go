package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}

	var input ports.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	task, err := h.service.Create(r.Context(), user.ID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}

	tasks, err := h.service.List(r.Context(), user.ID, listFilterFromQuery(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), user.ID, taskID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	task, err := h.service.Patch(r.Context(), user.ID, taskID, payload)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.service.Delete(r.Context(), user.ID, taskID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// taskRequest pulls the authenticated user and the {id} route param. A
// malformed id cannot possibly match a record, so it answers 404 rather
// than leaking parse details.
func (h *TaskHandler) taskRequest(w http.ResponseWriter, r *http.Request) (*domain.User, uuid.UUID, bool) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return nil, uuid.Nil, false
	}
	return user, taskID, true
}

// listFilterFromQuery parses ?completed=&sortBy=field:asc|desc&limit=&skip=.
// Unparseable or negative limit/skip values are treated as absent.
func listFilterFromQuery(r *http.Request) ports.TaskListFilter {
	query := r.URL.Query()
	filter := ports.TaskListFilter{}

	if v := query.Get("completed"); v != "" {
		if completed, err := strconv.ParseBool(v); err == nil {
			filter.Completed = &completed
		}
	}

	if v := query.Get("sortBy"); v != "" {
		field, direction, _ := strings.Cut(v, ":")
		filter.SortField = field
		filter.SortDesc = direction == "desc"
	}

	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(query.Get("skip")); err == nil && v > 0 {
		filter.Skip = v
	}

	return filter
}
