package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taskora.org/internal/audit"
	"taskora.org/internal/task"
)

type itemRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (a *API) handleItems(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/items/")
	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			a.listItems(w, r, user.ID)
		case http.MethodPost:
			a.createItem(w, r, user.ID)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusNotFound, "Item not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getItem(w, r, user.ID, id)
	case http.MethodPut:
		a.updateItem(w, r, user.ID, id)
	case http.MethodDelete:
		a.deleteItem(w, r, user.ID, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createItem(w http.ResponseWriter, r *http.Request, ownerID int64) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	created, err := a.tasks.Create(r.Context(), ownerID, req.Title, req.Description)
	if err != nil {
		a.handleTaskError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "item.create", map[string]any{
		"item_id": created.ID,
	})
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) listItems(w http.ResponseWriter, r *http.Request, ownerID int64) {
	skip, err := parseNonNegativeInt(r.URL.Query().Get("skip"), 0, 1<<30)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "skip "+err.Error())
		return
	}
	limit, err := parseNonNegativeInt(r.URL.Query().Get("limit"), task.DefaultListLimit, 1000)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "limit "+err.Error())
		return
	}

	items, err := a.tasks.List(r.Context(), ownerID, skip, limit)
	if err != nil {
		a.handleTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) getItem(w http.ResponseWriter, r *http.Request, ownerID, id int64) {
	found, err := a.tasks.Get(r.Context(), ownerID, id)
	if err != nil {
		a.handleTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (a *API) updateItem(w http.ResponseWriter, r *http.Request, ownerID, id int64) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	updated, err := a.tasks.Update(r.Context(), ownerID, id, req.Title, req.Description)
	if err != nil {
		a.handleTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteItem(w http.ResponseWriter, r *http.Request, ownerID, id int64) {
	if err := a.tasks.Delete(r.Context(), ownerID, id); err != nil {
		a.handleTaskError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "item.delete", map[string]any{
		"item_id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrTitleRequired):
		writeError(w, r, http.StatusBadRequest, "Title is required")
	case errors.Is(err, task.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Item not found")
	default:
		a.log.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).
			Msg("item operation failed")
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
