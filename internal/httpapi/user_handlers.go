package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"taskora.org/internal/audit"
)

type updateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

func (a *API) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, user.Profile())
	case http.MethodPut:
		var req updateProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, validationMessage(err))
			return
		}
		updated, err := a.auth.UpdateProfile(r.Context(), user.ID, req.FullName)
		if err != nil {
			a.handleAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated.Profile())
	case http.MethodDelete:
		if err := a.auth.DeleteAccount(r.Context(), user.ID); err != nil {
			a.handleAuthError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "user.delete", map[string]any{
			"user_id": user.ID,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusNotFound, "User not found")
		return
	}

	found, err := a.auth.FindUser(r.Context(), id)
	if err != nil {
		a.handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, found.Profile())
}
