package httpapi

import (
	"errors"
	"net/http"

	"taskora.org/internal/audit"
	"taskora.org/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=50,password_bytes"`
}

type registerResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        auth.Profile `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	user, err := a.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		a.handleAuthError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	writeJSON(w, http.StatusCreated, registerResponse{ID: user.ID, Email: user.Email})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	sess, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.handleAuthError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id": sess.User.ID,
	})
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		User:        sess.User.Profile(),
	})
}

// handleAuthError maps auth core errors onto the wire. Policy and conflict
// messages go to the client verbatim; anything unexpected is logged with
// detail and collapsed to a generic response.
func (a *API) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, r, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, r, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, r, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "User not found")
	default:
		a.log.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).
			Msg("auth operation failed")
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
