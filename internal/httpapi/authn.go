package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"taskora.org/internal/auth"
)

const (
	authHeader   = "Authorization"
	bearerScheme = "Bearer "
)

// Paths reachable without a bearer token.
var publicPaths = []string{
	"/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/openapi.yaml",
	"/v1/info",
	"/api/v1/auth/register",
	"/api/v1/auth/login",
}

// withAuth is the sole authorization boundary: every non-public request must
// carry a valid bearer token that resolves to an existing user before any
// handler runs.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, r, http.StatusUnauthorized, "Could not validate credentials")
			default:
				a.log.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).
					Msg("token authentication failed")
				writeError(w, r, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
	})
}

// requireUser returns the guard-resolved user. The guard runs before every
// protected handler, so a miss here is a wiring bug, not a client error.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	return user, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerScheme)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
