package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"taskora.org/internal/auth"
	"taskora.org/internal/task"
)

type fakeUserStore struct {
	nextID int64
	users  map[string]*auth.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[string]*auth.User)}
}

func (s *fakeUserStore) Create(_ context.Context, u *auth.User) error {
	if _, ok := s.users[u.Email]; ok {
		return auth.ErrEmailTaken
	}
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	s.users[u.Email] = &clone
	return nil
}

func (s *fakeUserStore) Find(_ context.Context, id int64) (*auth.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) Update(_ context.Context, u *auth.User) error {
	stored, ok := s.users[u.Email]
	if !ok {
		return auth.ErrNotFound
	}
	stored.FullName = u.FullName
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int64) error {
	for email, u := range s.users {
		if u.ID == id {
			delete(s.users, email)
			return nil
		}
	}
	return auth.ErrNotFound
}

type fakeTaskStore struct {
	nextID int64
	tasks  map[int64]*task.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{nextID: 1, tasks: make(map[int64]*task.Task)}
}

func (s *fakeTaskStore) Create(_ context.Context, t *task.Task) error {
	t.ID = s.nextID
	s.nextID++
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	clone := *t
	s.tasks[t.ID] = &clone
	return nil
}

func (s *fakeTaskStore) FindByOwner(_ context.Context, id, ownerID int64) (*task.Task, error) {
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, task.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *fakeTaskStore) ListByOwner(_ context.Context, ownerID int64, offset, limit int) ([]*task.Task, error) {
	var owned []*task.Task
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			clone := *t
			owned = append(owned, &clone)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (s *fakeTaskStore) Update(_ context.Context, t *task.Task) error {
	stored, ok := s.tasks[t.ID]
	if !ok || stored.OwnerID != t.OwnerID {
		return task.ErrNotFound
	}
	stored.Title = t.Title
	stored.Description = t.Description
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *fakeTaskStore) DeleteByOwner(_ context.Context, id, ownerID int64) error {
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return task.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// newTestAPI builds an API over in-memory stores with a per-test signing
// secret.
func newTestAPI(t *testing.T, ttl time.Duration) *API {
	t.Helper()
	return buildTestAPI(t, ttl, Config{Version: "test"})
}

func newTestAPIWithConfig(t *testing.T, cfg Config) *API {
	t.Helper()
	return buildTestAPI(t, 0, cfg)
}

func buildTestAPI(t *testing.T, ttl time.Duration, cfg Config) *API {
	t.Helper()
	issuer, err := auth.NewTokenIssuer([]byte("test-secret-"+t.Name()), ttl)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	authSvc := auth.NewService(newFakeUserStore(), auth.NewHasher(), issuer, zerolog.Nop())
	taskSvc := task.NewService(newFakeTaskStore())
	return New(authSvc, taskSvc, ReadyProbe{}, cfg, zerolog.Nop())
}

// doJSON runs one request through the full middleware chain.
func doJSON(t *testing.T, handler http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func doRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(rr *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rr.Body.Bytes(), v)
}

// registerAndLogin provisions an account and returns its bearer token.
func registerAndLogin(t *testing.T, handler http.Handler, email, password string) string {
	t.Helper()
	rr := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register",
		`{"email":"`+email+`","password":"`+password+`"}`, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", email, rr.Code, rr.Body.String())
	}
	rr = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", email, rr.Code, rr.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := decodeBody(rr, &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected login response: %s", rr.Body.String())
	}
	return resp.AccessToken
}
