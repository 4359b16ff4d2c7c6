package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserStore struct {
	nextID int64
	users  map[string]*User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, users: make(map[string]*User)}
}

func (s *memoryUserStore) Create(_ context.Context, u *User) error {
	if _, ok := s.users[u.Email]; ok {
		return ErrEmailTaken
	}
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	s.users[u.Email] = &clone
	return nil
}

func (s *memoryUserStore) Find(_ context.Context, id int64) (*User, error) {
	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *memoryUserStore) Update(_ context.Context, u *User) error {
	stored, ok := s.users[u.Email]
	if !ok {
		return ErrNotFound
	}
	stored.FullName = u.FullName
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memoryUserStore) Delete(_ context.Context, id int64) error {
	for email, u := range s.users {
		if u.ID == id {
			delete(s.users, email)
			return nil
		}
	}
	return ErrNotFound
}

func newTestService(t *testing.T, ttl time.Duration) (*Service, *memoryUserStore) {
	t.Helper()
	store := newMemoryUserStore()
	issuer, err := NewTokenIssuer([]byte("test-secret"), ttl)
	require.NoError(t, err)
	return NewService(store, NewHasher(), issuer, zerolog.Nop()), store
}

func TestRegisterLoginAuthenticateRoundtrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 30*time.Minute)

	user, err := svc.Register(ctx, "a@example.com", "test123")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, "a", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotContains(t, user.PasswordHash, "test123")

	sess, err := svc.Login(ctx, "a@example.com", "test123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", sess.TokenType)
	assert.NotEmpty(t, sess.AccessToken)
	assert.Equal(t, user.ID, sess.User.ID)

	resolved, err := svc.Authenticate(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "a@example.com", resolved.Email)

	// Resolution is idempotent for the same token.
	again, err := svc.Authenticate(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resolved.ID, again.ID)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, time.Minute)

	var verr *ValidationError

	_, err := svc.Register(ctx, "invalid-email", "test123")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "email format")

	_, err = svc.Register(ctx, "a@example.com", "123456")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "letter")

	_, err = svc.Register(ctx, "a@example.com", "testtest")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "number")

	_, err = svc.Register(ctx, "a@example.com", "ab1")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "at least 6")

	assert.Empty(t, store.users, "no user may be persisted on validation failure")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Minute)

	_, err := svc.Register(ctx, "a@example.com", "test123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@example.com", "other456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Minute)

	_, err := svc.Register(ctx, "a@example.com", "test123")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@example.com", "test123")
	_, wrongErr := svc.Login(ctx, "a@example.com", "wrong999")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginRejectsBlankPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Minute)

	var verr *ValidationError
	_, err := svc.Login(ctx, "a@example.com", "   ")
	require.ErrorAs(t, err, &verr)
}

func TestLoginWithMalformedStoredHash(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, time.Minute)

	store.users["a@example.com"] = &User{
		ID:           1,
		Email:        "a@example.com",
		Username:     "a",
		PasswordHash: "not-a-hash",
	}

	_, err := svc.Login(ctx, "a@example.com", "test123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, -time.Minute)

	_, err := svc.Register(ctx, "a@example.com", "test123")
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "a@example.com", "test123")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsUnknownSubject(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, time.Minute)

	_, err := svc.Register(ctx, "a@example.com", "test123")
	require.NoError(t, err)
	sess, err := svc.Login(ctx, "a@example.com", "test123")
	require.NoError(t, err)

	// The account disappears between issuance and verification.
	delete(store.users, "a@example.com")

	_, err = svc.Authenticate(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfileAndDeleteAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, time.Minute)

	user, err := svc.Register(ctx, "a@example.com", "test123")
	require.NoError(t, err)
	require.Nil(t, user.FullName)

	name := "Ada Example"
	updated, err := svc.UpdateProfile(ctx, user.ID, &name)
	require.NoError(t, err)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, "Ada Example", *updated.FullName)

	// nil keeps the stored value.
	kept, err := svc.UpdateProfile(ctx, user.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, kept.FullName)
	assert.Equal(t, "Ada Example", *kept.FullName)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))
	_, err = svc.FindUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
