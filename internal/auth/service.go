package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Service composes credential validation, password hashing and token issuance
// into the register, login and authenticate flows. It holds no mutable state;
// concurrent use requires no locking beyond what the store provides.
type Service struct {
	users  UserStore
	hasher *Hasher
	tokens *TokenIssuer
	log    zerolog.Logger
}

// NewService wires the auth flows around an identity store, a password hasher
// and a token issuer.
func NewService(users UserStore, hasher *Hasher, tokens *TokenIssuer, log zerolog.Logger) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register validates the credential pair, hashes the password and persists a
// new user. The username is derived from the email local-part. A duplicate
// email yields ErrEmailTaken whether it is caught by the pre-check or by the
// store's unique constraint.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if !ValidateEmail(email) {
		return nil, &ValidationError{Reason: "Invalid email format"}
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	username, _, _ := strings.Cut(email, "@")
	user := &User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login authenticates a credential pair and issues a bearer token. An unknown
// email and a wrong password return the same ErrInvalidCredentials so the two
// cases are externally indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if !ValidateEmail(email) {
		return Session{}, &ValidationError{Reason: "Invalid email format"}
	}
	if strings.TrimSpace(password) == "" {
		return Session{}, &ValidationError{Reason: "Password is required"}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup email: %w", err)
	}
	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMalformedHash) {
			s.log.Error().Int64("user_id", user.ID).Msg("stored password hash is malformed")
		}
		return Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Authenticate resolves a bearer token to its owning user. Signature, expiry
// and subject-lookup failures are deliberately indistinguishable; only store
// failures other than a missing row propagate as internal errors.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	subject, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve subject: %w", err)
	}
	return user, nil
}

// FindUser loads a user by id.
func (s *Service) FindUser(ctx context.Context, id int64) (*User, error) {
	return s.users.Find(ctx, id)
}

// UpdateProfile changes the display name of the given account. A nil fullName
// leaves the current value untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, fullName *string) (*User, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fullName != nil {
		user.FullName = fullName
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the account. Owned items are removed by the store's
// referential rules.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Msg("account deleted")
	return nil
}
