package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "taskora"

// DefaultAccessTTL bounds token validity when the configuration does not
// override it.
const DefaultAccessTTL = 30 * time.Minute

// TokenIssuer signs and verifies HS256 access tokens. The signing secret is
// fixed at construction time and never rotated at runtime; tests construct
// issuers with their own secrets.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer around the given symmetric secret. A zero
// ttl selects DefaultAccessTTL.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	if ttl == 0 {
		ttl = DefaultAccessTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the time source. Only intended for tests.
func (t *TokenIssuer) WithClock(fn func() time.Time) *TokenIssuer {
	if fn != nil {
		t.now = fn
	}
	return t
}

// TTL returns the configured validity window.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token whose subject claim is the identity's email.
func (t *TokenIssuer) Issue(subject string) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, errors.New("auth: subject is required")
	}
	now := t.now().UTC()
	expiresAt := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry and returns the subject claim.
// Every anomaly collapses to ErrInvalidToken.
func (t *TokenIssuer) Parse(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
