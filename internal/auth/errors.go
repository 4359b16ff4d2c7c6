package auth

import "errors"

var (
	// ErrEmailTaken means another account already owns the email address.
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrInvalidCredentials is returned by Login for both an unknown email
	// and a wrong password. Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("auth: incorrect email or password")

	// ErrInvalidToken covers every bearer token anomaly: bad signature,
	// malformed payload, expiry, or a subject with no matching account.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrNotFound indicates a missing user record.
	ErrNotFound = errors.New("auth: not found")
)

// ValidationError reports a credential policy failure. Reason is safe to
// return to the caller verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
