package auth

import "regexp"

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// ValidateEmail reports whether s looks like local@domain.tld. No DNS or
// mailbox verification is attempted.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePassword checks the password strength policy. Rules run in a fixed
// order so the first failing one determines the message. Validation happens
// before any store access or hashing work.
func ValidatePassword(s string) error {
	if len(s) < 6 {
		return &ValidationError{Reason: "Password must be at least 6 characters long"}
	}
	if len(s) > 50 {
		return &ValidationError{Reason: "Password must not exceed 50 characters"}
	}
	if !letterPattern.MatchString(s) {
		return &ValidationError{Reason: "Password must contain at least one letter"}
	}
	if !digitPattern.MatchString(s) {
		return &ValidationError{Reason: "Password must contain at least one number"}
	}
	return nil
}
