package auth

import "time"

// User is an account that owns items. The password hash must never leave the
// service through any public projection.
type User struct {
	ID           int64
	Email        string
	Username     string
	FullName     *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public-safe projection of a User.
type Profile struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
}

// Profile returns the projection exposed on the wire.
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
	}
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        *User
}
