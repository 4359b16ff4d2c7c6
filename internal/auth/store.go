package auth

import "context"

// UserStore describes persistence operations required by the auth subsystem.
// Implementations map a unique-constraint violation on email to ErrEmailTaken
// and a missing row to ErrNotFound. The email unique constraint is the
// authority for registration races; the service's pre-check is best effort.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}
