package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskora.org/internal/auth"
)

var _ auth.UserStore = (*UserStore)(nil)

// UserStore implements auth.UserStore on PostgreSQL.
type UserStore struct {
	db *sql.DB
}

// NewUserStore binds the store to a connection pool.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *auth.User) error {
	row := s.db.QueryRowContext(ctx,
		`insert into users(email, username, full_name, password_hash)
		 values($1, $2, $3, $4)
		 returning id, created_at, updated_at`,
		u.Email, u.Username, u.FullName, u.PasswordHash,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *UserStore) Find(ctx context.Context, id int64) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, username, full_name, password_hash, created_at, updated_at
		 from users where id = $1`, id)
	return scanUser(row)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, username, full_name, password_hash, created_at, updated_at
		 from users where email = $1`, email)
	return scanUser(row)
}

func (s *UserStore) Update(ctx context.Context, u *auth.User) error {
	res, err := s.db.ExecContext(ctx,
		`update users set full_name = $2, updated_at = now() where id = $1`,
		u.ID, u.FullName,
	)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// Delete removes the account; owned items go with it via the on delete
// cascade on items.owner_id.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from users where id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

func scanUser(row *sql.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
