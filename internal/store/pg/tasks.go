package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskora.org/internal/task"
)

var _ task.Store = (*TaskStore)(nil)

// TaskStore implements task.Store on PostgreSQL. Every statement filters by
// owner_id; ownership mismatches surface as task.ErrNotFound.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore binds the store to a connection pool.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Create(ctx context.Context, t *task.Task) error {
	row := s.db.QueryRowContext(ctx,
		`insert into items(owner_id, title, description)
		 values($1, $2, $3)
		 returning id, created_at, updated_at`,
		t.OwnerID, t.Title, t.Description,
	)
	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *TaskStore) FindByOwner(ctx context.Context, id, ownerID int64) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, owner_id, title, description, created_at, updated_at
		 from items where id = $1 and owner_id = $2`, id, ownerID)
	var t task.Task
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, task.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, owner_id, title, description, created_at, updated_at
		 from items where owner_id = $1 order by id asc offset $2 limit $3`,
		ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*task.Task
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

func (s *TaskStore) Update(ctx context.Context, t *task.Task) error {
	row := s.db.QueryRowContext(ctx,
		`update items set title = $3, description = $4, updated_at = now()
		 where id = $1 and owner_id = $2
		 returning updated_at`,
		t.ID, t.OwnerID, t.Title, t.Description,
	)
	if err := row.Scan(&t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TaskStore) DeleteByOwner(ctx context.Context, id, ownerID int64) error {
	res, err := s.db.ExecContext(ctx,
		`delete from items where id = $1 and owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res, task.ErrNotFound)
}
