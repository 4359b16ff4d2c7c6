// Package task implements the owned-resource side of the API: to-do items
// that belong to exactly one user. Every store query is scoped by the owner
// id so one user's items are invisible to everyone else.
package task

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound covers both a genuinely missing item and an item owned by
	// another user; the two must be indistinguishable to the caller.
	ErrNotFound = errors.New("task: not found")

	// ErrTitleRequired rejects items without a title.
	ErrTitleRequired = errors.New("task: title is required")
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store describes persistence for tasks. Implementations return ErrNotFound
// when the (id, owner) pair does not match a row.
type Store interface {
	Create(ctx context.Context, t *Task) error
	FindByOwner(ctx context.Context, id, ownerID int64) (*Task, error)
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	DeleteByOwner(ctx context.Context, id, ownerID int64) error
}
