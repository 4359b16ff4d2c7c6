package task

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultListLimit matches the API's default page size.
	DefaultListLimit = 100
	maxListLimit     = 1000
)

// Service enforces ownership scoping and input rules on top of a Store.
type Service struct {
	store Store
}

// NewService wraps a Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create persists a new item for the given owner.
func (s *Service) Create(ctx context.Context, ownerID int64, title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	t := &Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// List returns the owner's items. A non-positive limit selects the default
// page size; limits are capped to keep a single response bounded.
func (s *Service) List(ctx context.Context, ownerID int64, skip, limit int) ([]*Task, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	items, err := s.store.ListByOwner(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if items == nil {
		items = []*Task{}
	}
	return items, nil
}

// Get returns one of the owner's items by id.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Task, error) {
	return s.store.FindByOwner(ctx, id, ownerID)
}

// Update replaces the title and description of one of the owner's items.
func (s *Service) Update(ctx context.Context, ownerID, id int64, title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	t, err := s.store.FindByOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	t.Title = title
	t.Description = description
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes one of the owner's items.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	return s.store.DeleteByOwner(ctx, id, ownerID)
}
