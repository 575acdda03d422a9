// Package store defines the persistence contracts the service layer is
// written against. Backends live in the subpackages memory, gormstore and
// postgres; all of them map their driver-level "no rows" errors onto the
// domain error vars so callers only ever see the domain taxonomy.
package store

import (
	"context"

	"taskboard/internal/domain"
)

// TaskStore is the persistence contract for tasks. List and Count receive
// already-normalized options; backends do not apply defaults themselves.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts domain.ListOptions) ([]*domain.Task, error)
	// Count returns the number of tasks matching statusFilter, independent
	// of any pagination.
	Count(ctx context.Context, statusFilter string) (int, error)
}

// UserStore is the persistence contract for registered users.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
}
