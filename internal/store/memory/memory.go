// Package memory holds the in-memory store backends. They keep everything
// behind a mutex and are the default for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"taskboard/internal/domain"
)

// TaskStore keeps tasks in a map guarded by a RWMutex. Listing copies the
// matching tasks before sorting so callers never observe internal state.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]*domain.Task)}
}

func (s *TaskStore) Create(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *TaskStore) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TaskStore) Update(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *TaskStore) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Task, error) {
	s.mu.RLock()
	matched := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if opts.StatusFilter != domain.StatusFilterAll && string(t.Status) != opts.StatusFilter {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}
	s.mu.RUnlock()

	sortTasks(matched, opts.SortBy, opts.SortOrder)

	if opts.Offset >= len(matched) {
		return []*domain.Task{}, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[opts.Offset:end], nil
}

func (s *TaskStore) Count(ctx context.Context, statusFilter string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if statusFilter == domain.StatusFilterAll {
		return len(s.tasks), nil
	}
	n := 0
	for _, t := range s.tasks {
		if string(t.Status) == statusFilter {
			n++
		}
	}
	return n, nil
}

// Reset drops all tasks. Test helper.
func (s *TaskStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]*domain.Task)
}

// sortTasks orders by the requested field. Tasks without a due date sort
// after tasks that have one, regardless of direction; ties fall back to id
// so the order is stable across calls.
func sortTasks(tasks []*domain.Task, sortBy, sortOrder string) {
	asc := sortOrder == domain.SortAsc
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if sortBy == domain.SortByDueDate {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return a.ID < b.ID
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			case !a.DueDate.Equal(*b.DueDate):
				if asc {
					return a.DueDate.Before(*b.DueDate)
				}
				return a.DueDate.After(*b.DueDate)
			}
			return a.ID < b.ID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// UserStore keeps registered users in memory, indexed by id and by
// lower-cased email.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (s *UserStore) CreateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := s.byEmail[key]; ok {
		return domain.ErrEmailTaken
	}
	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[key] = &cp
	return nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
