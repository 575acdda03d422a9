package service

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/store"

	"github.com/google/uuid"
)

// Mutation actions reported to ChangeNotifier.
const (
	ActionCreated = "task.created"
	ActionUpdated = "task.updated"
	ActionDeleted = "task.deleted"
)

// ChangeNotifier is told after every successful mutation so the view layer
// can drop cached listings. Exactly one call per mutation.
type ChangeNotifier interface {
	TaskChanged(ctx context.Context, action, taskID string)
}

// MultiNotifier fans a change out to several notifiers.
type MultiNotifier []ChangeNotifier

func (m MultiNotifier) TaskChanged(ctx context.Context, action, taskID string) {
	for _, n := range m {
		n.TaskChanged(ctx, action, taskID)
	}
}

// TaskService sequences validation results into store operations and maps
// store failures onto the domain error taxonomy.
type TaskService struct {
	tasks    store.TaskStore
	notifier ChangeNotifier
	ceiling  int
	maxLimit int
}

func NewTaskService(tasks store.TaskStore, notifier ChangeNotifier, ceiling, maxLimit int) *TaskService {
	if ceiling <= 0 {
		ceiling = 100
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &TaskService{tasks: tasks, notifier: notifier, ceiling: ceiling, maxLimit: maxLimit}
}

// Create inserts a new task from a validated draft. The ceiling is checked
// before anything is written; a refused create touches neither the store
// nor the notifier.
func (s *TaskService) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	count, err := s.tasks.Count(ctx, domain.StatusFilterAll)
	if err != nil {
		return nil, s.storeErr("count tasks", err)
	}
	if count >= s.ceiling {
		return nil, domain.ErrLimitExceeded
	}

	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      domain.StatusTodo,
		DueDate:     draft.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, s.storeErr("create task", err)
	}

	s.notifier.TaskChanged(ctx, ActionCreated, t.ID)
	return t, nil
}

// NormalizeOptions applies defaults and bounds checks without running the
// query, so callers can build cache keys from the canonical form.
func (s *TaskService) NormalizeOptions(opts domain.ListOptions) (domain.ListOptions, error) {
	return opts.Normalize(s.maxLimit)
}

// List returns a page of tasks plus the filter-wide count.
func (s *TaskService) List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult, error) {
	opts, err := opts.Normalize(s.maxLimit)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, opts)
	if err != nil {
		return nil, s.storeErr("list tasks", err)
	}
	count, err := s.tasks.Count(ctx, opts.StatusFilter)
	if err != nil {
		return nil, s.storeErr("count tasks", err)
	}

	return &domain.ListResult{
		Tasks:   tasks,
		Count:   count,
		HasMore: opts.Offset+len(tasks) < count,
	}, nil
}

// Update applies a validated patch. Fields absent from the patch keep their
// stored value; id and created_at never change; updated_at always does.
func (s *TaskService) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrInvalidID
	}

	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeErr("find task", err)
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.DescriptionSet {
		t.Description = patch.Description
	}
	if patch.DueDateSet {
		t.DueDate = patch.DueDate
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, s.storeErr("update task", err)
	}

	s.notifier.TaskChanged(ctx, ActionUpdated, t.ID)
	return t, nil
}

// Delete permanently removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return s.storeErr("delete task", err)
	}
	s.notifier.TaskChanged(ctx, ActionDeleted, id)
	return nil
}

// storeErr passes domain errors through and downgrades everything else to
// the generic storage failure after logging the detail.
func (s *TaskService) storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	logger.Error("store operation failed", "op", op, "error", err)
	return domain.ErrStorage
}
