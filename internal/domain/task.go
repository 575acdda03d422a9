package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is the progress state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// ParseStatus accepts a status value in any case ("todo", "TODO", "In_Progress").
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToUpper(s)) {
	case StatusTodo:
		return StatusTodo, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusDone:
		return StatusDone, true
	}
	return "", false
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskDraft is a validated create payload. Optional fields stay nil when
// the caller did not provide them.
type TaskDraft struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

// TaskPatch is a validated partial update. A nil pointer means the field
// was absent from the request and the stored value must be kept. The Set
// flags distinguish "clear to null" (Set true, pointer nil) from absent.
type TaskPatch struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	DueDate        *time.Time
	DueDateSet     bool
	Status         *Status
}

// Empty reports whether the patch carries no fields at all.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && !p.DescriptionSet && !p.DueDateSet && p.Status == nil
}

// Sort fields accepted by List.
const (
	SortByCreatedAt = "created_at"
	SortByDueDate   = "due_date"

	SortAsc  = "asc"
	SortDesc = "desc"

	// StatusFilterAll disables status filtering.
	StatusFilterAll = "all"
)

// ListOptions control filtering, ordering and pagination of task listings.
// Zero values mean "use the default".
type ListOptions struct {
	StatusFilter string
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
}

// Normalize fills in defaults and rejects out-of-range values. maxLimit
// caps Limit and is also the default page size.
func (o ListOptions) Normalize(maxLimit int) (ListOptions, error) {
	if o.StatusFilter == "" {
		o.StatusFilter = StatusFilterAll
	} else if o.StatusFilter != StatusFilterAll {
		st, ok := ParseStatus(o.StatusFilter)
		if !ok {
			return o, ErrInvalidOptions
		}
		o.StatusFilter = string(st)
	}

	switch o.SortBy {
	case "":
		o.SortBy = SortByCreatedAt
	case SortByCreatedAt, SortByDueDate:
	default:
		return o, ErrInvalidOptions
	}

	switch o.SortOrder {
	case "":
		o.SortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return o, ErrInvalidOptions
	}

	if o.Limit == 0 {
		o.Limit = maxLimit
	}
	if o.Limit < 1 || o.Limit > maxLimit || o.Offset < 0 {
		return o, ErrInvalidOptions
	}
	return o, nil
}

// ListResult is a page of tasks plus the filter-wide total.
type ListResult struct {
	Tasks   []*Task `json:"tasks"`
	Count   int     `json:"count"`
	HasMore bool    `json:"hasMore"`
}

var (
	ErrNotFound       = errors.New("task not found")
	ErrInvalidID      = errors.New("invalid task id")
	ErrLimitExceeded  = errors.New("task limit reached")
	ErrInvalidOptions = errors.New("invalid list options")

	// ErrStorage is the generic failure surfaced when the store misbehaves.
	// The underlying error is logged, never returned to the caller.
	ErrStorage = errors.New("operation failed")
)
