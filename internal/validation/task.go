package validation

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/domain"
)

// FieldErrors maps a field name to one or more human-readable messages.
// It is returned for expected validation failures, never panicked.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	var parts []string
	for field, msgs := range e {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Limits are the configurable field constraints. They come from config,
// not from literals at call sites.
type Limits struct {
	TitleMax       int
	DescriptionMax int
}

func DefaultLimits() Limits {
	return Limits{TitleMax: 200, DescriptionMax: 1000}
}

// Validator normalizes raw task payloads into typed drafts and patches.
type Validator struct {
	limits Limits
}

func New(limits Limits) *Validator {
	if limits.TitleMax <= 0 || limits.DescriptionMax <= 0 {
		limits = DefaultLimits()
	}
	return &Validator{limits: limits}
}

// CreateInput is the raw create payload. Pointer fields distinguish absent
// (nil) from explicitly empty ("").
type CreateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// UpdateInput is the raw partial-update payload. Absent fields leave the
// stored value untouched; an empty description or due date clears it.
type UpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

// ValidateCreate converts raw input into a TaskDraft or rejects it with
// per-field messages. Titles are trimmed before any length check.
func (v *Validator) ValidateCreate(in CreateInput) (*domain.TaskDraft, FieldErrors) {
	errs := FieldErrors{}

	title := ""
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if title == "" {
		errs.add("title", "Title is required")
	} else if len([]rune(title)) > v.limits.TitleMax {
		errs.add("title", fmt.Sprintf("Title must be %d characters or less", v.limits.TitleMax))
	}

	var desc *string
	if in.Description != nil && *in.Description != "" {
		if len([]rune(*in.Description)) > v.limits.DescriptionMax {
			errs.add("description", fmt.Sprintf("Description must be %d characters or less", v.limits.DescriptionMax))
		} else {
			desc = in.Description
		}
	}

	var due *time.Time
	if in.DueDate != nil && *in.DueDate != "" {
		t, err := parseDueDate(*in.DueDate)
		if err != nil {
			errs.add("due_date", "Due date must be a valid ISO date string")
		} else {
			due = &t
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &domain.TaskDraft{Title: title, Description: desc, DueDate: due}, nil
}

// ValidateUpdate converts raw input into a TaskPatch. Every field is
// optional; a present-but-empty description or due date clears the stored
// value, while an empty title is still rejected.
func (v *Validator) ValidateUpdate(in UpdateInput) (*domain.TaskPatch, FieldErrors) {
	errs := FieldErrors{}
	patch := &domain.TaskPatch{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			errs.add("title", "Title is required")
		} else if len([]rune(title)) > v.limits.TitleMax {
			errs.add("title", fmt.Sprintf("Title must be %d characters or less", v.limits.TitleMax))
		} else {
			patch.Title = &title
		}
	}

	if in.Description != nil {
		patch.DescriptionSet = true
		if *in.Description != "" {
			if len([]rune(*in.Description)) > v.limits.DescriptionMax {
				errs.add("description", fmt.Sprintf("Description must be %d characters or less", v.limits.DescriptionMax))
			} else {
				patch.Description = in.Description
			}
		}
	}

	if in.DueDate != nil {
		patch.DueDateSet = true
		if *in.DueDate != "" {
			t, err := parseDueDate(*in.DueDate)
			if err != nil {
				errs.add("due_date", "Due date must be a valid ISO date string")
			} else {
				patch.DueDate = &t
			}
		}
	}

	if in.Status != nil {
		st, ok := domain.ParseStatus(*in.Status)
		if !ok {
			errs.add("status", "Status must be one of: TODO, IN_PROGRESS, DONE")
		} else {
			patch.Status = &st
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return patch, nil
}

func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// date-only input from HTML date pickers
	return time.Parse("2006-01-02", s)
}
