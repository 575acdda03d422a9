// Package gormstore backs the store contracts with GORM, used with the
// SQLite driver for single-node deployments.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/domain"

	"gorm.io/gorm"
)

type taskRow struct {
	ID          string     `gorm:"primarykey;size:36"`
	Title       string     `gorm:"size:200;not null"`
	Description *string    `gorm:"size:1000"`
	Status      string     `gorm:"size:20;not null;default:TODO;index"`
	DueDate     *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
}

func (taskRow) TableName() string { return "tasks" }

type userRow struct {
	ID           string `gorm:"primarykey;size:36"`
	Email        string `gorm:"type:text collate nocase;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:100;not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

// Migrate creates or updates the tasks and users tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&taskRow{}, &userRow{})
}

type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Create(ctx context.Context, t *domain.Task) error {
	if err := s.db.WithContext(ctx).Create(toRow(t)).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *TaskStore) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var row taskRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return fromRow(&row), nil
}

func (s *TaskStore) Update(ctx context.Context, t *domain.Task) error {
	// column map rather than a struct so nil description and due date
	// actually write NULL
	res := s.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", t.ID).Updates(map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"due_date":    t.DueDate,
		"updated_at":  t.UpdatedAt,
	})
	if err := res.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id)
	if err := res.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *TaskStore) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Task, error) {
	q := s.db.WithContext(ctx).Model(&taskRow{})
	if opts.StatusFilter != domain.StatusFilterAll {
		q = q.Where("status = ?", opts.StatusFilter)
	}

	dir := "DESC"
	if opts.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	if opts.SortBy == domain.SortByDueDate {
		// tasks without a due date go last for either direction
		q = q.Order("due_date IS NULL").Order("due_date " + dir)
	} else {
		q = q.Order("created_at " + dir)
	}

	var rows []taskRow
	if err := q.Order("id").Limit(opts.Limit).Offset(opts.Offset).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, fromRow(&rows[i]))
	}
	return tasks, nil
}

func (s *TaskStore) Count(ctx context.Context, statusFilter string) (int, error) {
	q := s.db.WithContext(ctx).Model(&taskRow{})
	if statusFilter != domain.StatusFilterAll {
		q = q.Where("status = ?", statusFilter)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return int(n), nil
}

func toRow(t *domain.Task) *taskRow {
	return &taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromRow(r *taskRow) *domain.Task {
	return &domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.Status(r.Status),
		DueDate:     r.DueDate,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, u *domain.User) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&userRow{}).Where("LOWER(email) = LOWER(?)", u.Email).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if n > 0 {
		return domain.ErrEmailTaken
	}
	row := userRow{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &domain.User{ID: row.ID, Email: row.Email, PasswordHash: row.PasswordHash, CreatedAt: row.CreatedAt}, nil
}

func (s *UserStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &domain.User{ID: row.ID, Email: row.Email, PasswordHash: row.PasswordHash, CreatedAt: row.CreatedAt}, nil
}
