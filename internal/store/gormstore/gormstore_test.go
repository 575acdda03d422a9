package gormstore

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every pooled connection to :memory: would see its own database
	sqlDB, err := g.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(g); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return g
}

func TestUserStore(t *testing.T) {
	s := NewUserStore(openTestDB(t))
	ctx := context.Background()

	u := &domain.User{ID: "u1", Email: "User@Example.com", PasswordHash: "x", CreatedAt: time.Now()}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &domain.User{ID: "u2", Email: "user@example.com", PasswordHash: "y"}
	if err := s.CreateUser(ctx, dup); err != domain.ErrEmailTaken {
		t.Errorf("duplicate email: %v, want ErrEmailTaken", err)
	}

	got, err := s.FindUserByEmail(ctx, "user@EXAMPLE.com")
	if err != nil || got.ID != "u1" {
		t.Errorf("find by email: %v %v", got, err)
	}
	if got.Email != "User@Example.com" {
		t.Errorf("stored email = %q, want original casing kept", got.Email)
	}
	if _, err := s.FindUserByID(ctx, "nope"); err != domain.ErrUserNotFound {
		t.Errorf("find missing: %v", err)
	}
}

func TestTaskStoreCRUD(t *testing.T) {
	s := NewTaskStore(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	desc := "details"
	task := &domain.Task{
		ID:          "t1",
		Title:       "write report",
		Description: &desc,
		Status:      domain.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FindByID(ctx, "t1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "write report" || got.Description == nil || *got.Description != "details" {
		t.Errorf("find returned %+v", got)
	}

	got.Description = nil
	got.Status = domain.StatusDone
	got.UpdatedAt = now.Add(time.Minute)
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = s.FindByID(ctx, "t1")
	if err != nil {
		t.Fatalf("refind: %v", err)
	}
	if got.Description != nil {
		t.Errorf("description = %q, want cleared to NULL", *got.Description)
	}
	if got.Status != domain.StatusDone {
		t.Errorf("status = %q, want DONE", got.Status)
	}

	if err := s.Update(ctx, &domain.Task{ID: "missing", Title: "x"}); err != domain.ErrNotFound {
		t.Errorf("update missing: %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "t1"); err != domain.ErrNotFound {
		t.Errorf("redelete: %v, want ErrNotFound", err)
	}
}

func TestTaskStoreDueDateOrdering(t *testing.T) {
	s := NewTaskStore(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	due := func(d int) *time.Time {
		v := base.AddDate(0, 0, d)
		return &v
	}
	seed := []*domain.Task{
		{ID: "a", Title: "a", Status: domain.StatusTodo, DueDate: due(2), CreatedAt: base, UpdatedAt: base},
		{ID: "b", Title: "b", Status: domain.StatusTodo, CreatedAt: base.Add(time.Second), UpdatedAt: base},
		{ID: "c", Title: "c", Status: domain.StatusTodo, DueDate: due(1), CreatedAt: base.Add(2 * time.Second), UpdatedAt: base},
	}
	for _, task := range seed {
		if err := s.Create(ctx, task); err != nil {
			t.Fatalf("seed %s: %v", task.ID, err)
		}
	}

	opts := domain.ListOptions{
		StatusFilter: domain.StatusFilterAll,
		SortBy:       domain.SortByDueDate,
		SortOrder:    domain.SortAsc,
		Limit:        10,
	}
	got, err := s.List(ctx, opts)
	if err != nil {
		t.Fatalf("list asc: %v", err)
	}
	if len(got) != 3 || got[0].ID != "c" || got[1].ID != "a" || got[2].ID != "b" {
		t.Errorf("asc order = %v, want [c a b]", taskIDs(got))
	}

	opts.SortOrder = domain.SortDesc
	got, err = s.List(ctx, opts)
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "c" || got[2].ID != "b" {
		t.Errorf("desc order = %v, want [a c b]", taskIDs(got))
	}
}

func taskIDs(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}
