// Package postgres backs the store contracts with PostgreSQL through pgx.
// Schema lives in internal/migrations, applied by cmd/migrate_apply.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskStore struct {
	db *pgxpool.Pool
}

func NewTaskStore(db *pgxpool.Pool) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Create(ctx context.Context, t *domain.Task) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tasks (id, title, description, status, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Title, t.Description, string(t.Status), t.DueDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *TaskStore) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, title, description, status, due_date, created_at, updated_at
		 FROM tasks
		 WHERE id = $1`,
		id,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) Update(ctx context.Context, t *domain.Task) error {
	res, err := s.db.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, status = $3, due_date = $4, updated_at = $5
		 WHERE id = $6`,
		t.Title, t.Description, string(t.Status), t.DueDate, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *TaskStore) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Task, error) {
	where := ""
	args := []any{}
	if opts.StatusFilter != domain.StatusFilterAll {
		where = "WHERE status = $1"
		args = append(args, opts.StatusFilter)
	}

	dir := "DESC"
	if opts.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	order := "created_at " + dir
	if opts.SortBy == domain.SortByDueDate {
		// NULLS LAST regardless of direction
		order = "due_date " + dir + " NULLS LAST"
	}

	query := fmt.Sprintf(
		`SELECT id, title, description, status, due_date, created_at, updated_at
		 FROM tasks %s
		 ORDER BY %s, id
		 LIMIT $%d OFFSET $%d`,
		where, order, len(args)+1, len(args)+2,
	)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Count(ctx context.Context, statusFilter string) (int, error) {
	var n int
	var err error
	if statusFilter == domain.StatusFilterAll {
		err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	} else {
		err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE status = $1`, statusFilter).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.Status(status)
	return &t, nil
}

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (s *UserStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (s *UserStore) findUser(ctx context.Context, query, arg string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}
