package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shashwatpal1021/Master-O/internal/model"
)

// Postgres unique_violation error code.
const uniqueViolationCode = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return model.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindEmployeeByID fetches a user only if they exist with role EMPLOYEE.
// Used for assignment validation.
func (r *UserRepository) FindEmployeeByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE id = $1 AND role = $2`, id, model.RoleEmployee).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrEmployeeNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find employee by id: %w", err)
	}
	return u, nil
}

// ListWithTasks returns every user together with summaries of the tasks
// currently assigned to them, ordered by name.
func (r *UserRepository) ListWithTasks(ctx context.Context) ([]model.UserWithTasks, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.role,
		        t.id, t.title, t.status, t.due_date
		 FROM users u
		 LEFT JOIN tasks t ON t.assigned_to = u.id
		 ORDER BY u.name, t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.UserWithTasks, 0)
	index := map[string]int{}
	for rows.Next() {
		var (
			u       model.UserWithTasks
			taskID  *string
			title   *string
			status  *string
			dueDate *model.Date
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &taskID, &title, &status, &dueDate); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}

		pos, seen := index[u.ID]
		if !seen {
			u.Tasks = []model.TaskSummary{}
			users = append(users, u)
			pos = len(users) - 1
			index[u.ID] = pos
		}

		if taskID != nil {
			users[pos].Tasks = append(users[pos].Tasks, model.TaskSummary{
				ID:      *taskID,
				Title:   *title,
				Status:  *status,
				DueDate: dueDate,
			})
		}
	}
	return users, rows.Err()
}

// FindWithTasks returns one user with assigned-task summaries.
func (r *UserRepository) FindWithTasks(ctx context.Context, id string) (model.UserWithTasks, error) {
	users, err := r.listWithTasksByID(ctx, id)
	if err != nil {
		return model.UserWithTasks{}, err
	}
	if len(users) == 0 {
		return model.UserWithTasks{}, model.ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) listWithTasksByID(ctx context.Context, id string) ([]model.UserWithTasks, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.role,
		        t.id, t.title, t.status, t.due_date
		 FROM users u
		 LEFT JOIN tasks t ON t.assigned_to = u.id
		 WHERE u.id = $1
		 ORDER BY t.created_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("find user with tasks: %w", err)
	}
	defer rows.Close()

	var out []model.UserWithTasks
	for rows.Next() {
		var (
			u       model.UserWithTasks
			taskID  *string
			title   *string
			status  *string
			dueDate *model.Date
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &taskID, &title, &status, &dueDate); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}

		if len(out) == 0 {
			u.Tasks = []model.TaskSummary{}
			out = append(out, u)
		}
		if taskID != nil {
			out[0].Tasks = append(out[0].Tasks, model.TaskSummary{
				ID:      *taskID,
				Title:   *title,
				Status:  *status,
				DueDate: dueDate,
			})
		}
	}
	return out, rows.Err()
}

// DeleteCascade removes every task the user created or is assigned to, then
// the user row, in one transaction so a crash cannot strand half the cascade.
func (r *UserRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM tasks WHERE created_by = $1 OR assigned_to = $1`, id); err != nil {
		return fmt.Errorf("delete user tasks: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return tx.Commit(ctx)
}

// Upsert inserts or updates a user keyed by email. Used by the admin
// seeding tool.
func (r *UserRepository) Upsert(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (email) DO UPDATE
		 SET name = EXCLUDED.name,
		     password_hash = EXCLUDED.password_hash,
		     role = EXCLUDED.role,
		     updated_at = EXCLUDED.updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
