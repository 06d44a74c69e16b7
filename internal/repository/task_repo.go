package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shashwatpal1021/Master-O/internal/model"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// taskColumns selects the task row plus creator and assignee summaries.
const taskColumns = `
	t.id, t.title, t.description, t.status, t.due_date,
	t.created_by, t.assigned_to, t.created_at, t.updated_at,
	c.id, c.name, c.email,
	a.id, a.name, a.email`

const taskJoins = `
	FROM tasks t
	JOIN users c ON c.id = t.created_by
	LEFT JOIN users a ON a.id = t.assigned_to`

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t                                model.Task
		creator                          model.UserSummary
		assigneeID, assigneeName, aEmail *string
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.DueDate,
		&t.CreatedByID, &t.AssignedToID, &t.CreatedAt, &t.UpdatedAt,
		&creator.ID, &creator.Name, &creator.Email,
		&assigneeID, &assigneeName, &aEmail)
	if err != nil {
		return model.Task{}, err
	}

	t.CreatedBy = &creator
	if assigneeID != nil {
		t.AssignedTo = &model.UserSummary{ID: *assigneeID, Name: *assigneeName, Email: *aEmail}
	}
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t model.Task) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks (id, title, description, status, due_date, created_by, assigned_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Title, t.Description, t.Status, t.DueDate, t.CreatedByID, t.AssignedToID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+taskColumns+taskJoins+` WHERE t.id = $1`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, model.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("find task by id: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+taskColumns+taskJoins+` ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListAssignedTo returns tasks assigned to the given user, newest first.
func (r *TaskRepository) ListAssignedTo(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+taskColumns+taskJoins+` WHERE t.assigned_to = $1 ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t model.Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET title = $2, description = $3, due_date = $4, updated_at = $5
		 WHERE id = $1`,
		t.ID, t.Title, t.Description, t.DueDate, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

// UpdateAssignee reassigns the task and resets its status to PENDING.
func (r *TaskRepository) UpdateAssignee(ctx context.Context, id string, assigneeID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET assigned_to = $2, status = $3, updated_at = now() WHERE id = $1`,
		id, assigneeID, model.StatusPending)
	if err != nil {
		return fmt.Errorf("assign task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}
