package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shashwatpal1021/Master-O/internal/model"
	"github.com/shashwatpal1021/Master-O/pkg/apierror"
)

type taskStore interface {
	Create(ctx context.Context, t model.Task) error
	FindByID(ctx context.Context, id string) (model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
	ListAssignedTo(ctx context.Context, userID string) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) error
	UpdateStatus(ctx context.Context, id string, status string) error
	UpdateAssignee(ctx context.Context, id string, assigneeID string) error
	Delete(ctx context.Context, id string) error
}

type employeeFinder interface {
	FindEmployeeByID(ctx context.Context, id string) (model.User, error)
}

type TaskService struct {
	tasks taskStore
	users employeeFinder
}

func NewTaskService(tasks taskStore, users employeeFinder) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

func (s *TaskService) Create(ctx context.Context, actor model.AuthClaims, req model.CreateTaskRequest) (model.Task, error) {
	if req.Title == "" {
		return model.Task{}, apierror.New("BAD_REQUEST", "Title is required", http.StatusBadRequest)
	}

	if req.AssignedTo != nil && *req.AssignedTo != "" {
		if _, err := s.users.FindEmployeeByID(ctx, *req.AssignedTo); err != nil {
			return model.Task{}, apierror.New("BAD_REQUEST", "Employee not found", http.StatusBadRequest)
		}
	}

	now := time.Now().UTC()
	task := model.Task{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Status:       model.StatusPending,
		DueDate:      req.DueDate,
		CreatedByID:  actor.UserID,
		AssignedToID: req.AssignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return model.Task{}, err
	}

	// Re-fetch so the response carries creator/assignee summaries.
	return s.tasks.FindByID(ctx, task.ID)
}

// Get fetches one task. Employees may only read tasks they created or are
// assigned to; admins may read any.
func (s *TaskService) Get(ctx context.Context, actor model.AuthClaims, id string) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	if actor.Role != model.RoleAdmin && !isCreator(task, actor) && !isAssignee(task, actor) {
		return model.Task{}, model.ErrForbidden
	}
	return task, nil
}

// List returns every task for admins and only assigned tasks for employees.
func (s *TaskService) List(ctx context.Context, actor model.AuthClaims) ([]model.Task, error) {
	if actor.Role == model.RoleAdmin {
		return s.tasks.ListAll(ctx)
	}
	return s.tasks.ListAssignedTo(ctx, actor.UserID)
}

// Update replaces task fields, keeping current values where the request
// leaves them unset. Only the creator or an admin may update.
func (s *TaskService) Update(ctx context.Context, actor model.AuthClaims, id string, req model.UpdateTaskRequest) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	if actor.Role != model.RoleAdmin && !isCreator(task, actor) {
		return model.Task{}, apierror.New("FORBIDDEN", "You are not authorized to update this task", http.StatusForbidden)
	}

	if req.Title != nil && *req.Title != "" {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	return s.tasks.FindByID(ctx, id)
}

// UpdateStatus sets the task status. Permitted to the creator, an admin, or
// the current assignee.
func (s *TaskService) UpdateStatus(ctx context.Context, actor model.AuthClaims, id string, status string) (model.Task, error) {
	if !model.ValidStatus(status) {
		return model.Task{}, apierror.New("BAD_REQUEST", "Invalid status", http.StatusBadRequest)
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	if actor.Role != model.RoleAdmin && !isCreator(task, actor) && !isAssignee(task, actor) {
		return model.Task{}, apierror.New("FORBIDDEN", "You can only update tasks assigned to you", http.StatusForbidden)
	}

	if err := s.tasks.UpdateStatus(ctx, id, status); err != nil {
		return model.Task{}, err
	}
	return s.tasks.FindByID(ctx, id)
}

// Assign delegates the task to an employee. The target must exist with role
// EMPLOYEE; assignment resets the status to PENDING.
func (s *TaskService) Assign(ctx context.Context, id string, assigneeID string) (model.Task, error) {
	if assigneeID == "" {
		return model.Task{}, apierror.New("BAD_REQUEST", "assigned_to is required", http.StatusBadRequest)
	}

	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return model.Task{}, err
	}

	if _, err := s.users.FindEmployeeByID(ctx, assigneeID); err != nil {
		return model.Task{}, apierror.New("BAD_REQUEST", "Employee not found", http.StatusBadRequest)
	}

	if err := s.tasks.UpdateAssignee(ctx, id, assigneeID); err != nil {
		return model.Task{}, err
	}
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) Delete(ctx context.Context, actor model.AuthClaims, id string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if actor.Role != model.RoleAdmin && !isCreator(task, actor) {
		return apierror.New("FORBIDDEN", "You are not authorized to delete this task", http.StatusForbidden)
	}

	return s.tasks.Delete(ctx, id)
}

func isCreator(task model.Task, actor model.AuthClaims) bool {
	return task.CreatedByID == actor.UserID
}

func isAssignee(task model.Task, actor model.AuthClaims) bool {
	return task.AssignedToID != nil && *task.AssignedToID == actor.UserID
}
