package model

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *Date   `json:"due_date"`
	AssignedTo  *string `json:"assigned_to"`
}

// UpdateTaskRequest carries merge-style updates: nil fields keep their
// current values.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *Date   `json:"due_date"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AssignTaskRequest struct {
	AssignedTo string `json:"assigned_to"`
}
