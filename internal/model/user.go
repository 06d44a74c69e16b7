package model

import "time"

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// ValidRole reports whether role is one of the two defined roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the reduced shape attached to tasks as createdBy/assignedTo.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserWithTasks is the user-listing shape: the user plus summaries of the
// tasks currently assigned to them.
type UserWithTasks struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Role  string        `json:"role"`
	Tasks []TaskSummary `json:"tasks"`
}

type AuthClaims struct {
	UserID string
	Role   string
}
