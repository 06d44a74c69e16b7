package model

import "errors"

var (
	// User related errors
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrAdminUndeletable = errors.New("cannot delete ADMIN users")
	ErrEmployeeNotFound = errors.New("employee not found")

	// Credential/session related errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Task related errors
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid status")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
