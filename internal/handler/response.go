package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shashwatpal1021/Master-O/internal/model"
	"github.com/shashwatpal1021/Master-O/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong!"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid credentials"
	case errors.Is(err, model.ErrInvalidRefresh):
		status = http.StatusUnauthorized
		message = "Invalid refresh token"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		message = "Forbidden"
	case errors.Is(err, model.ErrAdminUndeletable):
		status = http.StatusForbidden
		message = "Cannot delete ADMIN users"
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		message = "User not found"
	case errors.Is(err, model.ErrTaskNotFound):
		status = http.StatusNotFound
		message = "Task not found"
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
		message = "Email already registered"
	case errors.Is(err, model.ErrEmployeeNotFound):
		status = http.StatusBadRequest
		message = "Employee not found"
	case errors.Is(err, model.ErrInvalidStatus):
		status = http.StatusBadRequest
		message = "Invalid status"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		message = "Invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeMessage(w, status, message)
}
