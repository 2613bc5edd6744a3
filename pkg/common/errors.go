package common

import (
	"fmt"
	"net/http"
)

// AppError is an application-level error with an HTTP status and a stable code.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a 400 error
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, StatusCode: http.StatusBadRequest, Err: err}
}

// NewUnauthorizedError creates a 401 error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, StatusCode: http.StatusUnauthorized}
}

// NewForbiddenError creates a 403 error
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: message, StatusCode: http.StatusForbidden}
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, StatusCode: http.StatusNotFound, Err: err}
}

// NewConflictError creates a 409 error
func NewConflictError(message string, err error) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, StatusCode: http.StatusConflict, Err: err}
}

// NewInternalError creates a 500 error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: "INTERNAL", Message: message, StatusCode: http.StatusInternalServerError, Err: err}
}
