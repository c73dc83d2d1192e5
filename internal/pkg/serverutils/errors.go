package serverutils

import (
	"fmt"
	"net/http"
)

// AppError carries an HTTP status through the service layer.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func ErrBadRequest(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// ErrInvalid reports err to the client as a bad request and keeps it
// unwrappable.
func ErrInvalid(err error) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: err.Error(), Err: err}
}

func ErrNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

func ErrConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

func ErrUnauthorized(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

// ErrUpstream marks a failure of the remote store (Drive, Postgres, ...).
func ErrUpstream(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadGateway, Message: message, Err: err}
}
