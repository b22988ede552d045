package api

import (
	"errors"
	"fmt"

	"github.com/terry001-s/socialgraph/internal/account"
	"github.com/terry001-s/socialgraph/internal/content"
	"github.com/terry001-s/socialgraph/internal/graph"
	"github.com/terry001-s/socialgraph/internal/notify"
)

// Error represents an API error
type Error struct {
	Code    int
	Message string
}

// NewError creates a new API error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC error codes
const (
	ErrParseError     = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternalError  = -32603
	ErrServerError    = -32000
	ErrNotFoundError  = -32001
)

// classify maps service errors to JSON-RPC error codes and messages
func classify(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message
	}

	switch {
	case errors.Is(err, graph.ErrSelfFollow),
		errors.Is(err, account.ErrUsernameTaken),
		errors.Is(err, notify.ErrUnknownKind):
		return ErrInvalidParams, "Invalid params"
	case errors.Is(err, graph.ErrUserNotFound),
		errors.Is(err, account.ErrNotFound),
		errors.Is(err, content.ErrPostNotFound),
		errors.Is(err, content.ErrUserNotFound),
		errors.Is(err, notify.ErrNotFound),
		errors.Is(err, notify.ErrUserNotFound),
		errors.Is(err, notify.ErrTargetNotFound):
		return ErrNotFoundError, "Not found"
	default:
		return ErrServerError, "Server error"
	}
}
