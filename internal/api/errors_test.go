package api

import (
	"fmt"
	"testing"

	"github.com/terry001-s/socialgraph/internal/account"
	"github.com/terry001-s/socialgraph/internal/graph"
	"github.com/terry001-s/socialgraph/internal/notify"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"self follow", graph.ErrSelfFollow, ErrInvalidParams},
		{"username taken", account.ErrUsernameTaken, ErrInvalidParams},
		{"unknown kind filter", notify.ErrUnknownKind, ErrInvalidParams},
		{"wrapped unknown kind", fmt.Errorf("%w: %q", notify.ErrUnknownKind, "bogus"), ErrInvalidParams},
		{"user not found", graph.ErrUserNotFound, ErrNotFoundError},
		{"settings user not found", notify.ErrUserNotFound, ErrNotFoundError},
		{"notification not found", notify.ErrNotFound, ErrNotFoundError},
		{"wrapped not found", fmt.Errorf("mark read: %w", notify.ErrNotFound), ErrNotFoundError},
		{"plain error", fmt.Errorf("boom"), ErrServerError},
		{"api error passthrough", NewError(ErrInvalidRequest, "bad"), ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := classify(tt.err)
			if code != tt.expected {
				t.Errorf("classify(%v) code = %d, want %d", tt.err, code, tt.expected)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := NewError(ErrServerError, "something broke")
	expected := "API error -32000: something broke"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
