package clienterr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindValidation, "ValidationError"},
		{KindConflict, "ConflictError"},
		{KindNotFound, "NotFoundError"},
		{KindForbidden, "ForbiddenError"},
		{KindState, "StateError"},
		{KindUnknown, "UnknownError"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestConstructorsCarryKindAndMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		msg  string
	}{
		{"validation", Validationf("Cannot block yourself"), KindValidation, "Cannot block yourself"},
		{"conflict", Conflictf("User %s has already blocked user %s", "u1", "u2"), KindConflict, "User u1 has already blocked user u2"},
		{"not found", NotFoundf("User %s does not exist", "u1"), KindNotFound, "User u1 does not exist"},
		{"forbidden", Forbiddenf("Cannot edit another User's post"), KindForbidden, "Cannot edit another User's post"},
		{"state", Statef("Likes are disabled for post %s", "p1"), KindState, "Likes are disabled for post p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf = %v, want %v", got, tt.kind)
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.msg)
			}
			if !IsClient(tt.err) {
				t.Error("IsClient = false, want true")
			}
		})
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("resolving operation: %w", NotFoundf("Post p1 does not exist"))
	if got := KindOf(wrapped); got != KindNotFound {
		t.Errorf("KindOf(wrapped) = %v, want %v", got, KindNotFound)
	}
	if !IsClient(wrapped) {
		t.Error("IsClient(wrapped) = false, want true")
	}
}

func TestNonClientErrors(t *testing.T) {
	err := errors.New("connection refused")
	if IsClient(err) {
		t.Error("IsClient = true for a plain error")
	}
	if got := KindOf(err); got != KindUnknown {
		t.Errorf("KindOf = %v, want %v", got, KindUnknown)
	}
}
