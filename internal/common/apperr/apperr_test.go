package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want int
	}{
		{"unauthenticated", KindUnauthenticated, fiber.StatusUnauthorized},
		{"forbidden", KindForbidden, fiber.StatusForbidden},
		{"invalid user", KindInvalidUser, fiber.StatusForbidden},
		{"validation", KindValidation, fiber.StatusBadRequest},
		{"not found", KindNotFound, fiber.StatusNotFound},
		{"conflict", KindConflict, fiber.StatusConflict},
		{"internal", KindInternal, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusOf(tt.kind); got != tt.want {
				t.Errorf("statusOf(%d) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("missing")); got != KindNotFound {
		t.Errorf("KindOf(NotFound) = %d", got)
	}

	// Wrapped app errors are still recognized
	wrapped := fmt.Errorf("handler: %w", Conflict("stale"))
	if got := KindOf(wrapped); got != KindConflict {
		t.Errorf("KindOf(wrapped) = %d", got)
	}

	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %d, want internal", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to store portal", cause)

	if !errors.Is(err, cause) {
		t.Error("Internal should wrap its cause")
	}
	if err.Error() != "failed to store portal: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if Validation("bad input").Error() != "bad input" {
		t.Error("message-only errors should not append a cause")
	}
}
