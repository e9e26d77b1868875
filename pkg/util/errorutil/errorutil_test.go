package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	base := NewNotFound("ticket", map[string]any{"id": "t-1"})
	wrapped := fmt.Errorf("update status: %w", base)

	got := ToDomainError(wrapped)
	if got.Code != CodeNotFound {
		t.Fatalf("expected %s, got %s", CodeNotFound, got.Code)
	}
	if got.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got.HTTPStatus)
	}
	if got.Details["id"] != "t-1" {
		t.Fatalf("details not preserved: %v", got.Details)
	}
}

func TestToDomainError_HidesUnexpected(t *testing.T) {
	got := ToDomainError(errors.New("connection refused on 10.0.0.3:5432"))
	if got.Code != CodeInternal {
		t.Fatalf("expected %s, got %s", CodeInternal, got.Code)
	}
	if got.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", got.Message)
	}
	if got.Err == nil {
		t.Fatalf("cause should be kept for logging")
	}
}

func TestToDomainError_FiberError(t *testing.T) {
	got := ToDomainError(fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	if got.HTTPStatus != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", got.HTTPStatus)
	}

	got = ToDomainError(fiber.ErrNotFound)
	if got.Code != CodeNotFound {
		t.Fatalf("expected %s, got %s", CodeNotFound, got.Code)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewForbidden("admin role required"))
	if !HasCode(err, CodeForbidden) {
		t.Fatalf("expected forbidden code")
	}
	if HasCode(err, CodeUnauthorized) {
		t.Fatalf("unexpected unauthorized code")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
}
