package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection reset")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"invalid", InvalidArgument("bad"), KindInvalidArgument},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("missing")), KindNotFound},
		{"conflict", Conflict("dup"), KindConflict},
		{"forbidden", Forbidden("past"), KindForbidden},
		{"internal", Internal("db", cause), KindInternal},
		{"foreign", cause, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidArgument: http.StatusBadRequest,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindForbidden:       http.StatusForbidden,
		KindInternal:        http.StatusInternalServerError,
		Kind("other"):       http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := kind.HTTPStatus(); got != want {
			t.Fatalf("%s status = %d, want %d", kind, got, want)
		}
	}
}

func TestInternalKeepsCauseButHidesIt(t *testing.T) {
	cause := errors.New("pq: relation missing")
	err := Internal("failed to create event", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
	if got := PublicMessage(err); got != "failed to create event" {
		t.Fatalf("public message = %q", got)
	}
	if got := PublicMessage(cause); got != "internal error" {
		t.Fatalf("foreign public message = %q", got)
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("register: %w", Conflict("user is already registered for this event"))
	if !errors.Is(err, Conflict("")) {
		t.Fatal("expected conflict match")
	}
	if errors.Is(err, Forbidden("")) {
		t.Fatal("unexpected forbidden match")
	}
}
