package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	t.Parallel()
	err := New(SolutionNotFound)
	if err.Code != SolutionNotFound {
		t.Fatalf("expected code %d, got %d", SolutionNotFound, err.Code)
	}
	if err.Message != SolutionNotFound.Message() {
		t.Fatalf("expected default message, got %q", err.Message)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()
	cause := stderrors.New("connection refused")
	err := Wrap(cause, DatabaseError)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if GetCode(err) != DatabaseError {
		t.Fatalf("expected DatabaseError, got %d", GetCode(err))
	}
}

func TestGetCodeOnForeignError(t *testing.T) {
	t.Parallel()
	if got := GetCode(stderrors.New("plain")); got != InternalServerError {
		t.Fatalf("expected InternalServerError for foreign error, got %d", got)
	}
	if got := GetCode(nil); got != Success {
		t.Fatalf("expected Success for nil error, got %d", got)
	}
}

func TestIsMatchesCode(t *testing.T) {
	t.Parallel()
	err := New(AccessDenied).WithDetail("solution", "sol-1")
	if !Is(err, AccessDenied) {
		t.Fatal("expected Is to match AccessDenied")
	}
	if Is(err, SolutionNotFound) {
		t.Fatal("expected Is to reject a different code")
	}
	if Is(nil, AccessDenied) {
		t.Fatal("expected Is(nil, ...) to be false")
	}
}

func TestWithDetail(t *testing.T) {
	t.Parallel()
	err := New(ProblemNoChannel).WithDetail("problem", "prob-1")
	if err.Details["problem"] != "prob-1" {
		t.Fatalf("expected detail recorded, got %v", err.Details)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{name: "success", code: Success, want: http.StatusOK},
		{name: "solution-not-found", code: SolutionNotFound, want: http.StatusNotFound},
		{name: "problem-not-found", code: ProblemNotFound, want: http.StatusNotFound},
		{name: "access-denied", code: AccessDenied, want: http.StatusForbidden},
		{name: "entry-forbidden", code: EntryForbidden, want: http.StatusForbidden},
		{name: "no-channel", code: ProblemNoChannel, want: http.StatusBadRequest},
		{name: "invalid-sort", code: InvalidSortField, want: http.StatusBadRequest},
		{name: "dispatch-conflict", code: DispatchConflict, want: http.StatusConflict},
		{name: "token-invalid", code: TokenInvalid, want: http.StatusUnauthorized},
		{name: "internal", code: InternalServerError, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.code.HTTPStatus(); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
