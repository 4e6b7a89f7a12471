package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("admins only"), http.StatusForbidden},
		{NotFound("ledger not found"), http.StatusNotFound},
		{Validation("amount must be positive"), http.StatusBadRequest},
		{InvalidState("nothing pending"), http.StatusConflict},
		{errors.New("database on fire"), http.StatusInternalServerError},
		{fmt.Errorf("resolving request: %w", InvalidState("nothing pending")), http.StatusConflict},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestExpected(t *testing.T) {
	if !Expected(NotFound("record not found")) {
		t.Error("NotFound should be expected")
	}
	if Expected(errors.New("broken pipe")) {
		t.Error("untyped errors are internal, not expected")
	}
}

func TestWrapperMessages(t *testing.T) {
	err := Validation("payment_mode is required")
	if !errors.Is(err, ErrValidation) {
		t.Error("wrapper must satisfy errors.Is against its sentinel")
	}
	if err.Error() != "validation failed: payment_mode is required" {
		t.Errorf("message = %q", err.Error())
	}
}
