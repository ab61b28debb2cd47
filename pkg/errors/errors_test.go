package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"unauthenticated", Unauthenticated("sign in"), CodeUnauthenticated, http.StatusUnauthorized},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"validation", Validation("bad request", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"not found", NotFound("Property"), CodeNotFound, http.StatusNotFound},
		{"forbidden", Forbidden("no access"), CodeForbidden, http.StatusForbidden},
		{"property unavailable", PropertyUnavailable("rented"), CodePropertyUnavailable, http.StatusBadRequest},
		{"date conflict", DateConflict("already booked", nil), CodeDateConflict, http.StatusBadRequest},
		{"timeout", Timeout("deadline"), CodeTimeout, http.StatusGatewayTimeout},
		{"store unavailable", StoreUnavailable("down", nil), CodeStoreUnavailable, http.StatusServiceUnavailable},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	plain := DateConflict("These dates are already booked", nil)
	if got := plain.Error(); got != "DATE_CONFLICT: These dates are already booked" {
		t.Errorf("unexpected error string: %s", got)
	}

	cause := fmt.Errorf("connection refused")
	wrapped := StoreUnavailable("store down", cause)
	if got := wrapped.Error(); got != "STORE_UNAVAILABLE: store down (caused by: connection refused)" {
		t.Errorf("unexpected error string: %s", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Internal("wrapper", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if Unauthenticated("no cause").Unwrap() != nil {
		t.Error("expected nil unwrap when there is no cause")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")

	if err.Message != "Booking not found" {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if err.Details["id"] != "abc123" || err.Details["resource"] != "Booking" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestToJSON(t *testing.T) {
	err := DateConflict("These dates are already booked", map[string]any{
		"conflict_start": "2024-07-01",
		"conflict_end":   "2024-07-07",
	})

	var resp ErrorResponse
	if unmarshalErr := json.Unmarshal(err.ToJSON(), &resp); unmarshalErr != nil {
		t.Fatalf("failed to unmarshal: %v", unmarshalErr)
	}
	if resp.Error != "These dates are already booked" {
		t.Errorf("unexpected error field: %s", resp.Error)
	}
	if resp.Details["conflict_start"] != "2024-07-01" {
		t.Errorf("unexpected details: %v", resp.Details)
	}

	// The internal cause must never leak onto the wire.
	leaky := Internal("something broke", fmt.Errorf("password=hunter2"))
	if data := string(leaky.ToJSON()); data != `{"error":"something broke"}` {
		t.Errorf("unexpected serialization: %s", data)
	}
}

func TestAsAppError(t *testing.T) {
	original := Forbidden("no access")
	if got := AsAppError(original); got != original {
		t.Error("expected AsAppError to return the same AppError")
	}

	plain := fmt.Errorf("plain failure")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected internal code, got %s", converted.Code)
	}
	if !errors.Is(converted, plain) {
		t.Error("expected the plain error to be preserved as the cause")
	}

	if IsAppError(plain) {
		t.Error("plain errors must not be treated as AppError")
	}
	if !IsAppError(original) {
		t.Error("AppError not recognized")
	}
}

func TestWithDetails(t *testing.T) {
	err := InvalidInput("bad range").WithDetails(map[string]any{"field": "end_date"})
	if err.Details["field"] != "end_date" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}
