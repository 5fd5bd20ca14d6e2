package utils

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Constructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantCode   string
		wantStatus int
	}{
		{"conflict", Conflict("duplicate"), "CONFLICT", 409},
		{"unauthorized", Unauthorized("nope"), "UNAUTHORIZED", 401},
		{"forbidden", Forbidden("denied"), "FORBIDDEN", 403},
		{"not found", NotFound("missing"), "NOT_FOUND", 404},
		{"bad request", BadRequest("malformed"), "BAD_REQUEST", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
		})
	}
}

func TestAPIError_ErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NotFound("User not found"))

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatalf("errors.As() should unwrap *APIError")
	}
	if apiErr.Message != "User not found" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "User not found")
	}
	if wrapped.Error() != "handling request: User not found" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}
