package stardots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// TestStatusError tests StatusError formatting and unwrapping
func TestStatusError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StatusError
		contains []string
	}{
		{
			name:     "status only",
			err:      &StatusError{StatusCode: 502},
			contains: []string{"unexpected status code", "502"},
		},
		{
			name:     "with message",
			err:      &StatusError{StatusCode: 401, Code: 40100, Message: "signature mismatch"},
			contains: []string{"401", "signature mismatch", "code 40100"},
		},
		{
			name:     "with request id",
			err:      &StatusError{StatusCode: 500, Code: 50000, Message: "internal", RequestID: "req-1"},
			contains: []string{"500", "internal", "request req-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error %q does not contain %q", msg, s)
				}
			}
			if !errors.Is(tt.err, ErrUnexpectedStatus) {
				t.Error("StatusError should unwrap to ErrUnexpectedStatus")
			}
		})
	}
}

func TestNewStatusError(t *testing.T) {
	se := newStatusError(401, []byte(`{"code":40100,"message":"unknown client key","requestId":"r9","success":false,"ts":1}`))
	if se.StatusCode != 401 || se.Code != 40100 || se.Message != "unknown client key" || se.RequestID != "r9" {
		t.Errorf("envelope fields not copied: %+v", se)
	}

	plain := newStatusError(502, []byte("bad gateway"))
	if plain.Code != 0 || plain.Message != "" {
		t.Errorf("expected empty business fields, got %+v", plain)
	}
	if string(plain.Body) != "bad gateway" {
		t.Errorf("body not kept: %q", plain.Body)
	}
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Op: "upload file", After: 5 * time.Millisecond, Err: errors.New("net/http: request canceled")}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError should match context.DeadlineExceeded")
	}
	var netErr interface{ Timeout() bool }
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Error("TimeoutError should report Timeout() like net.Error")
	}
	if err.After != 5*time.Millisecond {
		t.Errorf("after: %v", err.After)
	}
	if !strings.Contains(err.Error(), "upload file") || !strings.Contains(err.Error(), "5ms") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestTransportError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &TransportError{Op: "space list", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("TransportError should unwrap to its cause")
	}
	if err.Error() != "space list: connection refused" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Code: ErrCodeInvalidRequest, Message: "space cannot be empty"}
	if err.Error() != "validation error: space cannot be empty" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

// TestErrorPredicates checks every predicate against every error kind, wrapped
func TestErrorPredicates(t *testing.T) {
	errs := map[string]error{
		"timeout":    &TimeoutError{Op: "op", Err: context.DeadlineExceeded},
		"transport":  &TransportError{Op: "op", Err: errors.New("x")},
		"status":     &StatusError{StatusCode: 500},
		"decode":     &DecodeError{StatusCode: 200, Err: errors.New("x")},
		"validation": &ValidationError{Code: ErrCodeInvalidRequest},
	}
	predicates := map[string]func(error) bool{
		"timeout":    IsTimeout,
		"transport":  IsTransportError,
		"status":     IsStatusError,
		"decode":     IsDecodeError,
		"validation": IsValidationError,
	}

	for errName, err := range errs {
		wrapped := fmt.Errorf("wrapped: %w", err)
		for predName, pred := range predicates {
			want := errName == predName
			if got := pred(wrapped); got != want {
				t.Errorf("%s(%s) = %v, want %v", predName, errName, got, want)
			}
		}
	}

	for predName, pred := range predicates {
		if pred(nil) {
			t.Errorf("%s(nil) should be false", predName)
		}
	}
}

func TestErrorCodes(t *testing.T) {
	if ErrCodeInvalidRequest != "INVALID_REQUEST" {
		t.Errorf("ErrCodeInvalidRequest = %s", ErrCodeInvalidRequest)
	}
	if ErrCodeSchemaViolation != "SCHEMA_VIOLATION" {
		t.Errorf("ErrCodeSchemaViolation = %s", ErrCodeSchemaViolation)
	}
}
