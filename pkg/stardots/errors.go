package stardots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stardots-io/stardots-sdk-go/pkg/api"
)

// Error codes
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeSchemaViolation = "SCHEMA_VIOLATION"
)

// Common errors
var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// DecodeError reports a 2xx response whose body is not a JSON envelope.
type DecodeError = api.DecodeError

// TimeoutError reports a call that did not complete within its timeout.
// errors.Is(err, context.DeadlineExceeded) holds for every TimeoutError.
type TimeoutError struct {
	Op    string
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %v: %v", e.Op, e.After, e.Err)
}

func (e *TimeoutError) Unwrap() []error {
	return []error{e.Err, context.DeadlineExceeded}
}

// Timeout always reports true, mirroring net.Error.
func (e *TimeoutError) Timeout() bool {
	return true
}

// TransportError represents a failure to complete the HTTP exchange.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError represents an HTTP status outside the 2xx range. When the body
// was a response envelope its business fields are copied here.
type StatusError struct {
	StatusCode int
	Code       int
	Message    string
	RequestID  string
	Body       []byte
}

func (e *StatusError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%v: %d: %s (code %d, request %s)", ErrUnexpectedStatus, e.StatusCode, e.Message, e.Code, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("%v: %d: %s (code %d)", ErrUnexpectedStatus, e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("%v: %d", ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// ValidationError represents invalid request data caught before sending.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// IsTimeout returns true if the call failed because its timeout expired.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsTransportError returns true if the HTTP exchange itself failed.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStatusError returns true if the server answered outside the 2xx range.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsDecodeError returns true if a successful response could not be decoded.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsValidationError returns true if the error indicates invalid request data.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func newStatusError(statusCode int, body []byte) *StatusError {
	se := &StatusError{
		StatusCode: statusCode,
		Body:       body,
	}
	var envelope api.CommonResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		se.Code = envelope.Code
		se.Message = envelope.Message
		se.RequestID = envelope.RequestId
	}
	return se
}
