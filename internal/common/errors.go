package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")
	ErrUnsupported  = errors.New("unsupported input")
)

// FailureKind classifies why an extraction round (or the whole run) failed.
type FailureKind string

const (
	FailureUnsupportedInput FailureKind = "UNSUPPORTED_INPUT"
	FailureTransport        FailureKind = "TRANSPORT_FAILURE"
	FailureUnparsable       FailureKind = "UNPARSABLE"
	FailureSchemaInvalid    FailureKind = "SCHEMA_INVALID"
	FailurePolicyIncomplete FailureKind = "POLICY_INCOMPLETE"
	FailureRetryExhausted   FailureKind = "RETRY_EXHAUSTED"
)

// ExtractionError is the terminal error of an extraction run. Last holds the
// failure kind of the final round when Kind is FailureRetryExhausted.
type ExtractionError struct {
	Kind     FailureKind
	Last     FailureKind
	Attempts int
	Detail   string
	Missing  []string // mandatory fields still absent when Last is POLICY_INCOMPLETE
	Cause    error
}

func (e *ExtractionError) Error() string {
	msg := string(e.Kind)
	if e.Kind == FailureRetryExhausted && e.Last != "" {
		msg = fmt.Sprintf("%s after %d attempts (last: %s)", msg, e.Attempts, e.Last)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// FailureKindOf returns the kind carried by err, or "" when err is not an
// ExtractionError.
func FailureKindOf(err error) FailureKind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// StatusFromError maps extraction failures onto gRPC status codes.
func StatusFromError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && status.Code(err) != codes.Unknown {
		return err
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		switch {
		case ee.Kind == FailureUnsupportedInput:
			return status.Error(codes.InvalidArgument, ee.Error())
		case ee.Kind == FailureTransport, ee.Last == FailureTransport:
			return status.Error(codes.Unavailable, "model endpoint unavailable, please retry")
		default:
			// round detail stays in the logs
			return status.Error(codes.Internal, "extraction failed, please retry")
		}
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupported):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
