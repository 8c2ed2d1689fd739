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
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")
)

// Failures raised at the I/O boundaries of the extraction and summarization pipeline.
// They never cross the public contract of the extraction engine or the summarizer.
var (
	ErrDecode        = errors.New("image decode failed")
	ErrParse         = errors.New("pdf parse failed")
	ErrRender        = errors.New("pdf render failed")
	ErrRecognition   = errors.New("text recognition failed")
	ErrRemoteService = errors.New("remote service failed")
)

// Codes used with the failure taxonomy above.
const (
	CodeDecodeFailure        = "DECODE_FAILURE"
	CodeParseFailure         = "PARSE_FAILURE"
	CodeRenderFailure        = "RENDER_FAILURE"
	CodeRecognitionFailure   = "RECOGNITION_FAILURE"
	CodeRemoteServiceFailure = "REMOTE_SERVICE_FAILURE"
	CodeConfigError          = "CONFIG_ERROR"
	CodeDatabaseError        = "DATABASE_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode returns the AppError code in err's chain, or "" when there is none.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// ToStatus maps an application error onto a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrRemoteService):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
