package errors

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type AppError struct {
	Code            Code
	Message         string
	InternalDetails string
	IsUserFacing    bool
	SuggestedAction string
	WrappedError    error
	StackTrace      string
}

func (e *AppError) Error() string {
	if e.WrappedError != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.WrappedError)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.WrappedError
}

func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StackTrace: string(debug.Stack()),
	}
}

func NewUserFacing(code Code, message string, suggestion string) *AppError {
	return &AppError{
		Code:            code,
		Message:         message,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
		StackTrace:      string(debug.Stack()),
	}
}

// Wrap attaches a code and message to err. An existing AppError passes
// through unchanged to preserve its original context.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return &AppError{
		Code:         code,
		Message:      message,
		WrappedError: err,
		StackTrace:   string(debug.Stack()),
	}
}

// WrapUserFacing wraps err so that this layer's message is the one shown
// to the operator, keeping the original chain and stack.
func WrapUserFacing(err error, code Code, message string, suggestion string) *AppError {
	if err == nil {
		return nil
	}

	wrapped := &AppError{
		Code:            code,
		Message:         message,
		WrappedError:    err,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
		StackTrace:      string(debug.Stack()),
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		wrapped.InternalDetails = appErr.Error()
		wrapped.StackTrace = appErr.StackTrace
	}
	return wrapped
}

func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetUserFacingMessage finds the first user-facing message in the chain,
// falling back to a generic one.
func GetUserFacingMessage(err error) (string, string, bool) {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			break
		}
		if appErr.IsUserFacing {
			return appErr.Message, appErr.SuggestedAction, true
		}
		err = errors.Unwrap(appErr)
	}
	return "An unexpected error occurred.", "Check logs for more details.", false
}
