package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeCheckpoint ErrorType = "checkpoint"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a scrape error with type information
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error wrapping an underlying cause (which may be nil).
func New(errorType ErrorType, message string, err error) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// IsFatal reports whether an error type must abort the run. Parsing errors
// are always recovered locally; everything touching persisted state or the
// browser session is not.
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeCheckpoint, ErrorTypeOutput, ErrorTypeNavigation:
		return true
	case ErrorTypeParsing:
		return false
	default:
		return false
	}
}
