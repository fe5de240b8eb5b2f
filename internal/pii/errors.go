package pii

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures so callers can branch without
// inspecting messages.
type ErrorKind string

const (
	// KindConfiguration covers invalid settings, spans, and languages.
	KindConfiguration ErrorKind = "configuration"
	// KindAnalysis covers detection backend failures.
	KindAnalysis ErrorKind = "analysis"
	// KindProcessing covers pipeline failures; the cause is always chained.
	KindProcessing ErrorKind = "processing"
)

// Error is the engine's error type. It implements Unwrap so errors.Is and
// errors.As reach the chained cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewConfigurationError builds a KindConfiguration error.
func NewConfigurationError(msg string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: msg, Err: err}
}

// NewAnalysisError builds a KindAnalysis error.
func NewAnalysisError(msg string, err error) *Error {
	return &Error{Kind: KindAnalysis, Message: msg, Err: err}
}

// NewProcessingError builds a KindProcessing error.
func NewProcessingError(msg string, err error) *Error {
	return &Error{Kind: KindProcessing, Message: msg, Err: err}
}

// IsKind reports whether any Error in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
