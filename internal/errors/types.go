// Package errors provides the structured error type shared by the designer
// runtime, together with the error codes raised by the registries, the tree
// index and the page model loader.
//
// Absence is never an error in this codebase: lookups that miss return nil
// values or empty slices. Errors are reserved for programmer misuse that must
// not be silently ignored, such as registering two component packages under
// the same repository locator.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeRegistration ErrorType = "registration"
	ErrorTypeRange        ErrorType = "range"
	ErrorTypeIO           ErrorType = "io"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeInternal     ErrorType = "internal"
)

// Error codes
const (
	ErrCodeDuplicateRegistration = "ERR_DUPLICATE_REGISTRATION"
	ErrCodeIndexOutOfRange       = "ERR_INDEX_OUT_OF_RANGE"
	ErrCodeInvalidLocator        = "ERR_INVALID_LOCATOR"
	ErrCodeInvalidPageModel      = "ERR_INVALID_PAGE_MODEL"
	ErrCodeConfigInvalid         = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound          = "ERR_FILE_NOT_FOUND"
	ErrCodeValidationFailed      = "ERR_VALIDATION_FAILED"
	ErrCodeInternalError         = "ERR_INTERNAL"
)

// DesignerError is a structured error type with context.
type DesignerError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *DesignerError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DesignerError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *DesignerError) Is(target error) bool {
	var t *DesignerError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *DesignerError) WithContext(key string, value interface{}) *DesignerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *DesignerError) WithComponent(component string) *DesignerError {
	e.Component = component

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *DesignerError {
	return &DesignerError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewRegistrationError creates a registration error. Registration errors are
// fatal to the registration attempt and never recoverable.
func NewRegistrationError(code, message string) *DesignerError {
	return &DesignerError{
		Type:        ErrorTypeRegistration,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewRangeError creates an index range error.
func NewRangeError(code, message string) *DesignerError {
	return &DesignerError{
		Type:        ErrorTypeRange,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var de *DesignerError
	if errors.As(err, &de) {
		return de.Recoverable
	}

	return false
}

// IsDuplicateRegistration reports whether err was raised because a repository
// locator key was already occupied.
func IsDuplicateRegistration(err error) bool {
	var de *DesignerError
	if errors.As(err, &de) {
		return de.Code == ErrCodeDuplicateRegistration
	}

	return false
}

// IsOutOfRange reports whether err is an index range error.
func IsOutOfRange(err error) bool {
	var de *DesignerError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeRange
	}

	return false
}

// ErrDuplicateRegistration reports that key already holds an entry in the
// named registry.
func ErrDuplicateRegistration(registry, key string) *DesignerError {
	return NewRegistrationError(
		ErrCodeDuplicateRegistration,
		fmt.Sprintf("%s already holds an entry for %s", registry, key),
	).WithContext("key", key).WithComponent(registry)
}

// ErrIndexOutOfRange reports an index outside [0, length).
func ErrIndexOutOfRange(index, length int) *DesignerError {
	return NewRangeError(
		ErrCodeIndexOutOfRange,
		fmt.Sprintf("index %d out of range [0, %d)", index, length),
	).WithContext("index", index).WithContext("length", length)
}

// ErrInvalidLocator reports a repository locator that is not website/owner/repoName.
func ErrInvalidLocator(locator string) *DesignerError {
	return NewValidationError(ErrCodeInvalidLocator, "invalid repository locator: "+locator)
}
