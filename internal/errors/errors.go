package errors

import (
	"errors"
	"strings"
	"sync"
)

// ErrorCollector collects validation problems so that a loader can report
// every defect of a document at once instead of stopping at the first one.
type ErrorCollector struct {
	errors []error
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]error, 0),
	}
}

// AddError adds an error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetAllErrors returns a copy of the collected errors
func (ec *ErrorCollector) GetAllErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	result := make([]error, len(ec.errors))
	copy(result, ec.errors)
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = ec.errors[:0]
}

// Err folds the collected errors into a single validation error, or returns
// nil when nothing was collected.
func (ec *ErrorCollector) Err(code, message string) error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	if len(ec.errors) == 0 {
		return nil
	}

	messages := make([]string, len(ec.errors))
	for i, err := range ec.errors {
		messages[i] = err.Error()
	}

	return &DesignerError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message + ": " + strings.Join(messages, "; "),
		Cause:       errors.Join(ec.errors...),
		Recoverable: true,
	}
}
