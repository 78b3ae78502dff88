package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a DesignerError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *DesignerError {
	if err == nil {
		return nil
	}

	// Keep the component and recoverability of an existing DesignerError
	var de *DesignerError
	if errors.As(err, &de) {
		return &DesignerError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       de,
			Context:     de.Context,
			Component:   de.Component,
			Recoverable: de.Recoverable,
		}
	}

	return &DesignerError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation,
	}
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *DesignerError {
	de := Wrap(err, ErrorTypeIO, code, message)
	if de != nil {
		de.Recoverable = false
	}
	return de
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *DesignerError {
	de := Wrap(err, ErrorTypeConfig, code, message)
	if de != nil {
		de.Recoverable = false
	}
	return de
}

// WrapValidation wraps an error as a validation error
func WrapValidation(err error, code, message string) *DesignerError {
	return Wrap(err, ErrorTypeValidation, code, message)
}

// FormatError formats an error for user display
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var de *DesignerError
	if errors.As(err, &de) {
		return de.Error()
	}

	return err.Error()
}
