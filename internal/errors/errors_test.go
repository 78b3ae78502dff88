package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignerErrorError(t *testing.T) {
	err := &DesignerError{
		Code:      "ERR_TEST",
		Component: "registry",
		Message:   "something failed",
		Cause:     errors.New("root cause"),
	}

	assert.Equal(t, "[ERR_TEST] component:registry something failed: root cause", err.Error())
}

func TestDesignerErrorIs(t *testing.T) {
	err := ErrDuplicateRegistration("extension registry", "a/b/c")

	assert.True(t, errors.Is(err, &DesignerError{Type: ErrorTypeRegistration, Code: ErrCodeDuplicateRegistration}))
	assert.False(t, errors.Is(err, &DesignerError{Type: ErrorTypeRange, Code: ErrCodeIndexOutOfRange}))
}

func TestIsDuplicateRegistration(t *testing.T) {
	err := ErrDuplicateRegistration("instance map bridge", "github.com/org/repo")

	assert.True(t, IsDuplicateRegistration(err))
	assert.True(t, IsDuplicateRegistration(fmt.Errorf("startup: %w", err)))
	assert.False(t, IsDuplicateRegistration(errors.New("plain")))
	assert.False(t, IsRecoverable(err))
	assert.Equal(t, "github.com/org/repo", err.Context["key"])
}

func TestErrIndexOutOfRange(t *testing.T) {
	err := ErrIndexOutOfRange(3, 2)

	assert.True(t, IsOutOfRange(err))
	assert.Contains(t, err.Error(), "index 3 out of range [0, 2)")
	assert.Equal(t, 3, err.Context["index"])
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "X", "y"))

	base := errors.New("disk")
	wrapped := WrapIO(base, ErrCodeFileNotFound, "reading page model")
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeIO, wrapped.Type)
	assert.False(t, wrapped.Recoverable)
	assert.True(t, errors.Is(wrapped, base))

	validation := WrapValidation(ErrInvalidLocator("x").WithComponent("registry"), ErrCodeValidationFailed, "bad input")
	assert.Equal(t, "registry", validation.Component)
	assert.True(t, validation.Recoverable)
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "", FormatError(nil))
	assert.Equal(t, "plain", FormatError(errors.New("plain")))
	assert.Contains(t, FormatError(ErrInvalidLocator("nope")), ErrCodeInvalidLocator)
}

func TestErrorCollector(t *testing.T) {
	collector := NewErrorCollector()
	assert.False(t, collector.HasErrors())
	assert.NoError(t, collector.Err(ErrCodeInvalidPageModel, "invalid"))

	collector.AddError(nil)
	collector.AddError(errors.New("first"))
	collector.AddError(errors.New("second"))

	assert.True(t, collector.HasErrors())
	assert.Len(t, collector.GetAllErrors(), 2)

	err := collector.Err(ErrCodeInvalidPageModel, "invalid page model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first; second")
	assert.True(t, IsRecoverable(err))

	collector.Clear()
	assert.False(t, collector.HasErrors())
}
