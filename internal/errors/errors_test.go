package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := NewFormatError(CodeMalformedTable, "row 3 has 4 fields, header has 5")
	assert.Equal(t, "[FORMAT:MALFORMED_TABLE] row 3 has 4 fields, header has 5", err.Error())

	cause := errors.New("unexpected EOF")
	wrapped := WrapFormatError(CodeMalformedSidecar, "parsing sidecar", cause)
	assert.Contains(t, wrapped.Error(), "unexpected EOF")
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestError_IsMatchesCategoryAndCode(t *testing.T) {
	err := NewConfigError(CodeMissingTaskID, "no task label in path")
	target := New(ErrCategoryConfig, CodeMissingTaskID, "different message")

	assert.True(t, errors.Is(err, target))
	assert.False(t, errors.Is(err, New(ErrCategoryConfig, CodeInvalidConfig, "")))
}

func TestError_PredicatesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading table: %w", NewColumnError("no column named \"onset\""))

	assert.True(t, IsMissingColumn(err))
	assert.False(t, IsMissingTaskID(err))
	assert.False(t, IsFormat(err))
	assert.Equal(t, ErrCategoryColumn, GetCategory(err))
	assert.Equal(t, CodeMissingColumn, GetCode(err))
}

func TestError_PredicatesOnPlainError(t *testing.T) {
	err := errors.New("plain")

	assert.False(t, IsUnsupportedFormat(err))
	assert.False(t, IsMissingColumn(err))
	assert.Equal(t, ErrorCategory(""), GetCategory(err))
	assert.Equal(t, "", GetCode(err))
}

func TestError_WithDetails(t *testing.T) {
	base := NewFormatError(CodeUnsupportedFormat, "cannot load file.dat")
	detailed := base.WithDetails(map[string]interface{}{"path": "file.dat"})

	assert.Nil(t, base.Details)
	assert.Equal(t, "file.dat", detailed.Details["path"])
	assert.True(t, errors.Is(detailed, base))
}
