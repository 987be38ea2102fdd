package tablesplit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentError(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		name string
		err  *DocumentError
		want string
	}{
		{"full", &DocumentError{Operation: "open", Path: "a.docx", Cause: cause}, "document error during open of 'a.docx': permission denied"},
		{"no cause", &DocumentError{Operation: "open", Path: "a.docx"}, "document error during open of 'a.docx'"},
		{"no path", &DocumentError{Operation: "parse", Cause: cause}, "document error during parse: permission denied"},
		{"operation only", &DocumentError{Operation: "parse"}, "document error during parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	wrapped := fmt.Errorf("loading: %w", NewDocumentError("read", "x.xml", cause))
	assert.True(t, IsDocumentError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, IsDocumentError(cause))
}

func TestClassifierError(t *testing.T) {
	cause := errors.New("timeout")
	err := &ClassifierError{Attempt: 2, Cause: cause}
	assert.Equal(t, "classifier failed on attempt 2: timeout", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestVerificationFailedError(t *testing.T) {
	single := &VerificationFailedError{Attempts: 3, Errors: []VerificationError{{ErrorMsg: "区域'a'行数为0"}}}
	assert.Equal(t, "regions failed verification after 3 attempts: 区域'a'行数为0", single.Error())

	multi := &VerificationFailedError{Attempts: 1, Errors: []VerificationError{
		{ErrorMsg: "first"},
		{ErrorMsg: "second"},
	}}
	assert.Equal(t, "regions failed verification after 1 attempts with 2 errors:\n  [1] first\n  [2] second", multi.Error())

	assert.True(t, IsVerificationFailed(fmt.Errorf("wrap: %w", multi)))
	assert.False(t, IsVerificationFailed(errors.New("other")))
}

func TestWithContext(t *testing.T) {
	assert.Nil(t, WithContext(nil, "op", nil))

	err := WithContext(ErrNoTable, "parse sub-table", map[string]interface{}{"region": "items"})
	assert.Equal(t, "parse sub-table [region=items]: no table found", err.Error())
	assert.ErrorIs(t, err, ErrNoTable)

	bare := WithContext(ErrTableIndex, "select", nil)
	assert.Equal(t, "select: table index out of range", bare.Error())
}
