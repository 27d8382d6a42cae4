package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = stderrors.New("sentinel")

func TestWrapKeepsCodeAndCause(t *testing.T) {
	err := Wrap(CodeExport, fmt.Errorf("mkdir: %w", errSentinel), "Downloading of the file could not be performed")

	assert.Equal(t, CodeExport, GetCode(err))
	assert.True(t, Is(err, errSentinel))
	assert.True(t, IsAppError(err))
	assert.Contains(t, err.Error(), "Downloading of the file could not be performed")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(CodeLoad, nil, "unused"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeInternal, GetCode(errSentinel))
	assert.Equal(t, CodeStatistics, GetCode(fmt.Errorf("outer: %w", New(CodeStatistics, "boom"))))
}

func TestTraceIncludesStack(t *testing.T) {
	err := New(CodeLoad, "bad workbook")

	trace := Trace(err)
	assert.Contains(t, trace, "bad workbook")
	assert.Contains(t, trace, "TestTraceIncludesStack")
	assert.Empty(t, Trace(nil))
}

func TestFromPanic(t *testing.T) {
	err := FromPanic(CodeOutlierRemediation, "Outlier removal or imputation could not be performed", "index out of range")

	assert.Equal(t, CodeOutlierRemediation, err.Code)
	assert.Contains(t, Trace(err), "panic: index out of range")
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "LoadError", CodeLoad.String())
	assert.Equal(t, "Code(42)", Code(42).String())
}
