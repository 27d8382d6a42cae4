// Package errors carries the engine's numeric failure kinds together with a
// stack-bearing cause, so that any failure can be rendered as a diagnostic
// trace without letting it cross the engine boundary.
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Code is a numeric failure kind. Zero means success.
type Code int

// Failure kinds, one per engine operation
const (
	CodeOK                   Code = 0
	CodeLoad                 Code = 101
	CodeIntegrityCheck       Code = 102
	CodeTrend                Code = 103
	CodeIntegrityRemediation Code = 104
	CodeForeignRemediation   Code = 105
	CodeStatistics           Code = 106
	CodeBoxPlot              Code = 107
	CodeExport               Code = 108
	CodeOutlierRemediation   Code = 109
	CodeDistribution         Code = 110
	CodeInternal             Code = 500
)

var codeNames = map[Code]string{
	CodeOK:                   "OK",
	CodeLoad:                 "LoadError",
	CodeIntegrityCheck:       "IntegrityCheckError",
	CodeTrend:                "TrendError",
	CodeIntegrityRemediation: "IntegrityRemediationError",
	CodeForeignRemediation:   "ForeignRemediationError",
	CodeStatistics:           "StatisticsError",
	CodeBoxPlot:              "BoxPlotError",
	CodeExport:               "ExportError",
	CodeOutlierRemediation:   "OutlierRemediationError",
	CodeDistribution:         "DistributionError",
	CodeInternal:             "InternalError",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// AppError represents a structured engine failure
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError whose cause records the caller's stack
func New(code Code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   crdb.NewWithDepth(1, message),
	}
}

// Wrap attaches a failure kind and a human-readable message to err and
// records the caller's stack
func Wrap(code Code, err error, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   crdb.WithStackDepth(err, 1),
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(code Code, err error, format string, args ...interface{}) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   crdb.WithStackDepth(err, 1),
	}
}

// WithStack annotates err with the caller's stack without changing its
// identity for Is/As
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return crdb.WithStackDepth(err, 1)
}

// FromPanic converts a recovered panic value into an AppError
func FromPanic(code Code, message string, recovered interface{}) *AppError {
	var cause error
	if err, ok := recovered.(error); ok {
		cause = crdb.WithStackDepth(err, 2)
	} else {
		cause = crdb.NewWithDepthf(2, "panic: %v", recovered)
	}
	return &AppError{Code: code, Message: message, Cause: cause}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return crdb.As(err, &appErr)
}

// GetCode returns the failure kind, CodeOK for nil and CodeInternal for
// errors that never went through this package
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var appErr *AppError
	if crdb.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Trace renders the verbose form of err, including every recorded stack
func Trace(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if crdb.As(err, &appErr) && appErr.Cause != nil {
		return fmt.Sprintf("%+v", appErr.Cause)
	}
	return fmt.Sprintf("%+v", err)
}

// Is and As re-export the stack-aware helpers so callers need a single import
var (
	Is = crdb.Is
	As = crdb.As
)
