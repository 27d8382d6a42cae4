package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// State errors
	ErrNoDataset = errors.New("no dataset loaded")

	// Schema errors
	ErrColumnNotFound   = errors.New("column not found")
	ErrDuplicateColumn  = errors.New("duplicate column")
	ErrRowCountMismatch = errors.New("row count mismatch")
	ErrNotContinuous    = errors.New("column is not continuous")

	// Input errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyTable        = errors.New("table has no header row")
	ErrEmptySelection    = errors.New("no columns selected")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrFileTooLarge      = errors.New("file exceeds the upload size limit")

	// Computation errors
	ErrNoValues         = errors.New("column has no non-missing values")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

func NewNoValuesError(name string) error {
	return fmt.Errorf("%w: %s", ErrNoValues, name)
}

func NewNotContinuousError(name string) error {
	return fmt.Errorf("%w: %s", ErrNotContinuous, name)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrFileTooLarge)
}
