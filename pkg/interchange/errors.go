package interchange

import (
	"errors"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrUnknownFormat means the detector could not classify the input.
	ErrUnknownFormat = errors.New("unable to detect format from content")

	// ErrUnsupportedFormat means the format is recognized but has no
	// converter in the requested direction.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidNativeFormat is returned when a native backup lacks its
	// gostman envelope.
	ErrInvalidNativeFormat = errors.New("Invalid Gostman export format") //nolint:staticcheck // user-facing message
)

// ImportError represents an error during import.
type ImportError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	msg := e.Message
	if e.Format != "" && e.Format != FormatUnknown {
		msg = string(e.Format) + ": " + msg
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// ExportError represents an error during export.
type ExportError struct {
	Format  ExportFormat
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	msg := e.Message
	if e.Format != "" {
		msg = string(e.Format) + ": " + msg
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
