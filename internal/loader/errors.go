package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRow signals an input row that cannot be turned into a document.
	ErrInvalidRow = errors.New("invalid row")
	// ErrUnknownDataset signals an unsupported dataset name.
	ErrUnknownDataset = errors.New("unknown dataset")
)

// RowError locates a rejected input row.
type RowError struct {
	File string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

func invalidRow(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRow, fmt.Sprintf(format, args...))
}
