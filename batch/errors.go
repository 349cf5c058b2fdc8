package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrBatchEmpty means no file of the batch was processed successfully.
	ErrBatchEmpty = errors.New("no file could be processed")

	// ErrUnsupportedFileType marks inputs skipped for their extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge marks inputs skipped by the transport size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// BatchError carries the per-file statuses of a batch that produced no output.
type BatchError struct {
	Files []FileStatus
	Err   error
}

func (e *BatchError) Error() string {
	done, failed, skipped := countStates(e.Files)
	return fmt.Sprintf("%v (done=%d failed=%d skipped=%d)", e.Err, done, failed, skipped)
}

func (e *BatchError) Unwrap() error { return e.Err }
