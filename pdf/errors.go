package pdf

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineNotFound means no Ghostscript executable could be resolved.
	ErrEngineNotFound = errors.New("ghostscript executable not found")

	// ErrCompressionFailed is matched by every *CompressionError.
	ErrCompressionFailed = errors.New("compression failed")

	// ErrMetadataRewriteFailed wraps pdfcpu read, write and encrypt failures.
	ErrMetadataRewriteFailed = errors.New("metadata rewrite failed")
)

// CompressionError carries the engine diagnostics of a failed run.
type CompressionError struct {
	ExitCode int
	Output   string
	Err      error
}

func (e *CompressionError) Error() string {
	msg := fmt.Sprintf("ghostscript exited with code %d", e.ExitCode)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Output != "" {
		msg += "\nOutput: " + truncate(e.Output, 500)
	}
	return msg
}

func (e *CompressionError) Unwrap() error { return e.Err }

func (e *CompressionError) Is(target error) bool {
	return target == ErrCompressionFailed
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
