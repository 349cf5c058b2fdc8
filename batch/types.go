package batch

import (
	"io"

	"pdf_optimizer/pdf"
)

// UploadedFile is a caller-owned document stream with its declared name.
// A non-nil Reject marks a file the caller already refused; it is reported
// as skipped without being processed.
type UploadedFile struct {
	Filename string
	Content  io.Reader
	Reject   error
}

// Request is one batch: every file shares the level and overrides.
type Request struct {
	Files     []UploadedFile
	Level     pdf.Level
	Overrides pdf.Overrides
}

// State is the terminal state of a submitted file.
type State string

const (
	StateDone    State = "done"
	StateFailed  State = "failed"
	StateSkipped State = "skipped"
)

// FileStatus reports what happened to one submitted file.
type FileStatus struct {
	Filename       string  `json:"filename"`
	State          State   `json:"state"`
	Error          string  `json:"error,omitempty"`
	OriginalSize   int64   `json:"original_size,omitempty"`
	CompressedSize int64   `json:"compressed_size,omitempty"`
	Ratio          float64 `json:"ratio,omitempty"`
}

// Result is the outcome of one FileProcessor run. Artifact is set whenever
// temporary files were created, including for failed runs.
type Result struct {
	Artifact *Artifact
	Status   FileStatus
}

// Succeeded reports whether the result carries a usable output file.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status.State == StateDone && r.Artifact != nil
}

// Bundle is the deliverable of a batch.
type Bundle struct {
	Filename    string
	ContentType string
	Data        []byte
	Files       []FileStatus
}

// Counts tallies the per-file states of the bundle.
func (b *Bundle) Counts() (done, failed, skipped int) {
	return countStates(b.Files)
}

func countStates(files []FileStatus) (done, failed, skipped int) {
	for _, f := range files {
		switch f.State {
		case StateDone:
			done++
		case StateFailed:
			failed++
		case StateSkipped:
			skipped++
		}
	}
	return done, failed, skipped
}
