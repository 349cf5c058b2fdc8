package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"pdf_optimizer/pdf"
)

// Coordinator drives a FileProcessor over a batch and assembles the bundle.
type Coordinator struct {
	processor FileProcessor
	workers   int
	recorder  Recorder
	logger    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWorkers bounds how many files are processed at once. 1 processes
// the batch sequentially.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithRecorder sets the event recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCoordinator returns a Coordinator using processor for every file.
func NewCoordinator(processor FileProcessor, opts ...Option) *Coordinator {
	c := &Coordinator{
		processor: processor,
		workers:   runtime.NumCPU(),
		recorder:  NopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Process runs the batch. Files without a .pdf extension are skipped. The
// bundle keeps input order. Every temporary artifact is released before
// Process returns, whatever the outcome.
func (c *Coordinator) Process(ctx context.Context, req Request) (*Bundle, error) {
	statuses := make([]FileStatus, len(req.Files))
	results := make([]*Result, len(req.Files))

	// runs after the bundle bytes have been read
	defer c.release(results)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, file := range req.Files {
		if file.Reject != nil {
			statuses[i] = c.skip(ctx, file.Filename, file.Reject)
			continue
		}
		if !HasPDFExtension(file.Filename) {
			statuses[i] = c.skip(ctx, file.Filename, ErrUnsupportedFileType)
			continue
		}

		i, file := i, file
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := c.processor.Process(gctx, file, req.Level, req.Overrides)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var succeeded []*Result
	for i, r := range results {
		if r == nil {
			continue
		}
		statuses[i] = r.Status
		if r.Succeeded() {
			succeeded = append(succeeded, r)
		}
	}

	done, failed, skipped := countStates(statuses)
	attrs := []slog.Attr{
		slog.Int("submitted", len(req.Files)),
		slog.Int("done", done),
		slog.Int("failed", failed),
		slog.Int("skipped", skipped),
	}

	if len(succeeded) == 0 {
		c.recorder.RecordEvent(ctx, EventBatchEmpty, attrs...)
		return nil, &BatchError{Files: statuses, Err: ErrBatchEmpty}
	}

	bundle, err := Aggregate(succeeded)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble output: %w", err)
	}
	bundle.Files = statuses

	c.recorder.RecordEvent(ctx, EventBatchDone, append(attrs, slog.String("bundle", bundle.Filename))...)
	return bundle, nil
}

// skip records a file excluded before processing
func (c *Coordinator) skip(ctx context.Context, filename string, reason error) FileStatus {
	c.logger.Warn("Skipping file", "filename", filename, "reason", reason)
	c.recorder.RecordEvent(ctx, EventFileSkipped, slog.String("filename", filename), slog.String("reason", reason.Error()))
	return FileStatus{Filename: filename, State: StateSkipped, Error: reason.Error()}
}

// release deletes the artifacts of every attempted file
func (c *Coordinator) release(results []*Result) {
	for _, r := range results {
		if r == nil || r.Artifact == nil {
			continue
		}
		if err := r.Artifact.Release(); err != nil {
			c.logger.Warn("Failed to remove temporary artifact", "filename", r.Status.Filename, "artifact", r.Artifact.ID, "error", err)
		}
	}
}

// HasPDFExtension reports whether filename ends in .pdf, ignoring case.
func HasPDFExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), pdf.Extension)
}
