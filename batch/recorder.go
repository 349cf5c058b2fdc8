package batch

import (
	"context"
	"log/slog"
)

// Recorder receives named pipeline events.
type Recorder interface {
	RecordEvent(ctx context.Context, name string, attrs ...slog.Attr)
}

// Event names emitted by the pipeline
const (
	EventFileReceived        = "file.received"
	EventFileCompressed      = "file.compressed"
	EventFileMetadataApplied = "file.metadata_applied"
	EventFileEncrypted       = "file.encrypted"
	EventFileDone            = "file.done"
	EventFileFailed          = "file.failed"
	EventFileSkipped         = "file.skipped"
	EventBatchDone           = "batch.done"
	EventBatchEmpty          = "batch.empty"
)

// LogRecorder writes events through a slog.Logger.
type LogRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder returns a Recorder logging at debug level, or at warn level
// for failure events.
func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) RecordEvent(ctx context.Context, name string, attrs ...slog.Attr) {
	level := slog.LevelDebug
	switch name {
	case EventFileFailed, EventFileSkipped, EventBatchEmpty:
		level = slog.LevelWarn
	case EventBatchDone:
		level = slog.LevelInfo
	}
	r.logger.LogAttrs(ctx, level, "pipeline event", append([]slog.Attr{slog.String("event", name)}, attrs...)...)
}

// NopRecorder discards events.
type NopRecorder struct{}

func (NopRecorder) RecordEvent(context.Context, string, ...slog.Attr) {}
