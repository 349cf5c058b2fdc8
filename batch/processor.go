package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pdf_optimizer/pdf"
)

// intermediate files written next to the output before the final rename
const (
	metaTempSuffix = ".meta.tmp"
	encTempSuffix  = ".enc.tmp"
)

// FileProcessor runs one uploaded file through the pipeline.
type FileProcessor interface {
	Process(ctx context.Context, file UploadedFile, level pdf.Level, overrides pdf.Overrides) (*Result, error)
}

// Processor sequences compression, metadata rewrite and optional encryption
// for a single file. Failures are contained in the returned Result; only a
// missing compression engine is returned as an error.
type Processor struct {
	workDir    string
	compressor pdf.Compressor
	engine     pdf.MetadataEngine
	recorder   Recorder
	logger     *slog.Logger
}

// NewProcessor wires a Processor writing its artifacts into workDir.
func NewProcessor(workDir string, compressor pdf.Compressor, engine pdf.MetadataEngine, recorder Recorder, logger *slog.Logger) *Processor {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		workDir:    workDir,
		compressor: compressor,
		engine:     engine,
		recorder:   recorder,
		logger:     logger,
	}
}

// Process moves the file through Received, Compressed, MetadataApplied,
// Encrypted and Done, or stops at Failed.
func (p *Processor) Process(ctx context.Context, file UploadedFile, level pdf.Level, overrides pdf.Overrides) (res *Result, fatal error) {
	res = &Result{Status: FileStatus{Filename: file.Filename}}
	logCtx := p.logger.With("filename", file.Filename)

	defer func() {
		if r := recover(); r != nil {
			p.fail(ctx, logCtx, res, "panic", fmt.Errorf("panic: %v", r))
			fatal = nil
		}
	}()

	artifact, err := NewArtifact(p.workDir)
	if err != nil {
		return p.fail(ctx, logCtx, res, "received", err), nil
	}
	res.Artifact = artifact
	logCtx = logCtx.With("artifact", artifact.ID)

	originalSize, err := receive(file.Content, artifact.InputPath)
	if err != nil {
		return p.fail(ctx, logCtx, res, "received", err), nil
	}
	res.Status.OriginalSize = originalSize
	p.recorder.RecordEvent(ctx, EventFileReceived, slog.String("filename", file.Filename), slog.Int64("size", originalSize))

	if err := p.compressor.Compress(ctx, artifact.InputPath, artifact.OutputPath, level); err != nil {
		p.fail(ctx, logCtx, res, "compressed", err)
		if errors.Is(err, pdf.ErrEngineNotFound) {
			return res, err
		}
		return res, nil
	}
	p.recorder.RecordEvent(ctx, EventFileCompressed, slog.String("filename", file.Filename), slog.String("level", level.Setting()))

	if err := p.applyMetadata(ctx, artifact.OutputPath, file.Filename, overrides); err != nil {
		return p.fail(ctx, logCtx, res, "metadata_applied", err), nil
	}

	info, err := os.Stat(artifact.OutputPath)
	if err != nil {
		return p.fail(ctx, logCtx, res, "done", err), nil
	}
	res.Status.CompressedSize = info.Size()
	res.Status.Ratio = reductionRatio(originalSize, info.Size())
	res.Status.State = StateDone

	logCtx.Info("File processed",
		"original_size", originalSize,
		"compressed_size", res.Status.CompressedSize,
		"ratio", res.Status.Ratio)
	p.recorder.RecordEvent(ctx, EventFileDone,
		slog.String("filename", file.Filename),
		slog.Int64("original_size", originalSize),
		slog.Int64("compressed_size", res.Status.CompressedSize))

	return res, nil
}

// applyMetadata rewrites the Info dictionary of outFile and optionally
// encrypts it. The rewrite lands in temporary files that replace outFile
// with a single rename.
func (p *Processor) applyMetadata(ctx context.Context, outFile, filename string, overrides pdf.Overrides) error {
	existing, err := p.engine.ReadInfo(outFile)
	if err != nil {
		return err
	}
	if !pdf.NeedsRewrite(existing, overrides) {
		return nil
	}

	metaFile := outFile + metaTempSuffix
	defer removeQuietly(metaFile)

	merged := pdf.MergeMetadata(existing, overrides, filename)
	if err := p.engine.WriteInfo(outFile, metaFile, merged); err != nil {
		return err
	}
	p.recorder.RecordEvent(ctx, EventFileMetadataApplied, slog.String("filename", filename), slog.Int("entries", len(merged)))

	final := metaFile
	if overrides.Password != "" {
		encFile := outFile + encTempSuffix
		defer removeQuietly(encFile)

		if err := p.engine.Encrypt(metaFile, encFile, overrides.Password); err != nil {
			return err
		}
		final = encFile
		p.recorder.RecordEvent(ctx, EventFileEncrypted, slog.String("filename", filename))
	}

	if err := os.Rename(final, outFile); err != nil {
		return fmt.Errorf("%w: replace output: %v", pdf.ErrMetadataRewriteFailed, err)
	}
	return nil
}

// fail marks the result failed and deletes the input artifact right away
func (p *Processor) fail(ctx context.Context, logCtx *slog.Logger, res *Result, stage string, err error) *Result {
	logCtx.Error("File processing failed", "stage", stage, "error", err)

	if res.Artifact != nil {
		if rmErr := res.Artifact.ReleaseInput(); rmErr != nil {
			logCtx.Warn("Failed to remove input artifact", "error", rmErr)
		}
		removeQuietly(res.Artifact.OutputPath + metaTempSuffix)
		removeQuietly(res.Artifact.OutputPath + encTempSuffix)
	}

	res.Status.State = StateFailed
	res.Status.Error = err.Error()
	p.recorder.RecordEvent(ctx, EventFileFailed,
		slog.String("filename", res.Status.Filename),
		slog.String("stage", stage),
		slog.String("error", err.Error()))
	return res
}

// receive persists the upload and returns its size
func receive(src io.Reader, path string) (int64, error) {
	if src == nil {
		return 0, errors.New("no content")
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create input file: %w", err)
	}

	n, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("failed to save input file: %w", err)
	}
	return n, nil
}

// reductionRatio is informational only and may be negative
func reductionRatio(original, compressed int64) float64 {
	if original <= 0 {
		return 0
	}
	return 1 - float64(compressed)/float64(original)
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
