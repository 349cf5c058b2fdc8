package cmd

import (
	"log/slog"

	"pdf_optimizer/batch"
	"pdf_optimizer/config"
	"pdf_optimizer/pdf"
)

// newCoordinator resolves Ghostscript and assembles the batch pipeline
func newCoordinator(cfg *config.Config, logger *slog.Logger) (*batch.Coordinator, error) {
	gs, err := pdf.NewGhostscript(cfg.GhostscriptPath, cfg.CompressionTimeout)
	if err != nil {
		return nil, err
	}
	logger.Info("Ghostscript is available", "executable", gs.Executable())

	recorder := batch.NewLogRecorder(logger)
	processor := batch.NewProcessor(cfg.TempDir, gs, pdf.NewPdfcpuEngine(), recorder, logger)

	return batch.NewCoordinator(processor,
		batch.WithWorkers(cfg.Workers),
		batch.WithRecorder(recorder),
		batch.WithLogger(logger),
	), nil
}
