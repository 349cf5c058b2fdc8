package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdf_optimizer/batch"
	"pdf_optimizer/pdf"
)

type compressOptions struct {
	level     int
	outputDir string
	overrides pdf.Overrides
}

var compressOpts compressOptions

var compressCmd = &cobra.Command{
	Use:   "compress <file.pdf>...",
	Short: "Compress local PDF files and rewrite their metadata",
	Example: `  pdf_optimizer compress report.pdf -l 3 --title "Annual report"
  pdf_optimizer compress a.pdf b.pdf --created "2024-01-31 09:30" -o out/`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		coordinator, err := newCoordinator(cfg, logger)
		if err != nil {
			return err
		}

		files := make([]batch.UploadedFile, 0, len(args))
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				files = append(files, batch.UploadedFile{Filename: filepath.Base(path), Reject: err})
				continue
			}
			defer f.Close()
			files = append(files, batch.UploadedFile{Filename: filepath.Base(path), Content: f})
		}

		bundle, err := coordinator.Process(cmd.Context(), batch.Request{
			Files:     files,
			Level:     pdf.ParseLevel(compressOpts.level),
			Overrides: compressOpts.overrides,
		})

		var batchErr *batch.BatchError
		if errors.As(err, &batchErr) {
			printStatuses(cmd, batchErr.Files)
			return err
		}
		if err != nil {
			return err
		}

		printStatuses(cmd, bundle.Files)

		target, err := writeBundle(bundle, compressOpts.outputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "--- Done ---\nFile: %s\n", target)
		return nil
	},
}

// writeBundle stores the bundle in dir; a single document is named
// <stem>_compressed.pdf
func writeBundle(bundle *batch.Bundle, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := bundle.Filename
	if bundle.ContentType == batch.ContentTypePDF {
		name = pdf.FilenameStem(name) + "_compressed" + pdf.Extension
	}

	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, bundle.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

func printStatuses(cmd *cobra.Command, files []batch.FileStatus) {
	out := cmd.OutOrStdout()
	for _, f := range files {
		switch f.State {
		case batch.StateDone:
			fmt.Fprintf(out, "%s: %.2f KB -> %.2f KB (%.1f%%)\n",
				f.Filename, float64(f.OriginalSize)/1024, float64(f.CompressedSize)/1024, f.Ratio*100)
		default:
			fmt.Fprintf(out, "%s: %s (%s)\n", f.Filename, f.State, f.Error)
		}
	}
}

func init() {
	flags := compressCmd.Flags()
	flags.IntVarP(&compressOpts.level, "level", "l", int(pdf.DefaultLevel), "compression level 0-4 (default, prepress, printer, ebook, screen)")
	flags.StringVarP(&compressOpts.outputDir, "output", "o", ".", "output directory")
	flags.StringVar(&compressOpts.overrides.Title, "title", "", "document title")
	flags.StringVar(&compressOpts.overrides.Author, "author", "", "document author")
	flags.StringVar(&compressOpts.overrides.Subject, "subject", "", "document subject")
	flags.StringVar(&compressOpts.overrides.CreatedAt, "created", "", "creation date (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)")
	flags.StringVar(&compressOpts.overrides.ModifiedAt, "modified", "", "modification date (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)")
	flags.StringVar(&compressOpts.overrides.Password, "password", "", "protect the output with this password")

	rootCmd.AddCommand(compressCmd)
}
