package batch

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zip"
)

const (
	// ArchiveFilename names the bundle when more than one file succeeded
	ArchiveFilename = "documents_optimises.zip"

	ContentTypePDF = "application/pdf"
	ContentTypeZip = "application/zip"
)

// Aggregate packages the successful results. One result is returned as-is
// under its original filename; several are zipped in the given order.
func Aggregate(results []*Result) (*Bundle, error) {
	switch len(results) {
	case 0:
		return nil, ErrBatchEmpty
	case 1:
		data, err := os.ReadFile(results[0].Artifact.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read output of %s: %w", results[0].Status.Filename, err)
		}
		return &Bundle{
			Filename:    results[0].Status.Filename,
			ContentType: ContentTypePDF,
			Data:        data,
		}, nil
	}

	data, err := buildArchive(results)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Filename:    ArchiveFilename,
		ContentType: ContentTypeZip,
		Data:        data,
	}, nil
}

// buildArchive writes every output under its original filename. Duplicate
// names are written as separate entries.
func buildArchive(results []*Result) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	now := time.Now()

	for _, r := range results {
		data, err := os.ReadFile(r.Artifact.OutputPath)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to read output of %s: %w", r.Status.Filename, err)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     r.Status.Filename,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to add %s to archive: %w", r.Status.Filename, err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write %s to archive: %w", r.Status.Filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
