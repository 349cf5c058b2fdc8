package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf_optimizer/batch"
)

func TestWriteBundle_SingleDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	bundle := &batch.Bundle{
		Filename:    "report.pdf",
		ContentType: batch.ContentTypePDF,
		Data:        []byte("%PDF-1.4"),
	}

	target, err := writeBundle(bundle, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_compressed.pdf"), target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, bundle.Data, data)
}

func TestWriteBundle_Archive(t *testing.T) {
	dir := t.TempDir()
	bundle := &batch.Bundle{
		Filename:    batch.ArchiveFilename,
		ContentType: batch.ContentTypeZip,
		Data:        []byte("PK"),
	}

	target, err := writeBundle(bundle, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, batch.ArchiveFilename), target)
}

func TestPrintStatuses(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	printStatuses(cmd, []batch.FileStatus{
		{Filename: "a.pdf", State: batch.StateDone, OriginalSize: 2048, CompressedSize: 1024, Ratio: 0.5},
		{Filename: "b.txt", State: batch.StateSkipped, Error: "unsupported file type"},
	})

	assert.Contains(t, out.String(), "a.pdf: 2.00 KB -> 1.00 KB (50.0%)")
	assert.Contains(t, out.String(), "b.txt: skipped (unsupported file type)")
}
