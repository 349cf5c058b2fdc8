package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf_optimizer/pdf"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultTempDir, cfg.TempDir)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, DefaultMaxBatchFiles, cfg.MaxBatchFiles)
	assert.Equal(t, DefaultCompressionTimeout, cfg.CompressionTimeout)
	assert.Greater(t, cfg.Workers, 0)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TEMP_DIR", "/var/tmp/pdf")
	t.Setenv("WORKERS", "2")
	t.Setenv("COMPRESSION_TIMEOUT", "45s")
	t.Setenv("GHOSTSCRIPT_PATH", "/opt/gs/bin/gs")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/var/tmp/pdf", cfg.TempDir)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 45*time.Second, cfg.CompressionTimeout)
	assert.Equal(t, "/opt/gs/bin/gs", cfg.GhostscriptPath)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
max_file_size: 1048576
max_batch_files: 5
log_format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, int64(1048576), cfg.MaxFileSize)
	assert.Equal(t, 5, cfg.MaxBatchFiles)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		TempDir:            "",
		MaxFileSize:        0,
		MaxBatchFiles:      -1,
		Workers:            0,
		CompressionTimeout: 0,
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"temp_dir", "max_file_size", "max_batch_files", "workers", "compression_timeout"} {
		assert.Contains(t, err.Error(), field)
	}

	valid := &Config{TempDir: "t", MaxFileSize: 1, MaxBatchFiles: 1, Workers: 1, CompressionTimeout: time.Second}
	assert.NoError(t, valid.Validate())
}

func TestDefaultCompressionTimeoutMatchesEngine(t *testing.T) {
	assert.Equal(t, pdf.DefaultCompressionTimeout, time.Duration(DefaultCompressionTimeout))
}
