package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Compressor shrinks one PDF into another at the given quality tier.
type Compressor interface {
	Compress(ctx context.Context, inFile, outFile string, level Level) error
}

// Ghostscript invokes the gs executable as an opaque subprocess.
type Ghostscript struct {
	executable string
	timeout    time.Duration
}

// engineCandidates lists the executable names tried for the current platform
func engineCandidates(goos string) []string {
	if goos == "windows" {
		return []string{"gswin64c", "gswin32c"}
	}
	return []string{"gs"}
}

// LookupGhostscript resolves the Ghostscript executable. A non-empty path is
// checked as given; otherwise the platform candidates are searched on PATH.
func LookupGhostscript(path string) (string, error) {
	if path = strings.TrimSpace(path); path != "" {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrEngineNotFound, path, err)
		}
		return resolved, nil
	}

	for _, name := range engineCandidates(runtime.GOOS) {
		if resolved, err := exec.LookPath(name); err == nil {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrEngineNotFound, strings.Join(engineCandidates(runtime.GOOS), ", "))
}

// NewGhostscript resolves the executable and returns a ready compressor.
func NewGhostscript(path string, timeout time.Duration) (*Ghostscript, error) {
	executable, err := LookupGhostscript(path)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultCompressionTimeout
	}
	return &Ghostscript{executable: executable, timeout: timeout}, nil
}

// Executable returns the resolved engine path.
func (g *Ghostscript) Executable() string {
	return g.executable
}

// Compress runs Ghostscript's pdfwrite device over inFile. The call blocks
// until the subprocess exits; failures are never retried.
func (g *Ghostscript) Compress(ctx context.Context, inFile, outFile string, level Level) error {
	if g == nil || g.executable == "" {
		return ErrEngineNotFound
	}

	output, code, err := execCommandWithTimeout(ctx, g.timeout, g.executable, compressArgs(inFile, outFile, level)...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrEngineNotFound, err)
		}
		return &CompressionError{ExitCode: code, Output: strings.TrimSpace(string(output)), Err: err}
	}

	// gs occasionally exits 0 without writing anything for damaged inputs
	if info, statErr := os.Stat(outFile); statErr != nil || info.Size() == 0 {
		return &CompressionError{ExitCode: code, Output: strings.TrimSpace(string(output)), Err: errors.New("no output produced")}
	}

	return nil
}

// compressArgs builds the fixed non-interactive flag set
func compressArgs(inFile, outFile string, level Level) []string {
	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=" + CompatibilityLevel,
		"-dPDFSETTINGS=" + level.Setting(),
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + outFile,
		inFile,
	}
}
