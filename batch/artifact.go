package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// DefaultDirPermissions for the working directory
const DefaultDirPermissions = 0o755

// Artifact is the input/output temporary file pair of one processed file.
// Each path is removed at most once.
type Artifact struct {
	ID         string
	InputPath  string
	OutputPath string

	mu      sync.Mutex
	removed map[string]bool
}

// NewArtifact allocates uniquely named paths inside dir.
func NewArtifact(dir string) (*Artifact, error) {
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	id := uuid.NewString()
	return &Artifact{
		ID:         id,
		InputPath:  filepath.Join(dir, "input_"+id+".pdf"),
		OutputPath: filepath.Join(dir, "output_"+id+".pdf"),
		removed:    make(map[string]bool, 2),
	}, nil
}

// ReleaseInput deletes the input file.
func (a *Artifact) ReleaseInput() error {
	return a.remove(a.InputPath)
}

// Release deletes every path of the artifact not yet removed.
func (a *Artifact) Release() error {
	return errors.Join(a.remove(a.InputPath), a.remove(a.OutputPath))
}

// Paths lists both paths of the artifact.
func (a *Artifact) Paths() []string {
	return []string{a.InputPath, a.OutputPath}
}

func (a *Artifact) remove(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.removed[path] {
		return nil
	}

	// a failed removal stays pending so Release can retry it
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	a.removed[path] = true
	return nil
}
