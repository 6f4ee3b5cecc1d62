package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/collapse"
)

// Ensure FileStore implements collapse.Store at compile time.
var _ collapse.Store = (*FileStore)(nil)

// FileStore implements collapse.Store with atomic update semantics.
// Outputs are saved to a temporary directory, then moved atomically on Commit.
// Save may be called from several goroutines.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

func (s *FileStore) Save(ctx context.Context, out *collapse.Output) error {
	if err := out.Validate(); err != nil {
		return err
	}
	if !filepath.IsLocal(out.Path) {
		return collapse.Errorf(collapse.EINVALID, "output path %q escapes the output directory", out.Path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), out.Path)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, out.Content, 0644)
}

func (s *FileStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return err
	}

	return nil
}

func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
