package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/prodex"
)

// Ensure ResultStore implements prodex.ResultStore at compile time.
var _ prodex.ResultStore = (*ResultStore)(nil)

// ResultStore implements prodex.ResultStore with atomic update semantics.
// Results are saved to a temporary directory, then moved atomically on
// Commit.
type ResultStore struct {
	baseDir string
	name    string
}

// NewResultStore creates a new ResultStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewResultStore(baseDir, name string) *ResultStore {
	return &ResultStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ResultStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ResultStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the result as indented JSON. Results for the same URL
// overwrite each other.
func (s *ResultStore) Save(ctx context.Context, result *prodex.PageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := URLToPath(result.URL)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return prodex.Errorf(prodex.EINTERNAL, "failed to encode result for %s: %v", result.URL, err)
	}
	return os.WriteFile(fullPath, append(data, '\n'), 0644)
}

func (s *ResultStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *ResultStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
