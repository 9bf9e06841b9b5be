// Package loader provides the file-system collaborator of the configuration
// store.
//
// The store never touches the OS directly: it reads override files, creates
// the parent folder of a save target and writes the serialized text through a
// FileSystem. AferoFS backs it with any afero.Fs, so tests run on an
// in-memory file system.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// File and directory permissions used for created paths.
const (
	FileMode os.FileMode = 0o644
	DirMode  os.FileMode = 0o755
)

// FileSystem is the store's view of the file system.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile truncates the file at path, creating it if needed, and
	// writes data. The write is not atomic.
	WriteFile(path string, data []byte) error

	// EnsureDir creates every missing parent directory of path.
	// Calling it for an existing directory is a no-op.
	EnsureDir(path string) error
}

// AferoFS implements FileSystem on an afero.Fs.
type AferoFS struct {
	fs afero.Fs
}

// NewAferoFS wraps fs.
func NewAferoFS(fs afero.Fs) *AferoFS {
	return &AferoFS{fs: fs}
}

// ReadFile reads the entire file at path.
func (a *AferoFS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

// WriteFile truncates the file at path and writes data.
func (a *AferoFS) WriteFile(path string, data []byte) error {
	return afero.WriteFile(a.fs, path, data, FileMode)
}

// EnsureDir creates the parent directories of path.
func (a *AferoFS) EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := a.fs.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// Fs returns the underlying afero file system.
func (a *AferoFS) Fs() afero.Fs {
	return a.fs
}

// DefaultFS returns the OS file system.
func DefaultFS() *AferoFS {
	return NewAferoFS(afero.NewOsFs())
}
