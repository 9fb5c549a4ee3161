// Package output replaces report files atomically.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNoPath is returned when a write is requested without a destination.
var ErrNoPath = errors.New("output path is empty")

// Writer writes whole files through an afero filesystem.
type Writer struct {
	fs   afero.Fs
	perm os.FileMode
}

// New returns a Writer on fs. A nil fs writes to the OS filesystem.
func New(fs afero.Fs) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{fs: fs, perm: 0o644}
}

// Write replaces path with data. The data goes to a temporary file in the
// same directory which is then renamed over path, so readers see either the
// old file or the new one. On failure the old file is left in place.
func (w *Writer) Write(path string, data []byte) error {
	return w.WriteAll(File{Path: path, Data: data})
}

// File is one rendered document and where it goes.
type File struct {
	Path string
	Data []byte
}

// WriteAll replaces every file or none of them. All temporary files are
// written before the first rename, so a failure while staging leaves every
// destination untouched.
func (w *Writer) WriteAll(files ...File) (err error) {
	staged := make([]string, 0, len(files))
	defer func() {
		if err != nil {
			for _, tmp := range staged {
				w.fs.Remove(tmp)
			}
		}
	}()

	for _, f := range files {
		tmp, err := w.stage(f)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, f := range files {
		if err = w.fs.Rename(staged[i], f.Path); err != nil {
			staged = staged[i:]
			return fmt.Errorf("replacing %s: %w", f.Path, err)
		}
	}
	return nil
}

// stage writes f to a temporary file next to its destination and returns
// the temporary name.
func (w *Writer) stage(f File) (_ string, err error) {
	if f.Path == "" {
		return "", ErrNoPath
	}

	dir := filepath.Dir(f.Path)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			w.fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err = w.fs.Chmod(tmpName, w.perm); err != nil {
		return "", fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	return tmpName, nil
}
