// Package bundle writes an OutputBundle to disk. Writing is the only step
// in the pipeline that touches the target path: it stages into a sibling
// temp directory and renames atomically on success, so a cancelled or
// failed write leaves no partial files behind (spec §4.6).
package bundle

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"ttrpgconv/internal/errs"
	"ttrpgconv/internal/ir"
	"ttrpgconv/internal/plugin"
)

// Writer persists an OutputBundle through an afero.Fs, defaulting to the
// OS filesystem.
type Writer struct {
	FS afero.Fs
}

// NewWriter returns a Writer backed by the OS filesystem.
func NewWriter() *Writer {
	return &Writer{FS: afero.NewOsFs()}
}

// Write stages bundle's files/databases/assets into a temp directory next
// to targetPath, then renames it into place. If targetPath already exists
// and opts.OverwriteExisting is false, Write fails without touching
// targetPath. On any error the temp directory is removed.
func (w *Writer) Write(bundle *ir.OutputBundle, targetPath string, opts plugin.WriteOptions) error {
	if exists, err := afero.DirExists(w.FS, targetPath); err != nil {
		return errs.IOFailed("bundle.write", "checking target path", err)
	} else if exists && !opts.OverwriteExisting {
		return errs.New(errs.KindIO, "bundle.write", "target path already exists and overwrite_existing is false")
	}

	parent := filepath.Dir(targetPath)
	if opts.CreateDirectories {
		if err := w.FS.MkdirAll(parent, 0o755); err != nil {
			return errs.IOFailed("bundle.write", "creating parent directory", err)
		}
	}

	tempDir, err := afero.TempDir(w.FS, parent, ".ttrpgconv-bundle-*")
	if err != nil {
		return errs.IOFailed("bundle.write", "creating staging directory", err)
	}
	// Only a successful rename keeps tempDir; every other exit path removes it.
	succeeded := false
	defer func() {
		if !succeeded {
			_ = w.FS.RemoveAll(tempDir)
		}
	}()

	for relPath, content := range bundle.Files {
		if err := w.writeStagedFile(tempDir, relPath, []byte(content), opts); err != nil {
			return err
		}
	}
	for relPath, data := range bundle.Databases {
		if err := w.writeStagedFile(tempDir, relPath, data, opts); err != nil {
			return err
		}
	}
	for relPath, sourcePath := range bundle.Assets {
		data, err := afero.ReadFile(w.FS, sourcePath)
		if err != nil {
			return errs.IOFailed("bundle.write", "reading processed asset "+sourcePath, err)
		}
		mode := os.FileMode(0o644)
		if opts.PreservePermissions {
			if info, err := w.FS.Stat(sourcePath); err == nil {
				mode = info.Mode().Perm()
			}
		}
		if err := w.writeStagedFileMode(tempDir, relPath, data, mode); err != nil {
			return err
		}
	}

	if opts.OverwriteExisting {
		_ = w.FS.RemoveAll(targetPath)
	}
	if err := w.FS.Rename(tempDir, targetPath); err != nil {
		return errs.IOFailed("bundle.write", "renaming staged bundle into place", err)
	}

	succeeded = true
	return nil
}

func (w *Writer) writeStagedFile(tempDir, relPath string, data []byte, opts plugin.WriteOptions) error {
	return w.writeStagedFileMode(tempDir, relPath, data, 0o644)
}

func (w *Writer) writeStagedFileMode(tempDir, relPath string, data []byte, mode os.FileMode) error {
	fullPath := filepath.Join(tempDir, relPath)
	if err := w.FS.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return errs.IOFailed("bundle.write", "creating staged subdirectory", err)
	}
	if err := afero.WriteFile(w.FS, fullPath, data, mode); err != nil {
		return errs.IOFailed("bundle.write", "staging "+relPath, err)
	}
	return nil
}
