package fsxlocal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/Abraxas-365/hireform/pkg/fsx"
	"github.com/spf13/afero"
)

// LocalFileSystem implements fsx.FileSystem on an afero filesystem rooted at a directory
type LocalFileSystem struct {
	fs afero.Fs
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)

// NewLocalFileSystem roots base at root. Paths passed to the methods are
// resolved relative to root and cannot escape it.
func NewLocalFileSystem(base afero.Fs, root string) *LocalFileSystem {
	return &LocalFileSystem{fs: afero.NewBasePathFs(base, root)}
}

// NewOSFileSystem is NewLocalFileSystem on the real disk
func NewOSFileSystem(root string) *LocalFileSystem {
	return NewLocalFileSystem(afero.NewOsFs(), root)
}

func (l *LocalFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (l *LocalFileSystem) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := l.mkdir(name); err != nil {
		return err
	}
	return afero.WriteFile(l.fs, name, data, 0o644)
}

// WriteFileStream writes to a temporary sibling and renames it into place
func (l *LocalFileSystem) WriteFileStream(ctx context.Context, name string, r io.Reader) error {
	if err := l.mkdir(name); err != nil {
		return err
	}

	tmp := name + ".part"
	f, err := l.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("close %s: %w", name, err)
	}
	return l.fs.Rename(tmp, name)
}

func (l *LocalFileSystem) mkdir(name string) error {
	dir := path.Dir(name)
	if dir == "." || dir == "/" {
		return nil
	}
	if err := l.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
