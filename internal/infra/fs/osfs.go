package fs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// PartSuffix marks an in-flight download next to its destination.
const PartSuffix = ".part"

type OSFS struct{}

func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFile streams src into dst. Content lands in dst+PartSuffix first and
// replaces dst only once the copy finished; on error the part file is removed
// and dst is left as it was.
func (o OSFS) WriteFile(dst string, src io.Reader) (int64, error) {
	if err := o.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	part := dst + PartSuffix
	out, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(part)
		return n, err
	}

	if err := os.Rename(part, dst); err != nil {
		os.Remove(part)
		return n, err
	}
	return n, nil
}
