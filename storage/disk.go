package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/sys/unix"
)

type DiskStorage struct {
	// BasePath is a directory (usually mount point of a disk) that is writable by the current process
	BasePath string
	dirs     cmap.ConcurrentMap[string, bool]
}

func NewDiskStorage(basePath string) (*DiskStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DiskStorage{
		BasePath: basePath,
		dirs:     cmap.New[bool](),
	}, nil
}

func (s *DiskStorage) createDir(dir string) error {
	if s.dirs.Has(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	s.dirs.Set(dir, true)
	return nil
}

func (s *DiskStorage) getFullPath(path string) string {
	return filepath.Join(s.BasePath, filepath.FromSlash(path))
}

func (s *DiskStorage) Save(_ context.Context, path string, reader io.Reader, _ string) (int64, error) {
	fileName := s.getFullPath(path)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fileName)
	}
	return written, err
}

func (s *DiskStorage) Delete(_ context.Context, path string) error {
	return os.Remove(s.getFullPath(path))
}

// GetFreeSpace returns the bytes available to unprivileged users on the storage's filesystem
func (s *DiskStorage) GetFreeSpace() (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

func (s *DiskStorage) Describe() string {
	free, err := s.GetFreeSpace()
	if err != nil {
		return "disk:" + s.BasePath
	}
	return fmt.Sprintf("disk:%s (%d MB free)", s.BasePath, free>>20)
}
