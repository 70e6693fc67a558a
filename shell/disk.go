package shell

import (
	"io"
	"os"
	"path/filepath"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

// DiskFileSystem adapts the local disk to the engine's filesystem contracts.
// Writers create missing parent directories; callers never pre-create paths.
type DiskFileSystem struct{}

func NewDiskFileSystem() *DiskFileSystem {
	return &DiskFileSystem{}
}

func (this *DiskFileSystem) Stat(path string) (contracts.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return FileInfo{path: path, size: info.Size(), dir: info.IsDir()}, nil
}

func (this *DiskFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (this *DiskFileSystem) Create(path string) (io.WriteCloser, error) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (this *DiskFileSystem) Append(path string) (io.WriteCloser, error) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func (this *DiskFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (this *DiskFileSystem) WriteFile(path string, content []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

func (this *DiskFileSystem) Rename(oldPath, newPath string) error {
	err := os.MkdirAll(filepath.Dir(newPath), 0755)
	if err != nil {
		return err
	}
	return os.Rename(oldPath, newPath)
}

func (this *DiskFileSystem) Delete(path string) error {
	return os.Remove(path)
}

func (this *DiskFileSystem) DeleteTree(path string) error {
	return os.RemoveAll(path)
}

func (this *DiskFileSystem) ListDir(path string) (listing []contracts.FileInfo, err error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		size := int64(0)
		if info, infoErr := entry.Info(); infoErr == nil {
			size = info.Size()
		}
		listing = append(listing, FileInfo{
			path: filepath.Join(path, entry.Name()),
			size: size,
			dir:  entry.IsDir(),
		})
	}
	return listing, nil
}

////////////////////////////////////////

type FileInfo struct {
	path string
	size int64
	dir  bool
}

func (this FileInfo) Path() string { return this.path }
func (this FileInfo) Size() int64  { return this.size }
func (this FileInfo) IsDir() bool  { return this.dir }
