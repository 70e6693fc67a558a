package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

// InMemoryFileSystem backs engine tests. Paths are normalized to slashes;
// directories exist implicitly once they have children, or explicitly via
// MkdirAll. Missing paths report errors satisfying errors.Is(err,
// os.ErrNotExist), matching the disk adapter.
type InMemoryFileSystem struct {
	files map[string][]byte
	dirs  map[string]struct{}

	// Error injection points, keyed by normalized path.
	ErrOpen   map[string]error
	ErrCreate map[string]error
	ErrRename map[string]error
}

func NewInMemoryFileSystem() *InMemoryFileSystem {
	return &InMemoryFileSystem{
		files:     make(map[string][]byte),
		dirs:      make(map[string]struct{}),
		ErrOpen:   make(map[string]error),
		ErrCreate: make(map[string]error),
		ErrRename: make(map[string]error),
	}
}

func normalize(raw string) string {
	return path.Clean(filepath.ToSlash(raw))
}

func (this *InMemoryFileSystem) Stat(rawPath string) (contracts.FileInfo, error) {
	target := normalize(rawPath)
	if contents, found := this.files[target]; found {
		return fileInfo{path: target, size: int64(len(contents))}, nil
	}
	if this.isDir(target) {
		return fileInfo{path: target, dir: true}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: rawPath, Err: os.ErrNotExist}
}

func (this *InMemoryFileSystem) Open(rawPath string) (io.ReadCloser, error) {
	target := normalize(rawPath)
	if err, found := this.ErrOpen[target]; found {
		return nil, err
	}
	contents, found := this.files[target]
	if !found {
		return nil, &os.PathError{Op: "open", Path: rawPath, Err: os.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(contents)), nil
}

func (this *InMemoryFileSystem) Create(rawPath string) (io.WriteCloser, error) {
	target := normalize(rawPath)
	if err, found := this.ErrCreate[target]; found {
		return nil, err
	}
	this.files[target] = nil
	return &fileWriter{fileSystem: this, path: target}, nil
}

func (this *InMemoryFileSystem) Append(rawPath string) (io.WriteCloser, error) {
	target := normalize(rawPath)
	if err, found := this.ErrCreate[target]; found {
		return nil, err
	}
	if _, found := this.files[target]; !found {
		this.files[target] = nil
	}
	return &fileWriter{fileSystem: this, path: target}, nil
}

func (this *InMemoryFileSystem) ReadFile(rawPath string) ([]byte, error) {
	target := normalize(rawPath)
	contents, found := this.files[target]
	if !found {
		return nil, &os.PathError{Op: "open", Path: rawPath, Err: os.ErrNotExist}
	}
	return contents, nil
}

func (this *InMemoryFileSystem) WriteFile(rawPath string, content []byte) error {
	this.files[normalize(rawPath)] = append([]byte(nil), content...)
	return nil
}

func (this *InMemoryFileSystem) Rename(oldRaw, newRaw string) error {
	oldPath, newPath := normalize(oldRaw), normalize(newRaw)
	if err, found := this.ErrRename[oldPath]; found {
		return err
	}
	if contents, found := this.files[oldPath]; found {
		delete(this.files, oldPath)
		this.files[newPath] = contents
		return nil
	}
	if !this.isDir(oldPath) {
		return &os.PathError{Op: "rename", Path: oldRaw, Err: os.ErrNotExist}
	}
	prefix := oldPath + "/"
	for filePath, contents := range this.copyOfFiles() {
		if strings.HasPrefix(filePath, prefix) {
			delete(this.files, filePath)
			this.files[newPath+"/"+filePath[len(prefix):]] = contents
		}
	}
	var moved []string
	for dir := range this.dirs {
		if dir == oldPath || strings.HasPrefix(dir, prefix) {
			moved = append(moved, dir)
		}
	}
	for _, dir := range moved {
		delete(this.dirs, dir)
		this.dirs[newPath+strings.TrimPrefix(dir, oldPath)] = struct{}{}
	}
	return nil
}

func (this *InMemoryFileSystem) Delete(rawPath string) error {
	target := normalize(rawPath)
	if _, found := this.files[target]; !found {
		return &os.PathError{Op: "remove", Path: rawPath, Err: os.ErrNotExist}
	}
	delete(this.files, target)
	return nil
}

func (this *InMemoryFileSystem) DeleteTree(rawPath string) error {
	target := normalize(rawPath)
	prefix := target + "/"
	for filePath := range this.copyOfFiles() {
		if filePath == target || strings.HasPrefix(filePath, prefix) {
			delete(this.files, filePath)
		}
	}
	for dir := range this.dirs {
		if dir == target || strings.HasPrefix(dir, prefix) {
			delete(this.dirs, dir)
		}
	}
	return nil
}

func (this *InMemoryFileSystem) ListDir(rawPath string) (listing []contracts.FileInfo, err error) {
	target := normalize(rawPath)
	if !this.isDir(target) {
		return nil, &os.PathError{Op: "open", Path: rawPath, Err: os.ErrNotExist}
	}
	prefix := target + "/"
	names := make(map[string]contracts.FileInfo)
	for filePath, contents := range this.files {
		if !strings.HasPrefix(filePath, prefix) {
			continue
		}
		remainder := filePath[len(prefix):]
		if at := strings.IndexByte(remainder, '/'); at >= 0 {
			child := prefix + remainder[:at]
			names[child] = fileInfo{path: child, dir: true}
		} else {
			names[filePath] = fileInfo{path: filePath, size: int64(len(contents))}
		}
	}
	for dir := range this.dirs {
		if !strings.HasPrefix(dir, prefix) {
			continue
		}
		remainder := dir[len(prefix):]
		if !strings.Contains(remainder, "/") {
			names[dir] = fileInfo{path: dir, dir: true}
		}
	}
	for _, info := range names {
		listing = append(listing, info)
	}
	sort.Slice(listing, func(i, j int) bool { return listing[i].Path() < listing[j].Path() })
	return listing, nil
}

func (this *InMemoryFileSystem) MkdirAll(rawPath string) {
	this.dirs[normalize(rawPath)] = struct{}{}
}

// Dump renders the current tree, handy in failing-test output.
func (this *InMemoryFileSystem) Dump() string {
	var builder strings.Builder
	for filePath, contents := range this.files {
		_, _ = fmt.Fprintf(&builder, "%s (%d bytes)\n", filePath, len(contents))
	}
	return builder.String()
}

func (this *InMemoryFileSystem) isDir(target string) bool {
	if target == "." {
		return true
	}
	if _, found := this.dirs[target]; found {
		return true
	}
	prefix := target + "/"
	for filePath := range this.files {
		if strings.HasPrefix(filePath, prefix) {
			return true
		}
	}
	for dir := range this.dirs {
		if strings.HasPrefix(dir, prefix) {
			return true
		}
	}
	return false
}

func (this *InMemoryFileSystem) copyOfFiles() map[string][]byte {
	snapshot := make(map[string][]byte, len(this.files))
	for filePath, contents := range this.files {
		snapshot[filePath] = contents
	}
	return snapshot
}

////////////////////////////////////////

type fileWriter struct {
	fileSystem *InMemoryFileSystem
	path       string
}

func (this *fileWriter) Write(p []byte) (int, error) {
	this.fileSystem.files[this.path] = append(this.fileSystem.files[this.path], p...)
	return len(p), nil
}

func (this *fileWriter) Close() error { return nil }

type fileInfo struct {
	path string
	size int64
	dir  bool
}

func (this fileInfo) Path() string { return this.path }
func (this fileInfo) Size() int64  { return this.size }
func (this fileInfo) IsDir() bool  { return this.dir }
