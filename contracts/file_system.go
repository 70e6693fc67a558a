package contracts

import "io"

type FileChecker interface {
	Stat(path string) (FileInfo, error)
}

type FileOpener interface {
	Open(path string) (io.ReadCloser, error)
}

// FileCreator truncates any existing file and creates parent directories.
type FileCreator interface {
	Create(path string) (io.WriteCloser, error)
}

// FileAppender opens for appending, creating the file and parent directories
// when absent.
type FileAppender interface {
	Append(path string) (io.WriteCloser, error)
}

type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type FileWriter interface {
	WriteFile(path string, content []byte) error
}

// Renamer moves a file or directory, creating parent directories of the new
// path as needed.
type Renamer interface {
	Rename(oldPath, newPath string) error
}

type Deleter interface {
	Delete(path string) error
}

type TreeDeleter interface {
	DeleteTree(path string) error
}

type DirLister interface {
	ListDir(path string) ([]FileInfo, error)
}

type FileInfo interface {
	Path() string
	Size() int64
	IsDir() bool
}
