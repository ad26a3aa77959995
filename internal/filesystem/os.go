package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements the filesystem collaborators of the audit and scaffold packages using operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata, following symbolic links.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Lstat retrieves file metadata without following symbolic links.
func (OSFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// ReadDirectory lists directory entries in the order the operating system yields them.
func (OSFileSystem) ReadDirectory(path string) ([]fs.DirEntry, error) {
	directoryHandle, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer directoryHandle.Close()

	return directoryHandle.ReadDir(-1)
}

// Readlink returns the destination of a symbolic link.
func (OSFileSystem) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// WriteFile writes data to a file and applies the supplied permissions even when the file already existed.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	if writeError := os.WriteFile(path, data, permissions); writeError != nil {
		return writeError
	}
	return os.Chmod(path, permissions)
}

// Symlink creates newPath as a symbolic link pointing at target.
func (OSFileSystem) Symlink(target string, newPath string) error {
	return os.Symlink(target, newPath)
}
