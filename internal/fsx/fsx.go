// Package fsx contains io/fs extensions.
package fsx

import (
	"io/fs"
	"os"
	"syscall"
)

// OpenFile is a wrapper for os.Open that ensures that we're
// opening a file rather than a directory. If the pathname refers
// to a directory, this func returns an *os.PathError error with
// Err set to syscall.EISDIR.
func OpenFile(pathname string) (fs.File, error) {
	file, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, &os.PathError{
			Op:   "openFile",
			Path: pathname,
			Err:  syscall.EISDIR,
		}
	}
	return file, nil
}

// DirectoryExists returns whether the given pathname
// exists and is a directory.
func DirectoryExists(pathname string) bool {
	info, err := os.Stat(pathname)
	return err == nil && info.IsDir()
}