package core

import "fmt"

// FileError describes a failure to process a single file
type FileError struct {
	Path string
	Op   string // "hash" or "attributes"
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
