// Package fsx abstracts the file stores that receive exports.
package fsx

import (
	"context"
	"io"
)

// FileWriter writes whole files or streams
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
}

// FileSystem is a rooted store addressed by slash-separated paths
type FileSystem interface {
	FileWriter
	Join(elem ...string) string
}
