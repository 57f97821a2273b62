// Package source provides the file access the merger needs: reading sources, walking
// directories and writing the merged output. The default implementation is backed by afs so
// that sources can live on any afs-supported storage.
package source

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
)

// Reader loads the raw text of a source file
type Reader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// Writer persists the merged output
type Writer interface {
	Write(ctx context.Context, path string, data []byte) error
}

// FileSystem reads, walks and writes files through an afs service
type FileSystem struct {
	fs afs.Service
}

// New creates an afs backed FileSystem
func New() *FileSystem {
	return &FileSystem{fs: afs.New()}
}

// Read downloads the file content. Failures are reported as errors.ErrRead.
func (f *FileSystem) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := f.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrRead, path, err)
	}
	return data, nil
}

// Write uploads data to path, replacing existing content
func (f *FileSystem) Write(ctx context.Context, path string, data []byte) error {
	if err := f.fs.Upload(ctx, path, 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteFile, err)
	}
	return nil
}

// Walk visits every object under root
func (f *FileSystem) Walk(ctx context.Context, root string, visitor storage.OnVisit) error {
	return f.fs.Walk(ctx, root, visitor)
}

// MapReader serves file content from memory, keyed by path
type MapReader map[string]string

// Read returns the content registered for path
func (m MapReader) Read(_ context.Context, path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrRead, path, os.ErrNotExist)
	}
	return []byte(content), nil
}
