package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"perfume-dashboard/utils"
)

// FileSource reads a CSV from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource returns a Source for a local path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Location() string { return s.path }

// Signature combines the absolute path with size and modification time.
func (s *FileSource) Signature(_ context.Context) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("file %q: %w", s.path, ErrNotFound)
		}
		return "", fmt.Errorf("file %q: stat: %w", s.path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("file %q is a directory: %w", s.path, ErrNotFound)
	}

	abs, err := filepath.Abs(s.path)
	if err != nil {
		abs = s.path
	}
	return fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}

func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %q: %w", s.path, ErrNotFound)
		}
		return nil, fmt.Errorf("file %q: open: %w", s.path, err)
	}
	return f, nil
}

// SourceOptions configures remote sources built by NewSource.
type SourceOptions struct {
	Timeout    time.Duration
	MaxRetries int
	Logger     *utils.Logger
}

// NewSource picks an HTTPSource for http(s) URLs and a FileSource otherwise.
func NewSource(location string, opts SourceOptions) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, opts)
	}
	return NewFileSource(location)
}
