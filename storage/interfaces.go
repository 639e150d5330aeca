package storage

import (
	"context"
	"errors"
	"io"

	"perfume-dashboard/models"
)

// ErrNotFound is returned by a Source whose underlying data does not exist.
var ErrNotFound = errors.New("source not found")

// Source is one tabular input of the dashboard: a local file or a remote CSV.
type Source interface {
	// Location is the path or URL the source was configured with.
	Location() string
	// Signature identifies the current content revision, e.g. path+size+mtime.
	Signature(ctx context.Context) (string, error)
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ListingWriter is the interface any export backend must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}
