// Package storage defines the collaborators the labeling core talks to:
// a folder listing, a tabular store and an image fetcher. Backends live in
// the sub-packages (Google Drive, local filesystem) and in the Postgres
// repository.
package storage

import (
	"context"
	"errors"

	"capsule-labeling-be/pkg/registry"
)

// ErrImageNotFound is returned by ImageFetcher when the id resolves to nothing.
var ErrImageNotFound = errors.New("image not found")

// ImageSource lists the images of a folder. An empty folder ref yields an
// empty listing. Duplicates are allowed; callers dedup by id.
type ImageSource interface {
	ListImages(ctx context.Context, folderRef string) ([]registry.ImageRef, error)
}

// TableStore loads and overwrites registry tables.
//
// LoadTable returns an empty table (no rows, no columns) when ref is empty or
// the table does not exist yet. SaveTable overwrites; an empty ref skips the
// write and returns nil.
type TableStore interface {
	LoadTable(ctx context.Context, ref string) (*registry.Table, error)
	SaveTable(ctx context.Context, ref string, table *registry.Table) error
}

// Image is a fetched, still encoded, image.
type Image struct {
	ID          string
	ContentType string
	Data        []byte
}

type ImageFetcher interface {
	FetchImage(ctx context.Context, id string) (*Image, error)
}

// Backend bundles the three collaborators.
type Backend interface {
	ImageSource
	ImageFetcher
	TableStore
}
