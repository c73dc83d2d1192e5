// Package drive implements the storage collaborators on Google Drive: image
// folders are listed by parent id, registry workbooks are downloaded and
// overwritten by file id.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"capsule-labeling-be/pkg/registry"
	"capsule-labeling-be/pkg/storage"
	"capsule-labeling-be/pkg/storage/xlsx"

	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const listFields = "nextPageToken, files(id, name)"

type Backend struct {
	svc   *gdrive.Service
	codec *xlsx.Codec
}

// New wraps an already configured Drive service.
func New(svc *gdrive.Service, codec *xlsx.Codec) *Backend {
	return &Backend{svc: svc, codec: codec}
}

// NewFromServiceAccount authenticates with a service account key using the
// full drive scope, since registry workbooks are overwritten in place.
func NewFromServiceAccount(ctx context.Context, keyJSON []byte, codec *xlsx.Codec) (*Backend, error) {
	creds, err := google.CredentialsFromJSON(ctx, keyJSON, gdrive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	svc, err := gdrive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return New(svc, codec), nil
}

// ListImages pages through every image whose parent is folderRef.
func (b *Backend) ListImages(ctx context.Context, folderRef string) ([]registry.ImageRef, error) {
	if folderRef == "" {
		return nil, nil
	}
	q := fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", escapeQuery(folderRef))

	var refs []registry.ImageRef
	pageToken := ""
	for {
		call := b.svc.Files.List().
			Q(q).
			Spaces("drive").
			Fields(listFields).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list drive folder %s: %w", folderRef, err)
		}
		for _, f := range resp.Files {
			refs = append(refs, registry.ImageRef{ID: f.Id, Name: f.Name})
		}
		if resp.NextPageToken == "" {
			return refs, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (b *Backend) download(ctx context.Context, id string) (*http.Response, error) {
	return b.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
}

func (b *Backend) FetchImage(ctx context.Context, id string) (*storage.Image, error) {
	if id == "" {
		return nil, storage.ErrImageNotFound
	}
	resp, err := b.download(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrImageNotFound, id)
		}
		return nil, fmt.Errorf("download image %s: %w", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", id, err)
	}
	return &storage.Image{
		ID:          id,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// LoadTable downloads and decodes a workbook. A missing file id is an empty
// table; a file id Drive does not know is an error, since the configuration
// names a file that should exist.
func (b *Backend) LoadTable(ctx context.Context, ref string) (*registry.Table, error) {
	if ref == "" {
		return registry.NewTable(), nil
	}
	resp, err := b.download(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("download table %s: %w", ref, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", ref, err)
	}
	if len(data) == 0 {
		return registry.NewTable(), nil
	}
	table, err := b.codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode table %s: %w", ref, err)
	}
	return table, nil
}

// SaveTable overwrites the content of an existing Drive file.
func (b *Backend) SaveTable(ctx context.Context, ref string, table *registry.Table) error {
	if ref == "" {
		return nil
	}
	data, err := b.codec.Encode(table)
	if err != nil {
		return fmt.Errorf("encode table %s: %w", ref, err)
	}
	_, err = b.svc.Files.Update(ref, &gdrive.File{}).
		Media(bytes.NewReader(data), googleapi.ContentType(xlsx.MimeType)).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("upload table %s: %w", ref, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// escapeQuery escapes a value for a single-quoted Drive query string.
func escapeQuery(v string) string {
	return queryEscaper.Replace(v)
}
