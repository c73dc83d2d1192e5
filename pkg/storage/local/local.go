// Package local serves frames and registry workbooks from the filesystem.
// Folder refs are directories, table refs are .xlsx paths and image ids are
// file paths, all resolved against an optional root.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"capsule-labeling-be/pkg/registry"
	"capsule-labeling-be/pkg/storage"
	"capsule-labeling-be/pkg/storage/xlsx"
)

type Backend struct {
	root  string
	codec *xlsx.Codec
}

func New(root string, codec *xlsx.Codec) *Backend {
	return &Backend{root: root, codec: codec}
}

func (b *Backend) resolve(ref string) string {
	if b.root == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(b.root, ref)
}

// ListImages returns the image files directly inside folderRef, sorted by
// name. The id is the path relative to the root.
func (b *Backend) ListImages(ctx context.Context, folderRef string) ([]registry.ImageRef, error) {
	if folderRef == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(b.resolve(folderRef))
	if err != nil {
		return nil, fmt.Errorf("list folder %s: %w", folderRef, err)
	}

	var refs []registry.ImageRef
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		refs = append(refs, registry.ImageRef{
			ID:   filepath.Join(folderRef, e.Name()),
			Name: e.Name(),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func isImage(name string) bool {
	return strings.HasPrefix(mime.TypeByExtension(strings.ToLower(filepath.Ext(name))), "image/")
}

func (b *Backend) FetchImage(ctx context.Context, id string) (*storage.Image, error) {
	if id == "" {
		return nil, storage.ErrImageNotFound
	}
	data, err := os.ReadFile(b.resolve(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrImageNotFound, id)
		}
		return nil, fmt.Errorf("read image %s: %w", id, err)
	}
	return &storage.Image{
		ID:          id,
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(id))),
		Data:        data,
	}, nil
}

func (b *Backend) LoadTable(ctx context.Context, ref string) (*registry.Table, error) {
	if ref == "" {
		return registry.NewTable(), nil
	}
	data, err := os.ReadFile(b.resolve(ref))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return registry.NewTable(), nil
		}
		return nil, fmt.Errorf("read table %s: %w", ref, err)
	}
	table, err := b.codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode table %s: %w", ref, err)
	}
	return table, nil
}

// SaveTable replaces the workbook through a temp file and rename so readers
// never see a half-written file.
func (b *Backend) SaveTable(ctx context.Context, ref string, table *registry.Table) error {
	if ref == "" {
		return nil
	}
	data, err := b.codec.Encode(table)
	if err != nil {
		return fmt.Errorf("encode table %s: %w", ref, err)
	}

	path := b.resolve(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".registry-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace table %s: %w", ref, err)
	}
	return nil
}
