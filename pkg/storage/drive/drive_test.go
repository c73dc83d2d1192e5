package drive

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"capsule-labeling-be/pkg/registry"
	"capsule-labeling-be/pkg/storage"
	"capsule-labeling-be/pkg/storage/xlsx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type fakeDrive struct {
	mu      sync.Mutex
	files   map[string][]byte
	queries []string
	uploads map[string]int
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files"):
		f.queries = append(f.queries, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = io.WriteString(w, `{"nextPageToken":"p2","files":[{"id":"1","name":"f1.png"},{"id":"2","name":"f2.png"}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"files":[{"id":"3","name":"f3.png"}]}`)

	case r.Method == http.MethodGet && r.URL.Query().Get("alt") == "media":
		data, ok := f.files[path.Base(r.URL.Path)]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":404,"message":"File not found"}}`)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)

	case r.Method == http.MethodPatch:
		id := path.Base(r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		f.uploads[id] += len(body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})

	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusBadRequest)
	}
}

func newTestBackend(t *testing.T, fake *fakeDrive) *Backend {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gdrive.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return New(svc, xlsx.NewCodec(registry.DefaultVocabulary))
}

func TestListImagesEscapesFolderRef(t *testing.T) {
	fake := &fakeDrive{files: map[string][]byte{}, uploads: map[string]int{}}
	b := newTestBackend(t, fake)

	_, err := b.ListImages(context.Background(), `it's\x`)
	require.NoError(t, err)
	require.NotEmpty(t, fake.queries)
	assert.True(t, strings.HasPrefix(fake.queries[0], `'it\'s\\x' in parents`), fake.queries[0])
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, "folder-1", escapeQuery("folder-1"))
	assert.Equal(t, `a\'b`, escapeQuery("a'b"))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
}

func TestListImagesFollowsPages(t *testing.T) {
	fake := &fakeDrive{files: map[string][]byte{}, uploads: map[string]int{}}
	b := newTestBackend(t, fake)

	refs, err := b.ListImages(context.Background(), "folder-1")
	require.NoError(t, err)
	assert.Equal(t, []registry.ImageRef{
		{ID: "1", Name: "f1.png"},
		{ID: "2", Name: "f2.png"},
		{ID: "3", Name: "f3.png"},
	}, refs)
	require.Len(t, fake.queries, 2)
	assert.Contains(t, fake.queries[0], "'folder-1' in parents")
	assert.Contains(t, fake.queries[0], "mimeType contains 'image/'")

	refs, err = b.ListImages(context.Background(), "")
	assert.NoError(t, err)
	assert.Empty(t, refs)
}

func TestFetchImage(t *testing.T) {
	fake := &fakeDrive{files: map[string][]byte{"img-1": []byte("png-bytes")}, uploads: map[string]int{}}
	b := newTestBackend(t, fake)

	img, err := b.FetchImage(context.Background(), "img-1")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(img.Data))
	assert.Equal(t, "image/png", img.ContentType)

	_, err = b.FetchImage(context.Background(), "img-404")
	assert.ErrorIs(t, err, storage.ErrImageNotFound)
}

func TestTableRoundTrip(t *testing.T) {
	codec := xlsx.NewCodec(registry.DefaultVocabulary)
	table := registry.Normalize(registry.NewTable(), registry.RequiredColumns(registry.DefaultVocabulary))
	table.Rows = []*registry.FrameRecord{{Frame: "f1.png"}}
	data, err := codec.Encode(table)
	require.NoError(t, err)

	fake := &fakeDrive{files: map[string][]byte{"sheet-1": data}, uploads: map[string]int{}}
	b := newTestBackend(t, fake)
	ctx := context.Background()

	got, err := b.LoadTable(ctx, "sheet-1")
	require.NoError(t, err)
	assert.Equal(t, table.Columns, got.Columns)
	require.Len(t, got.Rows, 1)

	empty, err := b.LoadTable(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	_, err = b.LoadTable(ctx, "sheet-404")
	assert.Error(t, err)

	require.NoError(t, b.SaveTable(ctx, "sheet-1", got))
	assert.Positive(t, fake.uploads["sheet-1"])

	require.NoError(t, b.SaveTable(ctx, "", got))
	assert.Len(t, fake.uploads, 1, "empty ref never uploads")
}
