package store

import (
	"sync"
	"time"

	"capsule-labeling-be/pkg/registry"

	"github.com/google/uuid"
)

// Session is one annotator's working state: the two registries as last loaded
// or committed, the image listing, pending edits and the filter cursor.
//
// Callers hold Lock for the whole interaction so one request completes before
// the next one on the same session is processed.
type Session struct {
	mu sync.Mutex

	ID        string    `json:"id"`
	Annotator string    `json:"annotator"`
	StartedAt time.Time `json:"started_at"`

	Vocab registry.Vocabulary `json:"-"`

	Labeled    *registry.Table     `json:"-"`
	Unlabeled  *registry.Table     `json:"-"`
	Images     []registry.ImageRef `json:"-"`
	Discovered []string            `json:"discovered"` // frames appended by the reconciler at start

	Buffer *registry.EditBuffer `json:"-"`
	Filter registry.Filter      `json:"filter"`
	Cursor registry.Navigator   `json:"-"`
}

func NewSession(annotator string, vocab registry.Vocabulary) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Annotator: annotator,
		StartedAt: time.Now(),
		Vocab:     vocab,
		Labeled:   registry.NewTable(),
		Unlabeled: registry.NewTable(),
		Buffer:    registry.NewEditBuffer(vocab),
		Filter:    registry.DefaultFilter(),
	}
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// View applies the current filter to the session tables.
func (s *Session) View() []registry.ViewRow {
	return registry.FilterView(s.Labeled, s.Unlabeled, s.Filter, s.Vocab)
}

// CurrentRow re-clamps the cursor to the view and returns the row under it.
// ok is false when the view is empty.
func (s *Session) CurrentRow() (row registry.ViewRow, index, total int, ok bool) {
	view := s.View()
	total = len(view)
	index = s.Cursor.Clamp(total)
	if total == 0 {
		return registry.ViewRow{}, 0, 0, false
	}
	return view[index], index, total, true
}

// ImageFor returns the first discovered image named frame.
func (s *Session) ImageFor(frame string) (registry.ImageRef, bool) {
	for _, img := range s.Images {
		if img.Name == frame {
			return img, true
		}
	}
	return registry.ImageRef{}, false
}

// Knows reports whether frame is a row of either registry.
func (s *Session) Knows(frame string) bool {
	if _, ok := s.Labeled.Find(frame); ok {
		return true
	}
	_, ok := s.Unlabeled.Find(frame)
	return ok
}
