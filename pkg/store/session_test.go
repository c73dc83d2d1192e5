package store

import (
	"testing"

	"capsule-labeling-be/pkg/registry"

	"github.com/stretchr/testify/assert"
)

func sessionWith(labeled, unlabeled []string) *Session {
	s := NewSession("tester", registry.DefaultVocabulary)
	for _, f := range labeled {
		s.Labeled.Rows = append(s.Labeled.Rows, &registry.FrameRecord{Frame: f, Labels: registry.LabelSet{"Ulcer": true}})
	}
	for _, f := range unlabeled {
		s.Unlabeled.Rows = append(s.Unlabeled.Rows, &registry.FrameRecord{Frame: f})
	}
	return s
}

func TestCurrentRowClampsAfterFilter(t *testing.T) {
	s := sessionWith([]string{"a", "b"}, []string{"c", "d", "e"})

	s.Cursor.Next(5)
	s.Cursor.Next(5)
	s.Cursor.Next(5)
	row, index, total, ok := s.CurrentRow()
	assert.True(t, ok)
	assert.Equal(t, 3, index)
	assert.Equal(t, 5, total)
	assert.Equal(t, "d", row.Record.Frame)
	assert.False(t, row.IsLabeled)

	s.Filter.Status = registry.StatusLabeled
	row, index, total, ok = s.CurrentRow()
	assert.True(t, ok)
	assert.Equal(t, 1, index)
	assert.Equal(t, 2, total)
	assert.Equal(t, "b", row.Record.Frame)
	assert.True(t, row.IsLabeled)
}

func TestCurrentRowEmptyView(t *testing.T) {
	s := sessionWith(nil, nil)
	_, index, total, ok := s.CurrentRow()
	assert.False(t, ok)
	assert.Zero(t, index)
	assert.Zero(t, total)
}

func TestImageForAndKnows(t *testing.T) {
	s := sessionWith([]string{"a"}, []string{"b"})
	s.Images = []registry.ImageRef{{ID: "1", Name: "b"}, {ID: "2", Name: "b"}}

	img, ok := s.ImageFor("b")
	assert.True(t, ok)
	assert.Equal(t, "1", img.ID)
	_, ok = s.ImageFor("a")
	assert.False(t, ok)

	assert.True(t, s.Knows("a"))
	assert.True(t, s.Knows("b"))
	assert.False(t, s.Knows("z"))
}
