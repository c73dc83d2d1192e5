package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableOf(frames ...string) *Table {
	t := Normalize(NewTable(), RequiredColumns(DefaultVocabulary))
	for _, f := range frames {
		t.Rows = append(t.Rows, &FrameRecord{Frame: f})
	}
	return t
}

func refs(names ...string) []ImageRef {
	out := make([]ImageRef, len(names))
	for i, n := range names {
		out[i] = ImageRef{ID: "id-" + n, Name: n}
	}
	return out
}

func frameNames(t *Table) []string {
	var names []string
	for _, r := range t.Rows {
		names = append(names, r.Frame)
	}
	return names
}

func TestReconcile(t *testing.T) {
	t.Run("appends unknown frames in discovery order", func(t *testing.T) {
		labeled := tableOf("a.png")
		unlabeled := tableOf("b.png")

		out, added := Reconcile(labeled, unlabeled, refs("c.png", "a.png", "b.png", "d.png"))

		assert.Equal(t, []string{"c.png", "d.png"}, added)
		assert.Equal(t, []string{"b.png", "c.png", "d.png"}, frameNames(out))
		assert.Empty(t, out.Rows[1].Labels)
		assert.Equal(t, []string{"b.png"}, frameNames(unlabeled), "input must not change")
		assert.Equal(t, []string{"a.png"}, frameNames(labeled))
	})

	t.Run("duplicates in discovery are a set", func(t *testing.T) {
		out, added := Reconcile(tableOf(), tableOf(), refs("x.png", "x.png", "y.png", "x.png"))
		assert.Equal(t, []string{"x.png", "y.png"}, added)
		assert.Len(t, out.Rows, 2)
	})

	t.Run("empty discovery is a no-op", func(t *testing.T) {
		unlabeled := tableOf("b.png")
		out, added := Reconcile(tableOf(), unlabeled, nil)
		assert.Nil(t, added)
		assert.Same(t, unlabeled, out)
	})

	t.Run("idempotent", func(t *testing.T) {
		labeled := tableOf("a.png")
		discovered := refs("a.png", "b.png", "c.png")

		once, _ := Reconcile(labeled, tableOf(), discovered)
		twice, added := Reconcile(labeled, once, discovered)

		assert.Nil(t, added)
		assert.Equal(t, frameNames(once), frameNames(twice))
	})

	t.Run("scenario: two frames into empty stores", func(t *testing.T) {
		out, _ := Reconcile(tableOf(), tableOf(), refs("f1.png", "f2.png"))
		require.Len(t, out.Rows, 2)
		assert.Equal(t, "f1.png", out.Rows[0].Frame)
		assert.Equal(t, "f2.png", out.Rows[1].Frame)
		for _, r := range out.Rows {
			assert.Empty(t, r.Labels.Active(DefaultVocabulary))
		}
	})
}

func TestDedupImages(t *testing.T) {
	in := []ImageRef{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "1", Name: "a"}}
	assert.Equal(t, []ImageRef{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}, DedupImages(in))
}
