package registry

import (
	"fmt"
	"time"
)

// Base column names of a registry table.
const (
	ColumnFrame     = "frame"
	ColumnClass     = "class"
	ColumnMovie     = "movie"
	ColumnPillcam   = "pillcam"
	ColumnLabelDate = "label_date"
)

// LabelDateLayout is the timestamp format written into the label_date column.
const LabelDateLayout = "2006-01-02 15:04:05"

var baseColumns = []string{ColumnFrame, ColumnClass, ColumnMovie, ColumnPillcam, ColumnLabelDate}

func isBaseColumn(name string) bool {
	for _, c := range baseColumns {
		if c == name {
			return true
		}
	}
	return false
}

// BlankColumnKey is the Extra key holding the cell under a column whose
// header is blank. Blank columns are told apart by position.
func BlankColumnKey(index int) string {
	return fmt.Sprintf("__blank_%d", index)
}

// FrameRecord is one row of the labeled or unlabeled registry.
type FrameRecord struct {
	Frame     string            `json:"frame"`
	Class     string            `json:"class"`
	Movie     string            `json:"movie"`
	Pillcam   string            `json:"pillcam"`
	LabelDate *time.Time        `json:"label_date,omitempty"`
	Labels    LabelSet          `json:"labels,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"` // columns outside the schema, carried through untouched
}

func (r *FrameRecord) Clone() *FrameRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Labels = r.Labels.Clone()
	if r.LabelDate != nil {
		t := *r.LabelDate
		out.LabelDate = &t
	}
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

// Table is a tabular registry: an ordered column list and ordered rows.
type Table struct {
	Columns []string       `json:"columns"`
	Rows    []*FrameRecord `json:"rows"`
}

// NewTable returns an empty table with no columns, the state of a store that
// does not exist yet.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Clone deep-copies the table so callers can mutate it freely.
func (t *Table) Clone() *Table {
	if t == nil {
		return NewTable()
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]*FrameRecord, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Index returns the position of the first row for frame, or -1.
func (t *Table) Index(frame string) int {
	if t == nil {
		return -1
	}
	for i, r := range t.Rows {
		if r.Frame == frame {
			return i
		}
	}
	return -1
}

// Find returns the first row for frame.
func (t *Table) Find(frame string) (*FrameRecord, bool) {
	i := t.Index(frame)
	if i < 0 {
		return nil, false
	}
	return t.Rows[i], true
}

// Frames returns the set of non-empty frame identifiers in the table.
func (t *Table) Frames() map[string]struct{} {
	set := make(map[string]struct{})
	if t == nil {
		return set
	}
	for _, r := range t.Rows {
		if r.Frame != "" {
			set[r.Frame] = struct{}{}
		}
	}
	return set
}

// without returns a copy of rows minus every row for frame.
func (t *Table) without(frame string) []*FrameRecord {
	kept := make([]*FrameRecord, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Frame != frame {
			kept = append(kept, r)
		}
	}
	return kept
}
