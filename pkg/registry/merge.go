package registry

import "time"

// MergeResult is the outcome of applying pending edits.
type MergeResult struct {
	Labeled   *Table
	Unlabeled *Table
	Changed   int
	Promoted  []string // frames moved (or added) into the labeled table
	Updated   []string // frames already labeled whose flags were rewritten
}

// Merge applies edits in order. A frame already in the labeled table gets its
// flags, class and label_date rewritten in place. Any other frame is appended
// to the labeled table with empty metadata and removed from the unlabeled
// table. A frame with no active flag is still promoted, with an empty class.
//
// The input tables are never modified. With no edits the inputs are returned
// as is and Changed is zero, in which case nothing should be persisted.
func Merge(edits []Edit, labeled, unlabeled *Table, vocab Vocabulary, now time.Time) MergeResult {
	if len(edits) == 0 {
		return MergeResult{Labeled: labeled, Unlabeled: unlabeled}
	}

	res := MergeResult{
		Labeled:   labeled.Clone(),
		Unlabeled: unlabeled.Clone(),
	}
	stamp := now.Truncate(time.Second)

	for _, edit := range edits {
		flags := edit.Labels.Full(vocab)
		class := DeriveClass(flags, vocab)

		if row, ok := res.Labeled.Find(edit.Frame); ok {
			row.Labels = flags
			row.Class = class
			ts := stamp
			row.LabelDate = &ts
			res.Updated = append(res.Updated, edit.Frame)
		} else {
			ts := stamp
			res.Labeled.Rows = append(res.Labeled.Rows, &FrameRecord{
				Frame:     edit.Frame,
				Class:     class,
				LabelDate: &ts,
				Labels:    flags,
			})
			res.Unlabeled.Rows = res.Unlabeled.without(edit.Frame)
			res.Promoted = append(res.Promoted, edit.Frame)
		}
		res.Changed++
	}
	return res
}
