package registry

// ImageRef is one image reported by the folder listing.
type ImageRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DedupImages drops repeated identifiers, keeping the first occurrence.
func DedupImages(refs []ImageRef) []ImageRef {
	seen := make(map[string]bool, len(refs))
	out := make([]ImageRef, 0, len(refs))
	for _, ref := range refs {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		out = append(out, ref)
	}
	return out
}

// Reconcile appends every discovered frame unknown to both tables to a copy of
// the unlabeled table and reports the names it added. Frames are matched by
// image name. The labeled table is only read.
//
// A frame already present in either table is skipped without checking which
// one holds it; use CheckConsistency to surface frames found in both.
func Reconcile(labeled, unlabeled *Table, discovered []ImageRef) (*Table, []string) {
	known := labeled.Frames()
	for f := range unlabeled.Frames() {
		known[f] = struct{}{}
	}

	var added []string
	for _, ref := range discovered {
		if ref.Name == "" {
			continue
		}
		if _, ok := known[ref.Name]; ok {
			continue
		}
		known[ref.Name] = struct{}{}
		added = append(added, ref.Name)
	}
	if len(added) == 0 {
		return unlabeled, nil
	}

	out := unlabeled.Clone()
	for _, name := range added {
		out.Rows = append(out.Rows, &FrameRecord{Frame: name})
	}
	return out, added
}
