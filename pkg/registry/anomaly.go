package registry

import "fmt"

// AnomalyKind names a referential problem in the registry.
type AnomalyKind string

const (
	AnomalyInBoth             AnomalyKind = "in_both"
	AnomalyDuplicateLabeled   AnomalyKind = "duplicate_labeled"
	AnomalyDuplicateUnlabeled AnomalyKind = "duplicate_unlabeled"
	AnomalyClassMismatch      AnomalyKind = "class_mismatch"
	AnomalyMissingImage       AnomalyKind = "missing_image"
	AnomalyMissingFrame       AnomalyKind = "missing_frame"
)

type Anomaly struct {
	Frame  string      `json:"frame"`
	Kind   AnomalyKind `json:"kind"`
	Detail string      `json:"detail,omitempty"`
}

// CheckConsistency reports registry problems that reconciliation would
// otherwise mask. It never modifies the tables. Missing-image checks run only
// when discovered is non-nil.
func CheckConsistency(labeled, unlabeled *Table, vocab Vocabulary, discovered []ImageRef) []Anomaly {
	var out []Anomaly

	labeledFrames := duplicates(labeled, AnomalyDuplicateLabeled, &out)
	unlabeledFrames := duplicates(unlabeled, AnomalyDuplicateUnlabeled, &out)
	frameless(labeled, "labeled", &out)
	frameless(unlabeled, "unlabeled", &out)

	if labeled != nil {
		reported := make(map[string]bool)
		for _, r := range labeled.Rows {
			if r.Frame == "" {
				continue
			}
			if _, ok := unlabeledFrames[r.Frame]; ok && !reported[r.Frame] {
				reported[r.Frame] = true
				out = append(out, Anomaly{Frame: r.Frame, Kind: AnomalyInBoth})
			}
			if want := DeriveClass(r.Labels, vocab); r.Class != want {
				out = append(out, Anomaly{
					Frame:  r.Frame,
					Kind:   AnomalyClassMismatch,
					Detail: fmt.Sprintf("class %q but flags give %q", r.Class, want),
				})
			}
		}
	}

	if discovered != nil {
		names := make(map[string]bool, len(discovered))
		for _, ref := range discovered {
			names[ref.Name] = true
		}
		for _, set := range []map[string]struct{}{labeledFrames, unlabeledFrames} {
			for _, frame := range sortedSet(set) {
				if !names[frame] {
					out = append(out, Anomaly{Frame: frame, Kind: AnomalyMissingImage})
				}
			}
		}
	}
	return out
}

func duplicates(t *Table, kind AnomalyKind, out *[]Anomaly) map[string]struct{} {
	seen := make(map[string]struct{})
	if t == nil {
		return seen
	}
	reported := make(map[string]bool)
	for _, r := range t.Rows {
		if r.Frame == "" {
			continue
		}
		if _, ok := seen[r.Frame]; ok {
			if !reported[r.Frame] {
				reported[r.Frame] = true
				*out = append(*out, Anomaly{Frame: r.Frame, Kind: kind})
			}
			continue
		}
		seen[r.Frame] = struct{}{}
	}
	return seen
}

// frameless reports rows kept in the table without a frame value. Detail
// carries the spreadsheet row number (header is row 1).
func frameless(t *Table, name string, out *[]Anomaly) {
	if t == nil {
		return
	}
	for i, r := range t.Rows {
		if r.Frame == "" {
			*out = append(*out, Anomaly{Kind: AnomalyMissingFrame, Detail: fmt.Sprintf("%s row %d", name, i+2)})
		}
	}
}

func sortedSet(set map[string]struct{}) []string {
	m := make(map[string]bool, len(set))
	for k := range set {
		m[k] = true
	}
	return sortedKeys(m)
}
