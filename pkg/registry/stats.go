package registry

// Stats summarizes the registry for dashboards.
type Stats struct {
	LabelCounts    map[string]int `json:"label_counts"`
	LabeledCount   int            `json:"labeled_count"`
	UnlabeledCount int            `json:"unlabeled_count"`
	PendingEdits   int            `json:"pending_edits"`
}

// ComputeStats counts set flags over the labeled table and the size of each
// table. Pending is passed through from the caller's edit buffer.
func ComputeStats(labeled, unlabeled *Table, vocab Vocabulary, pending int) Stats {
	counts := make(map[string]int, len(vocab))
	for _, name := range vocab {
		counts[name] = 0
	}
	if labeled != nil {
		for _, r := range labeled.Rows {
			for _, name := range vocab {
				if r.Labels[name] {
					counts[name]++
				}
			}
		}
	}
	return Stats{
		LabelCounts:    counts,
		LabeledCount:   labeled.Len(),
		UnlabeledCount: unlabeled.Len(),
		PendingEdits:   pending,
	}
}
