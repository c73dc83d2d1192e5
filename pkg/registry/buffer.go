package registry

// Edit is a pending label change for one frame.
type Edit struct {
	Frame  string   `json:"frame"`
	Labels LabelSet `json:"labels"`
}

// EditBuffer holds uncommitted label edits for one session, in the order the
// frames were first touched. It is not safe for concurrent use; the owning
// session serializes access.
type EditBuffer struct {
	vocab   Vocabulary
	order   []string
	entries map[string]LabelSet
}

func NewEditBuffer(vocab Vocabulary) *EditBuffer {
	return &EditBuffer{
		vocab:   vocab,
		entries: make(map[string]LabelSet),
	}
}

// GetOrSeed returns the buffered flags for frame. On first access it seeds an
// entry from current (all false when current is nil) and stores it, so the
// caller always edits a complete snapshot.
func (b *EditBuffer) GetOrSeed(frame string, current *FrameRecord) LabelSet {
	if labels, ok := b.entries[frame]; ok {
		return labels.Clone()
	}
	var seed LabelSet
	if current != nil {
		seed = current.Labels.Full(b.vocab)
	} else {
		seed = LabelSet{}.Full(b.vocab)
	}
	b.put(frame, seed)
	return seed.Clone()
}

// Set replaces the whole flag set for frame.
func (b *EditBuffer) Set(frame string, labels LabelSet) {
	b.put(frame, labels.Full(b.vocab))
}

func (b *EditBuffer) put(frame string, labels LabelSet) {
	if _, ok := b.entries[frame]; !ok {
		b.order = append(b.order, frame)
	}
	b.entries[frame] = labels
}

func (b *EditBuffer) Has(frame string) bool {
	_, ok := b.entries[frame]
	return ok
}

func (b *EditBuffer) Len() int {
	return len(b.order)
}

// Snapshot copies the pending edits without clearing them.
func (b *EditBuffer) Snapshot() []Edit {
	edits := make([]Edit, 0, len(b.order))
	for _, frame := range b.order {
		edits = append(edits, Edit{Frame: frame, Labels: b.entries[frame].Clone()})
	}
	return edits
}

// Drain returns every pending edit and empties the buffer.
func (b *EditBuffer) Drain() []Edit {
	edits := b.Snapshot()
	b.order = nil
	b.entries = make(map[string]LabelSet)
	return edits
}
