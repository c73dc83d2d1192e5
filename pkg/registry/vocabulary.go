package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLabel is returned when a label name is not part of the vocabulary.
var ErrUnknownLabel = errors.New("unknown label")

// DefaultVocabulary is the label set used by the capsule endoscopy project.
var DefaultVocabulary = Vocabulary{"Junk", "LowQuality", "Normal", "Stricture", "Ulcer"}

// Vocabulary is the fixed, ordered list of label names a frame may carry.
type Vocabulary []string

// ParseVocabulary splits a comma separated list, trimming blanks and
// rejecting duplicates.
func ParseVocabulary(raw string) (Vocabulary, error) {
	seen := make(map[string]bool)
	var vocab Vocabulary
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate label %q in vocabulary", name)
		}
		if isBaseColumn(name) {
			return nil, fmt.Errorf("label %q collides with a base column", name)
		}
		seen[name] = true
		vocab = append(vocab, name)
	}
	if len(vocab) == 0 {
		return nil, errors.New("vocabulary is empty")
	}
	return vocab, nil
}

func (v Vocabulary) Contains(name string) bool {
	for _, n := range v {
		if n == name {
			return true
		}
	}
	return false
}

// Validate reports the first name that is not in the vocabulary.
func (v Vocabulary) Validate(names ...string) error {
	for _, n := range names {
		if !v.Contains(n) {
			return fmt.Errorf("%w: %q", ErrUnknownLabel, n)
		}
	}
	return nil
}

// LabelSet maps a label name to its flag. A missing key means the cell is
// empty (never labeled), false means an explicit 0.
type LabelSet map[string]bool

// Clone returns an independent copy.
func (s LabelSet) Clone() LabelSet {
	if s == nil {
		return nil
	}
	out := make(LabelSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Full returns a set holding an explicit value for every vocabulary entry.
// Names outside the vocabulary are dropped.
func (s LabelSet) Full(vocab Vocabulary) LabelSet {
	out := make(LabelSet, len(vocab))
	for _, name := range vocab {
		out[name] = s[name]
	}
	return out
}

// Active lists the set flags in vocabulary order.
func (s LabelSet) Active(vocab Vocabulary) []string {
	var active []string
	for _, name := range vocab {
		if s[name] {
			active = append(active, name)
		}
	}
	return active
}

// DeriveClass builds the denormalized class string: empty when nothing is set,
// otherwise the active names joined by "," in vocabulary order.
func DeriveClass(labels LabelSet, vocab Vocabulary) string {
	return strings.Join(labels.Active(vocab), ",")
}
