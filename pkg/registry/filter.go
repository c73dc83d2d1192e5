package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Status selects which registry a view draws from.
type Status string

const (
	StatusAll       Status = "all"
	StatusLabeled   Status = "labeled"
	StatusUnlabeled Status = "unlabeled"
)

// FacetAll disables a facet filter.
const FacetAll = "All"

// ParseStatus accepts the status names case-insensitively; empty means all.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusLabeled:
		return StatusLabeled, nil
	case StatusUnlabeled:
		return StatusUnlabeled, nil
	}
	return "", fmt.Errorf("invalid status %q", raw)
}

// Filter narrows the combined registry for navigation.
type Filter struct {
	Status         Status   `json:"status"`
	Movie          string   `json:"movie"`
	Pillcam        string   `json:"pillcam"`
	RequiredLabels []string `json:"required_labels"`
}

// DefaultFilter shows every frame.
func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Movie: FacetAll, Pillcam: FacetAll}
}

// ViewRow is a row of the filtered view tagged with where it lives.
type ViewRow struct {
	Record    *FrameRecord
	IsLabeled bool
}

func facetActive(value string) bool {
	return value != "" && !strings.EqualFold(value, FacetAll)
}

// FilterView builds the navigation sequence. The base set follows f.Status
// (labeled rows before unlabeled rows for the union), then exact facet
// matches, then rows where every required label is set. Row order is the
// store order. Rows without a frame value cannot be labeled and are left out.
// Required names outside vocab are ignored.
func FilterView(labeled, unlabeled *Table, f Filter, vocab Vocabulary) []ViewRow {
	required := make([]string, 0, len(f.RequiredLabels))
	for _, name := range f.RequiredLabels {
		if vocab.Contains(name) {
			required = append(required, name)
		}
	}

	var base []ViewRow
	if f.Status != StatusUnlabeled && labeled != nil {
		for _, r := range labeled.Rows {
			base = append(base, ViewRow{Record: r, IsLabeled: true})
		}
	}
	if f.Status != StatusLabeled && unlabeled != nil {
		for _, r := range unlabeled.Rows {
			base = append(base, ViewRow{Record: r, IsLabeled: false})
		}
	}

	out := make([]ViewRow, 0, len(base))
	for _, row := range base {
		if row.Record.Frame == "" {
			continue
		}
		if facetActive(f.Movie) && row.Record.Movie != f.Movie {
			continue
		}
		if facetActive(f.Pillcam) && row.Record.Pillcam != f.Pillcam {
			continue
		}
		if !hasAll(row.Record.Labels, required) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func hasAll(labels LabelSet, required []string) bool {
	for _, name := range required {
		if !labels[name] {
			return false
		}
	}
	return true
}

// Facets lists the distinct non-empty values seen across both tables.
type Facets struct {
	Movies   []string `json:"movies"`
	Pillcams []string `json:"pillcams"`
}

func FacetOptions(labeled, unlabeled *Table) Facets {
	movies := make(map[string]bool)
	pillcams := make(map[string]bool)
	for _, t := range []*Table{labeled, unlabeled} {
		if t == nil {
			continue
		}
		for _, r := range t.Rows {
			if r.Movie != "" {
				movies[r.Movie] = true
			}
			if r.Pillcam != "" {
				pillcams[r.Pillcam] = true
			}
		}
	}
	return Facets{Movies: sortedKeys(movies), Pillcams: sortedKeys(pillcams)}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
