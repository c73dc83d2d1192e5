package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterFixture() (*Table, *Table) {
	labeled := tableOf("l1", "l2", "l3")
	labeled.Rows[0].Movie, labeled.Rows[0].Pillcam = "m1", "SB3"
	labeled.Rows[0].Labels = LabelSet{"Ulcer": true, "Junk": true}
	labeled.Rows[1].Movie, labeled.Rows[1].Pillcam = "m2", "SB3"
	labeled.Rows[1].Labels = LabelSet{"Ulcer": true}
	labeled.Rows[2].Movie = "m1"
	labeled.Rows[2].Labels = LabelSet{"Junk": true}

	unlabeled := tableOf("u1", "u2")
	unlabeled.Rows[0].Movie = "m1"
	return labeled, unlabeled
}

func viewNames(rows []ViewRow) []string {
	var names []string
	for _, r := range rows {
		names = append(names, r.Record.Frame)
	}
	return names
}

func TestFilterView(t *testing.T) {
	labeled, unlabeled := filterFixture()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all keeps labeled first", filter: DefaultFilter(), want: []string{"l1", "l2", "l3", "u1", "u2"}},
		{name: "labeled only", filter: Filter{Status: StatusLabeled}, want: []string{"l1", "l2", "l3"}},
		{name: "unlabeled only", filter: Filter{Status: StatusUnlabeled}, want: []string{"u1", "u2"}},
		{name: "movie facet", filter: Filter{Status: StatusAll, Movie: "m1", Pillcam: "All"}, want: []string{"l1", "l3", "u1"}},
		{name: "facet all is case-insensitive", filter: Filter{Movie: "all", Pillcam: "ALL"}, want: []string{"l1", "l2", "l3", "u1", "u2"}},
		{name: "both facets", filter: Filter{Movie: "m1", Pillcam: "SB3"}, want: []string{"l1"}},
		{name: "one required label", filter: Filter{RequiredLabels: []string{"Ulcer"}}, want: []string{"l1", "l2"}},
		{name: "required labels are conjunctive", filter: Filter{RequiredLabels: []string{"Ulcer", "Junk"}}, want: []string{"l1"}},
		{name: "unknown label is ignored", filter: Filter{RequiredLabels: []string{"Polyp"}}, want: []string{"l1", "l2", "l3", "u1", "u2"}},
		{name: "unknown label next to a known one", filter: Filter{RequiredLabels: []string{"Ulcer", "Polyp"}}, want: []string{"l1", "l2"}},
		{name: "no match is valid", filter: Filter{Status: StatusUnlabeled, Movie: "m9"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, viewNames(FilterView(labeled, unlabeled, tt.filter, DefaultVocabulary)))
		})
	}
}

func TestFilterViewSkipsRowsWithoutFrame(t *testing.T) {
	labeled, unlabeled := filterFixture()
	labeled.Rows = append(labeled.Rows, &FrameRecord{Movie: "m1", Labels: LabelSet{"Ulcer": true}})
	unlabeled.Rows = append([]*FrameRecord{{Pillcam: "SB3"}}, unlabeled.Rows...)

	assert.Equal(t, []string{"l1", "l2", "l3", "u1", "u2"}, viewNames(FilterView(labeled, unlabeled, DefaultFilter(), DefaultVocabulary)))
	assert.Len(t, labeled.Rows, 4, "the row stays in the table")
}

func TestFilterViewProvenance(t *testing.T) {
	labeled, unlabeled := filterFixture()
	rows := FilterView(labeled, unlabeled, DefaultFilter(), DefaultVocabulary)
	for _, r := range rows {
		_, inLabeled := labeled.Find(r.Record.Frame)
		assert.Equal(t, inLabeled, r.IsLabeled, r.Record.Frame)
	}
}

func TestFilterConjunctionIsSubset(t *testing.T) {
	labeled, unlabeled := filterFixture()
	one := viewNames(FilterView(labeled, unlabeled, Filter{RequiredLabels: []string{"Junk"}}, DefaultVocabulary))
	two := viewNames(FilterView(labeled, unlabeled, Filter{RequiredLabels: []string{"Junk", "Ulcer"}}, DefaultVocabulary))
	assert.Subset(t, one, two)
}

func TestFacetOptions(t *testing.T) {
	labeled, unlabeled := filterFixture()
	facets := FacetOptions(labeled, unlabeled)
	assert.Equal(t, []string{"m1", "m2"}, facets.Movies)
	assert.Equal(t, []string{"SB3"}, facets.Pillcams)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Labeled")
	assert.NoError(t, err)
	assert.Equal(t, StatusLabeled, s)

	s, err = ParseStatus("")
	assert.NoError(t, err)
	assert.Equal(t, StatusAll, s)

	_, err = ParseStatus("archived")
	assert.Error(t, err)
}
