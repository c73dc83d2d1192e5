package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckConsistency(t *testing.T) {
	labeled := tableOf("a.png", "b.png", "b.png")
	labeled.Rows[0].Labels = LabelSet{"Ulcer": true}
	labeled.Rows[0].Class = "Junk"
	unlabeled := tableOf("a.png", "c.png")

	got := CheckConsistency(labeled, unlabeled, DefaultVocabulary, refs("a.png", "b.png"))

	assert.ElementsMatch(t, []Anomaly{
		{Frame: "b.png", Kind: AnomalyDuplicateLabeled},
		{Frame: "a.png", Kind: AnomalyInBoth},
		{Frame: "a.png", Kind: AnomalyClassMismatch, Detail: `class "Junk" but flags give "Ulcer"`},
		{Frame: "c.png", Kind: AnomalyMissingImage},
	}, got)
}

func TestCheckConsistencyReportsRowsWithoutFrame(t *testing.T) {
	labeled := tableOf("a.png")
	labeled.Rows = append(labeled.Rows, &FrameRecord{Movie: "m1", Class: "Ulcer"})
	unlabeled := &Table{Rows: []*FrameRecord{{Pillcam: "SB3"}, {Frame: "b.png"}}}

	got := CheckConsistency(labeled, unlabeled, DefaultVocabulary, nil)

	assert.ElementsMatch(t, []Anomaly{
		{Kind: AnomalyMissingFrame, Detail: "labeled row 3"},
		{Kind: AnomalyMissingFrame, Detail: "unlabeled row 2"},
	}, got)
}

func TestCheckConsistencyClean(t *testing.T) {
	assert.Empty(t, CheckConsistency(tableOf("a.png"), tableOf("b.png"), DefaultVocabulary, nil))
}
