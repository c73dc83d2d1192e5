package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveClass(t *testing.T) {
	tests := []struct {
		name   string
		labels LabelSet
		want   string
	}{
		{name: "no flags", labels: LabelSet{}, want: ""},
		{name: "explicit zeros", labels: LabelSet{"Ulcer": false, "Junk": false}, want: ""},
		{name: "single flag", labels: LabelSet{"Ulcer": true}, want: "Ulcer"},
		{name: "two flags in vocabulary order", labels: LabelSet{"Stricture": true, "Junk": true}, want: "Junk,Stricture"},
		{name: "unknown names ignored", labels: LabelSet{"Polyp": true, "Normal": true}, want: "Normal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveClass(tt.labels, DefaultVocabulary))
		})
	}
}

func TestParseVocabulary(t *testing.T) {
	vocab, err := ParseVocabulary(" Junk, Ulcer ,,Normal")
	require.NoError(t, err)
	assert.Equal(t, Vocabulary{"Junk", "Ulcer", "Normal"}, vocab)

	_, err = ParseVocabulary("Junk,Junk")
	assert.Error(t, err)

	_, err = ParseVocabulary("frame,Junk")
	assert.Error(t, err)

	_, err = ParseVocabulary(" , ")
	assert.Error(t, err)
}

func TestVocabularyValidate(t *testing.T) {
	assert.NoError(t, DefaultVocabulary.Validate("Junk", "Ulcer"))

	err := DefaultVocabulary.Validate("Junk", "Polyp")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLabel)
}

func TestLabelSetFull(t *testing.T) {
	full := LabelSet{"Ulcer": true, "Polyp": true}.Full(DefaultVocabulary)
	assert.Len(t, full, len(DefaultVocabulary))
	assert.True(t, full["Ulcer"])
	assert.False(t, full["Junk"])
	_, hasPolyp := full["Polyp"]
	assert.False(t, hasPolyp)
}
