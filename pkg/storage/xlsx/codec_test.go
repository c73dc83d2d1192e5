package xlsx

import (
	"bytes"
	"testing"
	"time"

	"capsule-labeling-be/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCodecRoundTripKeepsColumnsAndEmptyCells(t *testing.T) {
	codec := NewCodec(registry.DefaultVocabulary)
	stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	table := registry.Normalize(&registry.Table{Columns: []string{"frame", "notes"}}, registry.RequiredColumns(registry.DefaultVocabulary))
	table.Rows = []*registry.FrameRecord{
		{
			Frame: "a.png", Class: "Junk,Ulcer", Movie: "m1", Pillcam: "SB3", LabelDate: &stamp,
			Labels: registry.LabelSet{"Junk": true, "LowQuality": false, "Normal": false, "Stricture": false, "Ulcer": true},
			Extra:  map[string]string{"notes": "check later"},
		},
		{Frame: "b.png"},
	}

	data, err := codec.Encode(table)
	require.NoError(t, err)

	got, err := codec.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, table.Columns, got.Columns)
	require.Len(t, got.Rows, 2)

	a := got.Rows[0]
	assert.Equal(t, "Junk,Ulcer", a.Class)
	assert.Equal(t, "m1", a.Movie)
	require.NotNil(t, a.LabelDate)
	assert.True(t, stamp.Equal(*a.LabelDate))
	assert.Equal(t, table.Rows[0].Labels, a.Labels)
	assert.Equal(t, "check later", a.Extra["notes"])

	b := got.Rows[1]
	assert.Nil(t, b.LabelDate)
	assert.Empty(t, b.Labels, "empty flag cells stay absent")
}

func TestDecodeLegacyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"frame", "class", "Ulcer", "Junk", "label_date"},
		{"x.png", "Ulcer", 1.0, 0.0, "2024-05-06 07:08:09"},
		{nil, nil, nil, nil, nil},
		{"y.png", "", "TRUE", "", "garbage"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	got, err := NewCodec(registry.DefaultVocabulary).Decode(&buf)
	require.NoError(t, err)

	require.Len(t, got.Rows, 2, "row without any value is skipped")
	assert.Equal(t, registry.LabelSet{"Ulcer": true, "Junk": false}, got.Rows[0].Labels)
	require.NotNil(t, got.Rows[0].LabelDate)
	assert.Equal(t, 2024, got.Rows[0].LabelDate.Year())

	assert.True(t, got.Rows[1].Labels["Ulcer"])
	_, hasJunk := got.Rows[1].Labels["Junk"]
	assert.False(t, hasJunk)
	assert.Nil(t, got.Rows[1].LabelDate, "unparsable date reads as absent")
}

func TestCodecKeepsRowsWithoutFrameAndBlankHeaders(t *testing.T) {
	codec := NewCodec(registry.DefaultVocabulary)

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"frame", "", "movie", "", "Ulcer"},
		{"a.png", "left", "m1", nil, 1},
		{nil, nil, "m2", "right", 0},
		{"b.png", "x", nil, "y", nil},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	got, err := codec.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got.Rows, 3)
	assert.Equal(t, []string{"frame", "", "movie", "", "Ulcer"}, got.Columns)

	frameless := got.Rows[1]
	assert.Empty(t, frameless.Frame)
	assert.Equal(t, "m2", frameless.Movie)
	assert.Equal(t, "right", frameless.Extra[registry.BlankColumnKey(3)])
	assert.Equal(t, registry.LabelSet{"Ulcer": false}, frameless.Labels)

	// write back and read again: nothing is lost
	data, err := codec.Encode(got)
	require.NoError(t, err)
	again, err := codec.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, got.Columns, again.Columns)
	require.Len(t, again.Rows, 3)
	assert.Equal(t, "left", again.Rows[0].Extra[registry.BlankColumnKey(1)])
	assert.Equal(t, "m2", again.Rows[1].Movie)
	assert.Equal(t, "right", again.Rows[1].Extra[registry.BlankColumnKey(3)])
	assert.Equal(t, "x", again.Rows[2].Extra[registry.BlankColumnKey(1)])
	assert.Equal(t, "y", again.Rows[2].Extra[registry.BlankColumnKey(3)])
}

func TestEncodeKeepsRowWithoutFrame(t *testing.T) {
	codec := NewCodec(registry.DefaultVocabulary)
	table := registry.Normalize(&registry.Table{Columns: []string{"frame", "notes"}}, registry.RequiredColumns(registry.DefaultVocabulary))
	table.Rows = []*registry.FrameRecord{
		{Frame: "a.png"},
		{Movie: "m1", Extra: map[string]string{"notes": "frame name lost upstream"}},
	}

	data, err := codec.Encode(table)
	require.NoError(t, err)
	got, err := codec.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	require.Len(t, got.Rows, 2)
	assert.Equal(t, "m1", got.Rows[1].Movie)
	assert.Equal(t, "frame name lost upstream", got.Rows[1].Extra["notes"])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := NewCodec(registry.DefaultVocabulary).Decode(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{"", false, false},
		{"1", true, true},
		{"1.0", true, true},
		{"0", false, true},
		{"TRUE", true, true},
		{"no", false, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		got, ok := parseFlag(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}
