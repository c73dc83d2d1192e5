// Package xlsx converts registry tables to and from Excel workbooks.
package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"capsule-labeling-be/pkg/registry"

	"github.com/xuri/excelize/v2"
)

// MimeType is the content type of the workbooks this package writes.
const MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

var dateLayouts = []string{
	registry.LabelDateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/06 15:04",
}

// Codec reads and writes workbooks for one label vocabulary.
type Codec struct {
	vocab registry.Vocabulary
}

func NewCodec(vocab registry.Vocabulary) *Codec {
	return &Codec{vocab: vocab}
}

// Decode reads the first sheet. The header row becomes the column list. Rows
// are kept even without a frame value; only rows with no value at all are
// skipped. Columns outside the schema are kept in FrameRecord.Extra, cells
// under a blank header by position.
func (c *Codec) Decode(r io.Reader) (*registry.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return registry.NewTable(), nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return registry.NewTable(), nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	table := &registry.Table{Columns: header}

	for _, cells := range rows[1:] {
		if blankRow(cells) {
			continue
		}
		table.Rows = append(table.Rows, c.decodeRow(header, cells))
	}
	return table, nil
}

func (c *Codec) decodeRow(header, cells []string) *registry.FrameRecord {
	rec := &registry.FrameRecord{}
	for i, col := range header {
		var val string
		if i < len(cells) {
			val = strings.TrimSpace(cells[i])
		}

		switch {
		case col == "":
			if val == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[registry.BlankColumnKey(i)] = val
		case col == registry.ColumnFrame:
			rec.Frame = val
		case col == registry.ColumnClass:
			rec.Class = val
		case col == registry.ColumnMovie:
			rec.Movie = val
		case col == registry.ColumnPillcam:
			rec.Pillcam = val
		case col == registry.ColumnLabelDate:
			rec.LabelDate = parseDate(val)
		case c.vocab.Contains(col):
			if flag, ok := parseFlag(val); ok {
				if rec.Labels == nil {
					rec.Labels = registry.LabelSet{}
				}
				rec.Labels[col] = flag
			}
		default:
			if val == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = val
		}
	}
	return rec
}

func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseFlag reads a 0/1 cell. Empty cells report ok=false.
func parseFlag(val string) (bool, bool) {
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return false, false
	}
	return f == 1, true
}

func parseDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return &t
		}
	}
	return nil
}

// Encode writes the table as a single-sheet workbook with columns in
// table.Columns order.
func (c *Codec) Encode(table *registry.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(defaultSheet)
	if err != nil {
		return nil, fmt.Errorf("create stream writer: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, rec := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, c.encodeRow(table.Columns, rec)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Codec) encodeRow(columns []string, rec *registry.FrameRecord) []interface{} {
	row := make([]interface{}, len(columns))
	for i, col := range columns {
		switch {
		case col == "":
			if v, ok := rec.Extra[registry.BlankColumnKey(i)]; ok {
				row[i] = v
			} else {
				row[i] = nil
			}
		case col == registry.ColumnFrame:
			row[i] = rec.Frame
		case col == registry.ColumnClass:
			row[i] = rec.Class
		case col == registry.ColumnMovie:
			row[i] = rec.Movie
		case col == registry.ColumnPillcam:
			row[i] = rec.Pillcam
		case col == registry.ColumnLabelDate:
			if rec.LabelDate != nil {
				row[i] = rec.LabelDate.Format(registry.LabelDateLayout)
			} else {
				row[i] = nil
			}
		case c.vocab.Contains(col):
			flag, ok := rec.Labels[col]
			switch {
			case !ok:
				row[i] = nil
			case flag:
				row[i] = 1
			default:
				row[i] = 0
			}
		default:
			if v, ok := rec.Extra[col]; ok {
				row[i] = v
			} else {
				row[i] = nil
			}
		}
	}
	return row
}
