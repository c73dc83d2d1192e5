package registry

// RequiredColumns is the persisted column contract: the base columns followed
// by one boolean column per vocabulary entry.
func RequiredColumns(vocab Vocabulary) []string {
	cols := make([]string, 0, len(baseColumns)+len(vocab))
	cols = append(cols, baseColumns...)
	cols = append(cols, vocab...)
	return cols
}

// Normalize appends any missing required column after the existing ones.
// Existing columns keep their order and values; missing cells read as empty.
// Calling it on an already normalized table changes nothing.
func Normalize(t *Table, required []string) *Table {
	if t == nil {
		t = NewTable()
	}
	for _, col := range required {
		if !t.HasColumn(col) {
			t.Columns = append(t.Columns, col)
		}
	}
	return t
}
