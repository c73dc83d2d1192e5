package registry

// Navigator is the single cursor over a filtered view.
//
// After the view changes (new filter, commit) call Clamp with the new length:
// the cursor keeps its position when still in range and otherwise moves to
// the last row. It is never reset to 0 implicitly.
type Navigator struct {
	index int
}

func (n *Navigator) Index() int {
	return n.index
}

// Clamp pins the cursor to [0, length-1]; an empty view pins it to 0.
func (n *Navigator) Clamp(length int) int {
	if length <= 0 {
		n.index = 0
		return n.index
	}
	if n.index > length-1 {
		n.index = length - 1
	}
	if n.index < 0 {
		n.index = 0
	}
	return n.index
}

// Next moves forward, stopping at the last row.
func (n *Navigator) Next(length int) int {
	n.index++
	return n.Clamp(length)
}

// Prev moves back, stopping at the first row.
func (n *Navigator) Prev() int {
	if n.index > 0 {
		n.index--
	}
	return n.index
}

// Reset puts the cursor back on the first row.
func (n *Navigator) Reset() {
	n.index = 0
}
