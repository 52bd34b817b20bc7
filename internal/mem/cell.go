package mem

import (
	"strconv"
)

// Cell is a single memory value: either a float64 number or a text string.
// The zero Cell is the number 0.
type Cell struct {
	num    float64
	text   string
	isText bool
}

// Num returns a numeric cell.
func Num(f float64) Cell { return Cell{num: f} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{text: s, isText: true} }

// Bool returns -1 for true and 0 for false.
func Bool(b bool) Cell {
	if b {
		return Num(-1)
	}
	return Num(0)
}

// IsText returns true if the cell holds text rather than a number.
func (c Cell) IsText() bool { return c.isText }

// Number returns the cell's numeric value, and false if it holds text.
func (c Cell) Number() (float64, bool) { return c.num, !c.isText }

// Truth returns false for the number 0 and the empty text, true otherwise.
func (c Cell) Truth() bool {
	if c.isText {
		return c.text != ""
	}
	return c.num != 0
}

// Equal returns true if both cells have the same kind and value.
func (c Cell) Equal(other Cell) bool {
	if c.isText != other.isText {
		return false
	}
	if c.isText {
		return c.text == other.text
	}
	return c.num == other.num
}

func (c Cell) String() string {
	if c.isText {
		return c.text
	}
	return strconv.FormatFloat(c.num, 'g', -1, 64)
}

// GoString returns a quoted form for text cells, used by dumps and test
// failure messages.
func (c Cell) GoString() string {
	if c.isText {
		return strconv.Quote(c.text)
	}
	return c.String()
}
