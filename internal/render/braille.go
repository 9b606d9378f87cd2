package render

import "strings"

// Braille patterns pack 2x4 dots into one cell:
// 1 4
// 2 5
// 3 6
// 7 8
const brailleBase = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Braille is a terminal buffer with two pixels per column and four per row.
type Braille struct {
	Cols, Rows int
	cells      []rune
}

func NewBraille(cols, rows int) *Braille {
	b := &Braille{Cols: cols, Rows: rows, cells: make([]rune, cols*rows)}
	b.Clear()
	return b
}

// Size is in pixels, not cells.
func (b *Braille) Size() (int, int) { return b.Cols * 2, b.Rows * 4 }

func (b *Braille) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return
	}
	b.cells[row*b.Cols+col] |= dotBits[y%4][x%2]
}

func (b *Braille) Lit(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return false
	}
	return b.cells[row*b.Cols+col]&dotBits[y%4][x%2] != 0
}

func (b *Braille) Clear() {
	for i := range b.cells {
		b.cells[i] = brailleBase
	}
}

// String renders the buffer and clears it.
func (b *Braille) String() string {
	var sb strings.Builder
	for r := 0; r < b.Rows; r++ {
		sb.WriteString(string(b.cells[r*b.Cols : (r+1)*b.Cols]))
		sb.WriteByte('\n')
	}
	b.Clear()
	return sb.String()
}
