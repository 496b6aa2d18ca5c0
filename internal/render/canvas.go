// Package render rasterizes frame geometry onto a braille-dot canvas for
// display in a terminal.
package render

import "strings"

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint8{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Canvas is a grid of braille cells. Each cell holds a 2x4 dot pattern, so
// the drawable area is twice the column count wide and four times the row
// count tall.
type Canvas struct {
	cols, rows int
	cells      []uint8
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell grid and clears it.
func (c *Canvas) Resize(cols, rows int) {
	cols = max(cols, 1)
	rows = max(rows, 1)
	c.cols, c.rows = cols, rows
	if cap(c.cells) >= cols*rows {
		c.cells = c.cells[:cols*rows]
		c.Clear()
		return
	}
	c.cells = make([]uint8, cols*rows)
}

// Size returns the grid in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// Dots returns the drawable area in dots.
func (c *Canvas) Dots() (w, h int) { return c.cols * 2, c.rows * 4 }

func (c *Canvas) Clear() { clear(c.cells) }

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= 1 << brailleBits[x%2][y%4]
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return false
	}
	return c.cells[(y/4)*c.cols+x/2]&(1<<brailleBits[x%2][y%4]) != 0
}

// Line draws a Bresenham line between two dots, clipped to the canvas.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Rows renders each cell row as a string of braille runes. Empty cells
// become U+2800 so every row has the same width.
func (c *Canvas) Rows() []string {
	rows := make([]string, c.rows)
	var line strings.Builder
	for r := range c.rows {
		line.Reset()
		for _, cell := range c.cells[r*c.cols : (r+1)*c.cols] {
			line.WriteRune(rune(0x2800 + int(cell)))
		}
		rows[r] = line.String()
	}
	return rows
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
