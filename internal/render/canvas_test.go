package render

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasSetMapsToBraille(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	assert.Equal(t, []string{"⠁"}, c.Rows())

	c.Clear()
	c.Set(1, 3)
	assert.Equal(t, []string{"⢀"}, c.Rows())

	c.Clear()
	for x := range 2 {
		for y := range 4 {
			c.Set(x, y)
		}
	}
	assert.Equal(t, []string{"⣿"}, c.Rows())
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	assert.Equal(t, []string{"⠀⠀"}, c.Rows())
	assert.False(t, c.Lit(-1, 0))
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Line(0, 0, 7, 7)
	for i := range 8 {
		assert.True(t, c.Lit(i, i), "dot %d", i)
	}
	assert.False(t, c.Lit(7, 0))

	c.Clear()
	c.Line(7, 3, 0, 3)
	for x := range 8 {
		assert.True(t, c.Lit(x, 3))
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(0, 0)
	c.Resize(2, 2)

	w, h := c.Dots()
	assert.Equal(t, 4, w)
	assert.Equal(t, 8, h)
	assert.False(t, c.Lit(0, 0))

	c.Resize(0, -3)
	cols, rows := c.Size()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)

	rendered := c.Rows()
	require.Len(t, rendered, 1)
	assert.Equal(t, 1, utf8.RuneCountInString(rendered[0]))
}
