package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells. Every cell carries a background
// colour and the colour of the last dot drawn into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Fg, Bg        [][]color.NRGBA
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Fg:     make([][]color.NRGBA, h),
		Bg:     make([][]color.NRGBA, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Fg[i] = make([]color.NRGBA, w)
		c.Bg[i] = make([]color.NRGBA, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight give the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// SetColor sets a pixel and makes clr the foreground of its cell.
func (c *Canvas) SetColor(x, y int, clr color.NRGBA) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Set(x, y)
	c.Fg[y/4][x/2] = clr
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &= ^rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < brailleBlank {
		c.Grid[row][col] = brailleBlank
	}
}

// Clear empties every cell and resets colours to transparent.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.Fg[i][j] = color.NRGBA{}
			c.Bg[i][j] = color.NRGBA{}
		}
	}
}

// ClearCell removes the dots of cell (col, row) and resets its colours.
func (c *Canvas) ClearCell(col, row int) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] = brailleBlank
	c.Fg[row][col] = color.NRGBA{}
	c.Bg[row][col] = color.NRGBA{}
}

// Blend composites clr over the background of cell (col, row).
func (c *Canvas) Blend(col, row int, clr color.NRGBA) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	c.Bg[row][col] = over(clr, c.Bg[row][col])
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.line(x0, y0, x1, y1, func(x, y int) { c.Set(x, y) })
}

// DrawLineColor is DrawLine with a foreground colour.
func (c *Canvas) DrawLineColor(x0, y0, x1, y1 int, clr color.NRGBA) {
	c.line(x0, y0, x1, y1, func(x, y int) { c.SetColor(x, y, clr) })
}

func (c *Canvas) line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String returns the dots without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the grid with true-colour styling. Runs of cells sharing
// colours are rendered as one styled segment.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Fg[row][col] == c.Fg[row][start] && c.Bg[row][col] == c.Bg[row][start] {
				continue
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(c.Fg[row][start]))).
				Background(lipgloss.Color(hexColor(c.Bg[row][start])))
			b.WriteString(style.Render(string(c.Grid[row][start:col])))
			start = col
		}
		if row < c.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// over is the source-over operator on straight-alpha colours.
func over(src, dst color.NRGBA) color.NRGBA {
	sa := float64(src.A) / 255
	da := float64(dst.A) / 255
	oa := sa + da*(1-sa)
	if oa == 0 {
		return color.NRGBA{}
	}
	mix := func(s, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / oa
		return uint8(v + 0.5)
	}
	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8(oa*255 + 0.5),
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
