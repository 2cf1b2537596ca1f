// Package render draws a chart layout as terminal text, SVG or PNG.
package render

import (
	"math"
	"strings"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
)

// Class tags what a canvas cell shows so callers can color it.
type Class int

const (
	ClassEmpty Class = iota
	ClassRing
	ClassSign
	ClassCusp
	ClassHouse
	ClassPlanet
	ClassCenter
)

// signAbbrev are two-cell sign labels. Zodiac glyphs render double width
// in most terminals and would break the grid.
var signAbbrev = [12]string{"Ar", "Ta", "Ge", "Cn", "Le", "Vi", "Li", "Sc", "Sg", "Cp", "Aq", "Pi"}

// Canvas is a character grid with one class per cell.
type Canvas struct {
	Width   int
	Height  int
	Cells   [][]rune
	Classes [][]Class

	unitX, unitY float64
	offX, offY   float64
}

// NewCanvas creates a blank grid sized to fit the wheel. Terminal cells are
// about twice as tall as wide, so x is scaled double.
func NewCanvas(width, height int) *Canvas {
	if width < 8 {
		width = 8
	}
	if height < 4 {
		height = 4
	}
	c := &Canvas{Width: width, Height: height}
	c.Cells = make([][]rune, height)
	c.Classes = make([][]Class, height)
	for y := 0; y < height; y++ {
		c.Cells[y] = make([]rune, width)
		c.Classes[y] = make([]Class, width)
		for x := 0; x < width; x++ {
			c.Cells[y][x] = ' '
		}
	}

	c.unitY = math.Min(float64(height-1)/chart.ChartSize, float64(width-1)/(2*chart.ChartSize))
	c.unitX = 2 * c.unitY
	c.offX = float64(width-1)/2 - chart.Center*c.unitX
	c.offY = float64(height-1)/2 - chart.Center*c.unitY
	return c
}

func (c *Canvas) project(p astro.Point) (int, int) {
	return int(math.Round(c.offX + p.X*c.unitX)), int(math.Round(c.offY + p.Y*c.unitY))
}

func (c *Canvas) set(x, y int, r rune, cl Class) bool {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return false
	}
	c.Cells[y][x] = r
	c.Classes[y][x] = cl
	return true
}

func (c *Canvas) free(x, y int) bool {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return false
	}
	cl := c.Classes[y][x]
	return cl == ClassEmpty || cl == ClassRing || cl == ClassCusp
}

// text writes s centered on (x, y).
func (c *Canvas) text(x, y int, s string, cl Class) {
	r := []rune(s)
	start := x - (len(r)-1)/2
	for i, ch := range r {
		c.set(start+i, y, ch, cl)
	}
}

func (c *Canvas) circle(radius float64, r rune, cl Class) {
	for deg := 0.0; deg < 360; deg += 1 {
		x, y := c.project(astro.ToCartesian(deg, radius, chart.Center))
		if x >= 0 && x < c.Width && y >= 0 && y < c.Height && c.Classes[y][x] == ClassEmpty {
			c.set(x, y, r, cl)
		}
	}
}

func (c *Canvas) spoke(from, to astro.Point, cl Class) {
	dx, dy := to.X-from.X, to.Y-from.Y
	steps := int(math.Max(math.Abs(dx)*c.unitX, math.Abs(dy)*c.unitY)*2) + 1
	glyph := lineGlyph(dx*c.unitX, dy*c.unitY)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := c.project(astro.Point{X: from.X + dx*t, Y: from.Y + dy*t})
		if x >= 0 && x < c.Width && y >= 0 && y < c.Height && c.Classes[y][x] == ClassEmpty {
			c.set(x, y, glyph, cl)
		}
	}
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}

// lineGlyph picks a box character for a direction in cell space.
func lineGlyph(dx, dy float64) rune {
	a := math.Mod(math.Atan2(dy, dx)*180/math.Pi+180, 180)
	switch {
	case a < 22.5 || a >= 157.5:
		return '─'
	case a < 67.5:
		return '╲'
	case a < 112.5:
		return '│'
	default:
		return '╱'
	}
}

// ASCIIOptions tunes the terminal wheel.
type ASCIIOptions struct {
	// SignGlyphs uses ♈..♓ instead of two-letter abbreviations.
	SignGlyphs bool
}

// ASCII draws a layout onto a width x height character grid. A nil layout
// yields an empty canvas.
func ASCII(l *chart.Layout, width, height int, opts ASCIIOptions) *Canvas {
	c := NewCanvas(width, height)
	if l == nil {
		return c
	}

	// Planets first so they win collisions with labels and lines.
	for _, m := range l.Planets {
		x, y := c.project(m.Pos)
		g := firstRune(m.Glyph)
		placed := false
		for _, dx := range []int{0, 1, -1, 2, -2} {
			if c.free(x+dx, y) {
				c.set(x+dx, y, g, ClassPlanet)
				placed = true
				break
			}
		}
		if !placed {
			c.set(x, y, g, ClassPlanet)
		}
	}

	for _, h := range l.Houses {
		x, y := c.project(h.Label)
		if c.free(x, y) {
			c.text(x, y, h.HouseLabel(), ClassHouse)
		}
	}

	for i, s := range l.Signs {
		x, y := c.project(s.Label)
		label := signAbbrev[i%12]
		if opts.SignGlyphs {
			label = s.Glyph
		}
		c.text(x, y, label, ClassSign)
	}

	cx, cy := c.project(astro.Point{X: chart.Center, Y: chart.Center})
	c.set(cx, cy, '•', ClassCenter)

	for _, h := range l.Houses {
		c.spoke(h.From, h.To, ClassCusp)
	}
	for _, s := range l.Signs {
		c.spoke(s.Inner, s.Outer, ClassRing)
	}
	c.circle(chart.OuterRadius, '·', ClassRing)

	return c
}

// String renders the canvas as plain text with trailing spaces trimmed.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		b.WriteString(strings.TrimRight(string(c.Cells[y]), " "))
		if y < c.Height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
