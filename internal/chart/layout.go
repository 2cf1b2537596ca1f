package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/litescript/ls-natal/internal/astro"
)

// Wheel dimensions in chart units. Renderers scale these to their canvas.
const (
	ChartSize       = 400.0
	Center          = ChartSize / 2
	OuterRadius     = 150.0
	InnerRadius     = 80.0
	PlanetRadius    = OuterRadius - 30
	SignLabelRadius = OuterRadius + 20
	ZodiacRimRadius = OuterRadius + 35
	MarkerRadius    = 8.0
	CenterDotRadius = 3.0
)

// SignSegment is one 30° slice of the zodiac ring.
type SignSegment struct {
	Name  string
	Glyph string
	Start float64     // longitude of the segment boundary
	Inner astro.Point // spoke start on the outer ring
	Outer astro.Point // spoke end on the zodiac rim
	Label astro.Point // glyph position at mid-sign
}

// PlanetMarker is a planet glyph placed on the planet ring.
type PlanetMarker struct {
	Name      string
	Glyph     string
	Sign      string
	Longitude float64
	Pos       astro.Point
}

// HouseLine is a cusp drawn from the center to the outer ring, with its
// number on the inner ring.
type HouseLine struct {
	Number    int
	Longitude float64
	From      astro.Point
	To        astro.Point
	Label     astro.Point
}

// LegendEntry is one line of the chart legend.
type LegendEntry struct {
	Glyph string
	Text  string
}

// Layout is the positioned render model for one payload.
type Layout struct {
	Size    float64
	Signs   []SignSegment
	Planets []PlanetMarker
	Houses  []HouseLine
	Summary string

	PlanetLegend []LegendEntry
	AspectLegend []LegendEntry
}

// Build positions every chart element. It returns nil when p is nil
// (nothing requested yet), and a layout with only the zodiac ring when the
// payload has no planets or houses.
func Build(p *Payload) *Layout {
	if p == nil {
		return nil
	}

	l := &Layout{
		Size:    ChartSize,
		Signs:   signRing(),
		Planets: make([]PlanetMarker, 0, len(p.Planets)),
		Houses:  make([]HouseLine, 0, len(p.Houses)),
	}

	for _, b := range p.Planets {
		lon := b.AbsLongitude()
		l.Planets = append(l.Planets, PlanetMarker{
			Name:      b.Name,
			Glyph:     astro.PlanetGlyph(b.Name),
			Sign:      b.Sign,
			Longitude: lon,
			Pos:       astro.ToCartesian(lon, PlanetRadius, Center),
		})
		l.PlanetLegend = append(l.PlanetLegend, LegendEntry{
			Glyph: astro.PlanetGlyph(b.Name),
			Text:  fmt.Sprintf("%s: %s %.1f°", b.Name, b.Sign, b.Degree+b.Minute/60),
		})
	}

	for _, h := range p.Houses {
		lon := h.AbsLongitude()
		l.Houses = append(l.Houses, HouseLine{
			Number:    h.Number,
			Longitude: lon,
			From:      astro.Point{X: Center, Y: Center},
			To:        astro.ToCartesian(lon, OuterRadius, Center),
			Label:     astro.ToCartesian(lon, InnerRadius, Center),
		})
	}

	for _, a := range p.Aspects {
		l.AspectLegend = append(l.AspectLegend, LegendEntry{
			Text: fmt.Sprintf("%s %s %s (orb %.2f°)", a.Planet1, a.Type, a.Planet2, a.Orb),
		})
	}

	l.Summary = Summary(p)
	return l
}

func signRing() []SignSegment {
	ring := make([]SignSegment, 0, len(astro.Signs))
	for i, s := range astro.Signs {
		start := float64(i) * 30
		ring = append(ring, SignSegment{
			Name:  s.Name,
			Glyph: s.Glyph,
			Start: start,
			Inner: astro.ToCartesian(start, OuterRadius, Center),
			Outer: astro.ToCartesian(start, ZodiacRimRadius, Center),
			Label: astro.ToCartesian(start+15, SignLabelRadius, Center),
		})
	}
	return ring
}

// Summary describes the chart in one line for screen readers and plain
// text output. Order follows the payload.
func Summary(p *Payload) string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, len(p.Planets))
	for _, b := range p.Planets {
		parts = append(parts, b.Name+" in "+b.Sign)
	}
	s := strings.Join(parts, ", ")

	if len(p.Aspects) > 0 {
		asp := make([]string, 0, len(p.Aspects))
		for _, a := range p.Aspects {
			asp = append(asp, a.Planet1+" "+a.Type+" "+a.Planet2)
		}
		if s != "" {
			s += ". "
		}
		s += "Aspects: " + strings.Join(asp, ", ")
	}
	return s
}

// HouseLabel is the text drawn for a cusp.
func (h HouseLine) HouseLabel() string {
	return strconv.Itoa(h.Number)
}
