package render

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
)

// Wheel palette shared by the PNG and SVG renderers.
const (
	colorBackground = "#ffffff"
	colorRing       = "#333333"
	colorSpoke      = "#999999"
	colorCusp       = "#6a5acd"
	colorPlanet     = "#d4a017"
	colorText       = "#222222"
)

// PNGOptions configures raster output.
type PNGOptions struct {
	// Size is the edge length in pixels. Defaults to 800.
	Size int
	// FontPath is a TrueType font used for labels. Without one the wheel
	// is drawn with no text.
	FontPath string
}

// PNG rasterizes a layout and writes it to w.
func PNG(w io.Writer, l *chart.Layout, opts PNGOptions) error {
	if l == nil {
		return fmt.Errorf("render png: no chart")
	}
	if opts.Size <= 0 {
		opts.Size = 800
	}
	scale := float64(opts.Size) / chart.ChartSize

	dc := gg.NewContext(opts.Size, opts.Size)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex(colorBackground))

	hasFont := false
	if opts.FontPath != "" {
		if err := dc.LoadFontFace(opts.FontPath, 11*scale); err != nil {
			return fmt.Errorf("render png: load font %s: %w", opts.FontPath, err)
		}
		hasFont = true
	}

	pt := func(p astro.Point) (float64, float64) { return p.X * scale, p.Y * scale }

	stroke := func(hex string, width float64) error {
		dc.SetHexColor(hex)
		dc.SetLineWidth(width * scale)
		return dc.Stroke()
	}

	for _, r := range []float64{chart.ZodiacRimRadius, chart.OuterRadius, chart.InnerRadius} {
		dc.DrawCircle(chart.Center*scale, chart.Center*scale, r*scale)
		if err := stroke(colorRing, 1.5); err != nil {
			return fmt.Errorf("render png: ring: %w", err)
		}
	}

	for _, s := range l.Signs {
		x1, y1 := pt(s.Inner)
		x2, y2 := pt(s.Outer)
		dc.DrawLine(x1, y1, x2, y2)
	}
	if err := stroke(colorSpoke, 1); err != nil {
		return fmt.Errorf("render png: sign spokes: %w", err)
	}

	for _, h := range l.Houses {
		x1, y1 := pt(h.From)
		x2, y2 := pt(h.To)
		dc.DrawLine(x1, y1, x2, y2)
	}
	if len(l.Houses) > 0 {
		if err := stroke(colorCusp, 1); err != nil {
			return fmt.Errorf("render png: cusps: %w", err)
		}
	}

	for _, m := range l.Planets {
		x, y := pt(m.Pos)
		dc.DrawCircle(x, y, chart.MarkerRadius*scale)
		dc.SetHexColor(colorPlanet)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("render png: planet %s: %w", m.Name, err)
		}
	}

	dc.DrawCircle(chart.Center*scale, chart.Center*scale, chart.CenterDotRadius*scale)
	dc.SetHexColor(colorRing)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("render png: center: %w", err)
	}

	if hasFont {
		dc.SetHexColor(colorText)
		for _, s := range l.Signs {
			x, y := pt(s.Label)
			dc.DrawStringAnchored(s.Glyph, x, y, 0.5, 0.5)
		}
		for _, h := range l.Houses {
			x, y := pt(h.Label)
			dc.DrawStringAnchored(h.HouseLabel(), x, y, 0.5, 0.5)
		}
		for _, m := range l.Planets {
			x, y := pt(m.Pos)
			dc.DrawStringAnchored(m.Glyph, x, y, 0.5, 0.5)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render png: encode: %w", err)
	}
	return nil
}
