package render

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"github.com/litescript/ls-natal/internal/chart"
)

// SVG writes a layout as a standalone SVG document. The summary becomes
// the document title and aria-label.
func SVG(w io.Writer, l *chart.Layout) error {
	if l == nil {
		return fmt.Errorf("render svg: no chart")
	}
	bw := bufio.NewWriter(w)
	c := chart.Center
	summary := html.EscapeString(l.Summary)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g" role="img" aria-label="%s">`+"\n",
		l.Size, l.Size, l.Size, l.Size, summary)
	fmt.Fprintf(bw, "<title>%s</title>\n", summary)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", colorBackground)

	for _, r := range []float64{chart.ZodiacRimRadius, chart.OuterRadius, chart.InnerRadius} {
		fmt.Fprintf(bw, `<circle cx="%g" cy="%g" r="%g" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n", c, c, r, colorRing)
	}

	fmt.Fprintln(bw, `<g class="signs">`)
	for _, s := range l.Signs {
		fmt.Fprintf(bw, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
			s.Inner.X, s.Inner.Y, s.Outer.X, s.Outer.Y, colorSpoke)
		fmt.Fprintf(bw, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" fill="%s"><title>%s</title>%s</text>`+"\n",
			s.Label.X, s.Label.Y, colorText, s.Name, s.Glyph)
	}
	fmt.Fprintln(bw, `</g>`)

	fmt.Fprintln(bw, `<g class="houses">`)
	for _, h := range l.Houses {
		fmt.Fprintf(bw, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
			h.From.X, h.From.Y, h.To.X, h.To.Y, colorCusp)
		fmt.Fprintf(bw, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="10" fill="%s">%s</text>`+"\n",
			h.Label.X, h.Label.Y, colorCusp, h.HouseLabel())
	}
	fmt.Fprintln(bw, `</g>`)

	fmt.Fprintln(bw, `<g class="planets">`)
	for _, m := range l.Planets {
		fmt.Fprintf(bw, `<g><title>%s</title>`, html.EscapeString(m.Name))
		fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%g" fill="%s"/>`, m.Pos.X, m.Pos.Y, chart.MarkerRadius, colorPlanet)
		fmt.Fprintf(bw, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="10" fill="%s">%s</text></g>`+"\n",
			m.Pos.X, m.Pos.Y, colorText, html.EscapeString(m.Glyph))
	}
	fmt.Fprintln(bw, `</g>`)

	fmt.Fprintf(bw, `<circle cx="%g" cy="%g" r="%g" fill="%s"/>`+"\n", c, c, chart.CenterDotRadius, colorRing)
	fmt.Fprintln(bw, `</svg>`)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}
