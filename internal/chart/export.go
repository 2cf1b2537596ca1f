package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Export is the JSON document written by -json.
type Export struct {
	GeneratedAt time.Time `json:"generated_at"`
	Request     any       `json:"request,omitempty"`
	Summary     string    `json:"summary"`
	Chart       *Payload  `json:"chart"`
}

// NewExport wraps a payload for export. req is echoed back as-is.
func NewExport(p *Payload, req any, at time.Time) *Export {
	return &Export{
		GeneratedAt: at,
		Request:     req,
		Summary:     Summary(p),
		Chart:       p,
	}
}

// WriteJSON writes the export as indented JSON.
func (e *Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// FormatPosition renders degree and minute as 15°45'.
func FormatPosition(degree, minute float64) string {
	return formatNum(degree) + "°" + formatNum(minute) + "'"
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteTable writes the positions table as fixed-width text.
func WriteTable(w io.Writer, t *Table) {
	fmt.Fprintln(w, "Planetary Positions")
	fmt.Fprintln(w, strings.Repeat("─", 64))

	if t == nil || len(t.Rows) == 0 {
		fmt.Fprintln(w, "No positions")
		return
	}

	if t.ShowHouse {
		fmt.Fprintf(w, "   %-14s %-12s %-9s %-10s %s\n", "Name", "Sign", "Position", "Longitude", "House")
	} else {
		fmt.Fprintf(w, "   %-14s %-12s %-9s %s\n", "Name", "Sign", "Position", "Longitude")
	}
	fmt.Fprintln(w, strings.Repeat("─", 64))

	for _, r := range t.Rows {
		marker := "●"
		if r.Kind == KindPoint {
			marker = "◆"
		}
		lon := fmt.Sprintf("%.2f°", r.Longitude)
		if t.ShowHouse {
			house := "—"
			if r.House > 0 {
				house = fmt.Sprintf("House %d", r.House)
			}
			fmt.Fprintf(w, " %s %-14s %-12s %-9s %-10s %s\n",
				marker, truncateStr(r.Name, 14), r.Sign, FormatPosition(r.Degree, r.Minute), lon, house)
		} else {
			fmt.Fprintf(w, " %s %-14s %-12s %-9s %s\n",
				marker, truncateStr(r.Name, 14), r.Sign, FormatPosition(r.Degree, r.Minute), lon)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "● planet  ◆ point")
}

// WriteAspects writes the aspect list with orbs.
func WriteAspects(w io.Writer, p *Payload) {
	if p == nil || len(p.Aspects) == 0 {
		return
	}
	fmt.Fprintln(w, "Major Aspects")
	fmt.Fprintln(w, strings.Repeat("─", 64))
	for _, a := range p.Aspects {
		fmt.Fprintf(w, "%-10s %-12s %-10s orb %5.2f°\n", a.Planet1, a.Type, a.Planet2, a.Orb)
	}
}

func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
