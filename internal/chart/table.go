package chart

import "sort"

// RowKind tags where a table row came from.
type RowKind string

const (
	KindPlanet RowKind = "planet"
	KindPoint  RowKind = "point"
)

// Row is one body in the positions table.
type Row struct {
	Kind      RowKind
	Name      string
	Sign      string
	Degree    float64
	Minute    float64
	Longitude float64
	House     int
}

// Table is planets and points merged in ecliptic order.
type Table struct {
	Rows []Row
	// ShowHouse is false when there are no planets; points never carry houses.
	ShowHouse bool
}

// BuildTable merges planets and points and sorts them by longitude. Equal
// longitudes keep payload order, planets before points. Returns nil only
// for a nil payload.
func BuildTable(p *Payload) *Table {
	if p == nil {
		return nil
	}

	rows := make([]Row, 0, len(p.Planets)+len(p.Points))
	for _, b := range p.Planets {
		rows = append(rows, newRow(KindPlanet, b))
	}
	for _, b := range p.Points {
		rows = append(rows, newRow(KindPoint, b))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Longitude < rows[j].Longitude
	})

	return &Table{Rows: rows, ShowHouse: len(p.Planets) > 0}
}

func newRow(kind RowKind, b Body) Row {
	return Row{
		Kind:      kind,
		Name:      b.Name,
		Sign:      b.Sign,
		Degree:    b.Degree,
		Minute:    b.Minute,
		Longitude: b.AbsLongitude(),
		House:     b.House,
	}
}
