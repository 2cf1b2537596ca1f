// Package chart holds the natal chart payload returned by the chart service
// and turns it into render-ready layouts and position tables.
package chart

import "github.com/litescript/ls-natal/internal/astro"

// Body is a planet or a secondary point (Ascendant, Midheaven, ...).
type Body struct {
	Name      string   `json:"name"`
	Sign      string   `json:"sign"`
	Degree    float64  `json:"degree"`              // 0-29 within the sign
	Minute    float64  `json:"minute"`              // 0-59
	Longitude *float64 `json:"longitude,omitempty"` // absolute, 0-360
	House     int      `json:"house,omitempty"`     // 1-12, planets only
}

// AbsLongitude returns the body's longitude in [0, 360), preferring the
// explicit field over sign/degree/minute.
func (b Body) AbsLongitude() float64 {
	return astro.NormalizeLongitude(b.Sign, b.Degree, b.Minute, b.Longitude)
}

// HouseCusp is the starting boundary of one of the twelve houses.
type HouseCusp struct {
	Number    int      `json:"number"`
	Sign      string   `json:"sign"`
	Degree    float64  `json:"degree,omitempty"`
	Minute    float64  `json:"minute,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// AbsLongitude returns the cusp longitude in [0, 360).
func (h HouseCusp) AbsLongitude() float64 {
	return astro.NormalizeLongitude(h.Sign, h.Degree, h.Minute, h.Longitude)
}

// Aspect is an angular relationship between two bodies.
type Aspect struct {
	Type    string  `json:"type"`
	Planet1 string  `json:"planet1"`
	Planet2 string  `json:"planet2"`
	Orb     float64 `json:"orb"`
}

// Payload is one chart as delivered by the chart service. It is treated as
// immutable once received; missing sections decode to nil.
type Payload struct {
	Planets []Body      `json:"planets"`
	Points  []Body      `json:"points,omitempty"`
	Houses  []HouseCusp `json:"houses"`
	Aspects []Aspect    `json:"aspects"`
}

// Lon is a convenience for building explicit longitudes.
func Lon(v float64) *float64 {
	return &v
}
