package ephem

import (
	"context"
	"math"
	"sync"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
)

// demoPlanets are fixed positions as (name, sign, degrees within sign).
var demoPlanets = []struct {
	name string
	sign string
	deg  float64
}{
	{"Sun", "Aries", 15.75},
	{"Moon", "Taurus", 22.3},
	{"Mercury", "Aries", 10.5},
	{"Venus", "Gemini", 18.2},
	{"Mars", "Cancer", 5.8},
	{"Jupiter", "Leo", 28.4},
	{"Saturn", "Virgo", 12.1},
}

// demoCusps are degrees within sign for houses 1-12, one sign per house
// starting at Aries.
var demoCusps = []float64{10.5, 15.2, 20.8, 25.1, 27.6, 28.3, 10.5, 15.2, 20.8, 25.1, 27.6, 28.3}

// DemoProvider serves one fixed chart without any network access. It
// backs the bundled demo service and offline mode; houses, points and
// aspects are derived from the fixed positions the same way a real
// service would.
type DemoProvider struct {
	once    sync.Once
	payload *chart.Payload
}

// NewDemoProvider creates an offline provider.
func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

// Name implements Provider.
func (p *DemoProvider) Name() string {
	return "demo"
}

// GenerateChart implements Provider. Each call returns a fresh copy.
func (p *DemoProvider) GenerateChart(ctx context.Context, _ ChartRequest) (*chart.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.once.Do(func() { p.payload = buildDemoChart() })
	return clonePayload(p.payload), nil
}

// Health implements Provider.
func (p *DemoProvider) Health(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return map[string]any{"status": "ok", "provider": p.Name()}, nil
}

func buildDemoChart() *chart.Payload {
	cusps := make([]float64, len(demoCusps))
	houses := make([]chart.HouseCusp, len(demoCusps))
	for i, d := range demoCusps {
		lon := float64(i)*30 + d
		cusps[i] = lon
		houses[i] = newCusp(i+1, lon)
	}

	var bodies []astro.Body
	planets := make([]chart.Body, 0, len(demoPlanets))
	for _, dp := range demoPlanets {
		idx, _ := astro.SignIndex(dp.sign)
		lon := float64(idx)*30 + dp.deg
		b := newBody(dp.name, lon)
		b.House = astro.HouseOf(lon, cusps)
		planets = append(planets, b)
		bodies = append(bodies, astro.Body{Name: dp.name, Longitude: lon})
	}

	asc, mc := cusps[0], cusps[9]
	points := []chart.Body{
		newBody("Ascendant", asc),
		newBody("Descendant", astro.Mod360(asc+180)),
		newBody("Midheaven", mc),
		newBody("Imum Coeli", astro.Mod360(mc+180)),
	}
	bodies = append(bodies,
		astro.Body{Name: "Ascendant", Longitude: asc},
		astro.Body{Name: "Midheaven", Longitude: mc},
	)

	var aspects []chart.Aspect
	for _, h := range astro.FindAspects(bodies) {
		aspects = append(aspects, chart.Aspect{
			Type:    h.Kind,
			Planet1: h.Planet1,
			Planet2: h.Planet2,
			Orb:     round2(h.Orb),
		})
	}

	return &chart.Payload{
		Planets: planets,
		Points:  points,
		Houses:  houses,
		Aspects: aspects,
	}
}

func newBody(name string, lon float64) chart.Body {
	lon = round2(lon)
	sign, deg, mins := astro.Split(lon)
	return chart.Body{
		Name:      name,
		Sign:      sign,
		Degree:    float64(deg),
		Minute:    float64(mins),
		Longitude: chart.Lon(lon),
	}
}

func newCusp(n int, lon float64) chart.HouseCusp {
	lon = round2(lon)
	sign, deg, mins := astro.Split(lon)
	return chart.HouseCusp{
		Number:    n,
		Sign:      sign,
		Degree:    float64(deg),
		Minute:    float64(mins),
		Longitude: chart.Lon(lon),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clonePayload(p *chart.Payload) *chart.Payload {
	out := &chart.Payload{
		Planets: cloneBodies(p.Planets),
		Points:  cloneBodies(p.Points),
		Houses:  make([]chart.HouseCusp, len(p.Houses)),
		Aspects: append([]chart.Aspect(nil), p.Aspects...),
	}
	for i, h := range p.Houses {
		if h.Longitude != nil {
			h.Longitude = chart.Lon(*h.Longitude)
		}
		out.Houses[i] = h
	}
	return out
}

func cloneBodies(in []chart.Body) []chart.Body {
	if in == nil {
		return nil
	}
	out := make([]chart.Body, len(in))
	for i, b := range in {
		if b.Longitude != nil {
			b.Longitude = chart.Lon(*b.Longitude)
		}
		out[i] = b
	}
	return out
}
