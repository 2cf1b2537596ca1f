package ephem

import (
	"context"
	"math"
	"testing"

	"github.com/litescript/ls-natal/internal/form"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct{ in, want string }{
		{"14:30", "14:30:00"},
		{" 09:05 ", "09:05:00"},
		{"14:30:15", "14:30:15"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTime(tt.in); got != tt.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewChartRequest(t *testing.T) {
	req := NewChartRequest(form.Input{Date: "1990-06-15", Time: "14:30", Country: " USA ", City: "New York"})
	want := ChartRequest{Date: "1990-06-15", Time: "14:30:00", Country: "USA", City: "New York"}
	if req != want {
		t.Errorf("NewChartRequest() = %+v, want %+v", req, want)
	}
}

func TestDemoProvider(t *testing.T) {
	p := NewDemoProvider()
	ctx := context.Background()

	c, err := p.GenerateChart(ctx, ChartRequest{})
	if err != nil {
		t.Fatalf("GenerateChart: %v", err)
	}
	if len(c.Planets) != 7 || len(c.Houses) != 12 || len(c.Points) != 4 {
		t.Fatalf("got %d planets, %d houses, %d points", len(c.Planets), len(c.Houses), len(c.Points))
	}

	sun := c.Planets[0]
	if sun.Name != "Sun" || sun.Sign != "Aries" || sun.Degree != 15 || sun.Minute != 45 || sun.House != 1 {
		t.Errorf("Sun = %+v", sun)
	}
	if c.Planets[5].Name != "Jupiter" || c.Planets[5].House != 5 {
		t.Errorf("Jupiter = %+v, want house 5", c.Planets[5])
	}

	mc := c.Points[2]
	if mc.Name != "Midheaven" || mc.Sign != "Capricorn" || mc.Degree != 25 || mc.Minute != 6 {
		t.Errorf("Midheaven = %+v", mc)
	}
	ic := c.Points[3]
	if ic.Longitude == nil || math.Abs(*ic.Longitude-115.1) > 1e-9 {
		t.Errorf("Imum Coeli = %+v", ic)
	}

	if len(c.Aspects) == 0 {
		t.Fatal("no aspects")
	}
	first := c.Aspects[0]
	if first.Type != "conjunction" || first.Planet1 != "Sun" || first.Planet2 != "Mercury" || first.Orb != 5.25 {
		t.Errorf("first aspect = %+v", first)
	}
	var sextile bool
	for _, a := range c.Aspects {
		if a.Planet1 == "Sun" && a.Planet2 == "Venus" && a.Type == "sextile" && a.Orb == 2.45 {
			sextile = true
		}
	}
	if !sextile {
		t.Errorf("Sun sextile Venus missing: %+v", c.Aspects)
	}
}

func TestDemoProviderReturnsCopies(t *testing.T) {
	p := NewDemoProvider()
	a, _ := p.GenerateChart(context.Background(), ChartRequest{})
	*a.Planets[0].Longitude = 999
	a.Planets[0].Name = "changed"

	b, _ := p.GenerateChart(context.Background(), ChartRequest{})
	if b.Planets[0].Name != "Sun" || *b.Planets[0].Longitude != 15.75 {
		t.Errorf("mutation leaked into later calls: %+v", b.Planets[0])
	}
}

func TestDemoProviderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDemoProvider().GenerateChart(ctx, ChartRequest{}); err == nil {
		t.Error("expected context error")
	}
	if _, err := NewDemoProvider().Health(ctx); err == nil {
		t.Error("expected context error from Health")
	}
}
