package astro

// AspectKind describes a major aspect and the orb allowed for it.
type AspectKind struct {
	Name  string
	Angle float64
	Orb   float64
}

// MajorAspects are checked in order; the first match wins for a pair.
var MajorAspects = []AspectKind{
	{"conjunction", 0, 8},
	{"sextile", 60, 6},
	{"square", 90, 8},
	{"trine", 120, 8},
	{"opposition", 180, 8},
}

// Body is a named longitude used for house and aspect lookups.
type Body struct {
	Name      string
	Longitude float64
}

// AspectHit is an aspect found between two bodies. Orb is the distance
// from exact, in degrees.
type AspectHit struct {
	Kind    string
	Planet1 string
	Planet2 string
	Orb     float64
}

// FindAspects returns the major aspects between every pair of bodies,
// in input pair order. Each pair yields at most one aspect.
func FindAspects(bodies []Body) []AspectHit {
	var hits []AspectHit
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			sep := Separation(bodies[i].Longitude, bodies[j].Longitude)
			for _, k := range MajorAspects {
				orb := sep - k.Angle
				if orb < 0 {
					orb = -orb
				}
				if orb <= k.Orb {
					hits = append(hits, AspectHit{
						Kind:    k.Name,
						Planet1: bodies[i].Name,
						Planet2: bodies[j].Name,
						Orb:     orb,
					})
					break
				}
			}
		}
	}
	return hits
}

// HouseOf returns the 1-based house containing longitude, given the cusp
// longitudes of houses 1..n in order. A house runs from its cusp up to the
// next one and may wrap past 0°. Returns 1 when no cusps are given.
func HouseOf(longitude float64, cusps []float64) int {
	n := len(cusps)
	if n == 0 {
		return 1
	}
	lon := Mod360(longitude)
	for i := 0; i < n; i++ {
		start := Mod360(cusps[i])
		end := Mod360(cusps[(i+1)%n])
		if start <= end {
			if lon >= start && lon < end {
				return i + 1
			}
		} else if lon >= start || lon < end {
			return i + 1
		}
	}
	return 1
}
