// Package astro provides the ecliptic geometry behind the chart wheel:
// zodiac tables, longitude normalization, polar to screen projection,
// house lookup and aspect detection.
package astro

import "math"

// Point is a position in screen coordinates (y grows downward).
type Point struct {
	X float64
	Y float64
}

// ToCartesian projects an ecliptic longitude onto a circle of the given
// radius around (center, center).
//
// The longitude is rotated by -90° before projecting, so with screen
// coordinates 0° lands at the top of the wheel and longitudes advance
// clockwise. The input must already be in [0, 360).
func ToCartesian(longitude, radius, center float64) Point {
	a := degToRad(longitude - 90)
	return Point{
		X: center + radius*math.Cos(a),
		Y: center + radius*math.Sin(a),
	}
}

// NormalizeLongitude returns the absolute longitude of a body in [0, 360).
//
// An explicit longitude always wins. Otherwise the longitude is derived as
// signIndex*30 + degree + minute/60. An unrecognized sign contributes 0
// rather than failing, so bad upstream data degrades instead of aborting a
// render.
func NormalizeLongitude(sign string, degree, minute float64, explicit *float64) float64 {
	if explicit != nil {
		return Mod360(*explicit)
	}
	idx, _ := SignIndex(sign)
	return Mod360(float64(idx)*30 + degree + minute/60)
}

// Split breaks an absolute longitude into sign, whole degree and whole
// minute within that sign.
func Split(longitude float64) (sign string, degree, minute int) {
	lon := Mod360(longitude)
	idx := int(lon/30) % 12
	within := math.Mod(lon, 30)
	degree = int(within)
	minute = int((within-float64(degree))*60 + 1e-9)
	if minute > 59 {
		minute = 59
	}
	return Signs[idx].Name, degree, minute
}

// Mod360 reduces an angle to [0, 360).
func Mod360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// Separation returns the smaller arc between two longitudes, in [0, 180].
func Separation(a, b float64) float64 {
	d := math.Abs(Mod360(a) - Mod360(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
