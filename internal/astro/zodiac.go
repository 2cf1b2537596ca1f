package astro

import "strings"

// Sign is one 30° segment of the zodiac.
type Sign struct {
	Name  string
	Glyph string
}

// Signs lists the zodiac in ecliptic order starting at 0° Aries.
var Signs = [12]Sign{
	{"Aries", "♈"},
	{"Taurus", "♉"},
	{"Gemini", "♊"},
	{"Cancer", "♋"},
	{"Leo", "♌"},
	{"Virgo", "♍"},
	{"Libra", "♎"},
	{"Scorpio", "♏"},
	{"Sagittarius", "♐"},
	{"Capricorn", "♑"},
	{"Aquarius", "♒"},
	{"Pisces", "♓"},
}

var planetGlyphs = map[string]string{
	"sun":     "☉",
	"moon":    "☽",
	"mercury": "☿",
	"venus":   "♀",
	"mars":    "♂",
	"jupiter": "♃",
	"saturn":  "♄",
	"uranus":  "♅",
	"neptune": "♆",
	"pluto":   "♇",
}

// SignIndex returns the 0-based position of a sign name (case-insensitive).
func SignIndex(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, s := range Signs {
		if strings.EqualFold(s.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// SignGlyph returns the symbol for a sign name, or "" if unknown.
func SignGlyph(name string) string {
	if i, ok := SignIndex(name); ok {
		return Signs[i].Glyph
	}
	return ""
}

// PlanetGlyph returns the symbol for a body. Bodies without a dedicated
// symbol fall back to the first letter of their name.
func PlanetGlyph(name string) string {
	if g, ok := planetGlyphs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return g
	}
	for _, r := range strings.TrimSpace(name) {
		return string(r)
	}
	return "?"
}
