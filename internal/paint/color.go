package paint

import (
	"fmt"
	"hash/fnv"
	"math"
)

// DefaultColor is the fallback highlight color when a token has no
// override and hashing is not wanted (e.g., unmatched features in a
// match expression default arm).
const DefaultColor = "#80808c"

// tokenSaturation and tokenLightness fix the S/L channels so hashed
// hues stay readable against the basemap.
const (
	tokenSaturation = 0.68
	tokenLightness  = 0.47
)

// TokenColor derives a stable color for a token: FNV-1a hash to a
// hue, fixed saturation and lightness, hex-encoded. The same token
// always gets the same color, independent of the active list.
func TokenColor(token string) string {
	h := fnv.New32a()
	h.Write([]byte(token))
	hue := float64(h.Sum32()%360) / 360.0
	r, g, b := hslToRGB(hue, tokenSaturation, tokenLightness)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r := hueToChannel(p, q, h+1.0/3.0)
	g := hueToChannel(p, q, h)
	b := hueToChannel(p, q, h-1.0/3.0)
	return uint8(math.Round(r * 255)), uint8(math.Round(g * 255)), uint8(math.Round(b * 255))
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
