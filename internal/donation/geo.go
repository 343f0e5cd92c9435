package donation

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// GeoDefaults is the region-center coordinate substituted when a donation
// arrives without a usable pickup location, plus the jitter radius (degrees)
// that keeps fallback pins from stacking on the consuming map.
type GeoDefaults struct {
	Latitude     float64
	Longitude    float64
	JitterRadius float64
}

// GeoNormalizer turns raw latitude/longitude input into a usable coordinate
// pair. It is a display-quality fallback, not a geocoding service: it never
// fails and always returns a finite pair rounded to 6 decimal digits.
type GeoNormalizer struct {
	defaults GeoDefaults
}

func NewGeoNormalizer(defaults GeoDefaults) *GeoNormalizer {
	return &GeoNormalizer{defaults: defaults}
}

// Normalize is pure: it returns new values and never mutates its inputs.
// If either raw value is missing, non-numeric, exactly zero, or outside the
// valid coordinate range, the whole pair is replaced by the configured
// default jittered by a deterministic offset derived from seed, so the same
// donation always lands on the same fallback pin.
func (n *GeoNormalizer) Normalize(seed, rawLat, rawLng string) (float64, float64) {
	lat, latOK := parseCoordinate(rawLat, 90)
	lng, lngOK := parseCoordinate(rawLng, 180)
	if !latOK || !lngOK {
		return n.fallback(seed)
	}
	return round6(lat), round6(lng)
}

func (n *GeoNormalizer) fallback(seed string) (float64, float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	jitter := func() float64 {
		return (rng.Float64()*2 - 1) * n.defaults.JitterRadius
	}
	return round6(n.defaults.Latitude + jitter()), round6(n.defaults.Longitude + jitter())
}

// parseCoordinate accepts a decimal string within ±limit. Zero is rejected:
// the upstream clients send 0 when the device had no fix, and (0, 0) pins in
// the Gulf of Guinea are worse than a region-center fallback.
func parseCoordinate(raw string, limit float64) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v == 0 || math.Abs(v) > limit {
		return 0, false
	}
	return v, true
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
