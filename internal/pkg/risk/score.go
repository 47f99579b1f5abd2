package risk

import "math"

// Risk levels
const (
	LevelCritical = "Critical"
	LevelAlert    = "Alert"
	LevelLow      = "Low"
)

// Score computes (1 + 0.3*ndvi - 0.7*ndmi) / 2 rounded half-up to four places.
// Index means carry four decimal places, so the arithmetic is done on scaled
// integers and the rounding is exact.
func Score(ndvi, ndmi float64) float64 {
	n := int64(math.Round(ndvi * 1e4))
	m := int64(math.Round(ndmi * 1e4))

	// numerator in units of 1e-5; score in units of 1e-4 is num/20
	num := 100000 + 3*n - 7*m
	neg := num < 0
	if neg {
		num = -num
	}
	q := (num + 10) / 20
	if neg {
		q = -q
	}
	return float64(q) / 1e4
}

// Level classifies a score.
func Level(score float64) string {
	switch {
	case score >= 0.7:
		return LevelCritical
	case score > 0.5:
		return LevelAlert
	default:
		return LevelLow
	}
}
