package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"pacecalc/internal/analysis"
)

// ErrBadDuration and ErrBadDistance are returned by the parsers
var (
	ErrBadDuration = errors.New("invalid duration, want h:mm:ss, mm:ss or seconds")
	ErrBadDistance = errors.New("invalid distance, want meters, 5k, 10k, half, marathon, mile or a value with km/mi")
)

// FormatDuration formats seconds as h:mm:ss, or m:ss under an hour
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "-"
	}

	total := int(math.Round(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatPace formats a pace in seconds per unit as m:ss. Unavailable paces
// (zero, negative or non-finite) render as "-".
func FormatPace(secPerUnit float64) string {
	if secPerUnit <= 0 || math.IsNaN(secPerUnit) || math.IsInf(secPerUnit, 0) {
		return "-"
	}

	total := int(math.Round(secPerUnit))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatImpact formats a signed percent change, e.g. "+5.1%"
func FormatImpact(percent float64) string {
	return fmt.Sprintf("%+.1f%%", percent)
}

// ParseDuration parses "h:mm:ss", "mm:ss" or a plain number of seconds
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadDuration
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, ErrBadDuration
	}

	var total float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, ErrBadDuration
		}
		// Only the leading field may exceed 59
		if i > 0 && v >= 60 {
			return 0, ErrBadDuration
		}
		total = total*60 + v
	}

	if total <= 0 {
		return 0, ErrBadDuration
	}
	return total, nil
}

// namedDistances maps race names to meters
var namedDistances = map[string]float64{
	"mile":     analysis.Distance1Mile,
	"1500":     analysis.Distance1500m,
	"1500m":    analysis.Distance1500m,
	"5k":       analysis.Distance5K,
	"10k":      analysis.Distance10K,
	"half":     analysis.DistanceHalfMara,
	"hm":       analysis.DistanceHalfMara,
	"marathon": analysis.DistanceMarathon,
	"m":        analysis.DistanceMarathon,
}

// ParseDistance parses a distance into meters. It accepts race names
// ("5k", "half"), plain meters ("5000") and values with a unit suffix
// ("3.1mi", "21.1km").
func ParseDistance(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := namedDistances[s]; ok {
		return d, nil
	}

	scale := 1.0
	switch {
	case strings.HasSuffix(s, "km"):
		s, scale = strings.TrimSuffix(s, "km"), analysis.MetersPerKm
	case strings.HasSuffix(s, "mi"):
		s, scale = strings.TrimSuffix(s, "mi"), analysis.MetersPerMile
	case strings.HasSuffix(s, "k"):
		s, scale = strings.TrimSuffix(s, "k"), analysis.MetersPerKm
	case strings.HasSuffix(s, "m"):
		s = strings.TrimSuffix(s, "m")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(v > 0) || math.IsInf(v, 0) {
		return 0, ErrBadDistance
	}
	return v * scale, nil
}
