package project

import "math"

// Band is a labelled, inclusive health score range.
type Band struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Contains reports whether score lies within the band bounds.
func (b Band) Contains(score float64) bool {
	return score >= float64(b.Min) && score <= float64(b.Max)
}

var (
	BandExcellent = Band{Min: 90, Max: 100, Label: "Excellent", Color: "#38a169"}
	BandGood      = Band{Min: 80, Max: 89, Label: "Good", Color: "#38a169"}
	BandFair      = Band{Min: 70, Max: 79, Label: "Fair", Color: "#ed8936"}
	BandPoor      = Band{Min: 0, Max: 69, Label: "Poor", Color: "#e53e3e"}
)

// Bands returns the ordered band table, best first.
func Bands() []Band {
	return []Band{BandExcellent, BandGood, BandFair, BandPoor}
}

// HealthBand returns the band containing score, or BandPoor when none does.
func HealthBand(score int) Band {
	return HealthBandFloat(float64(score))
}

// HealthBandFloat is HealthBand for fractional scores. NaN, infinities, and
// values between integer bounds fall through to BandPoor.
func HealthBandFloat(score float64) Band {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return BandPoor
	}
	for _, b := range Bands() {
		if b.Contains(score) {
			return b
		}
	}
	return BandPoor
}

// HealthBandOf accepts an untyped value such as a decoded JSON field.
// Anything that is not a number yields BandPoor.
func HealthBandOf(v any) Band {
	switch n := v.(type) {
	case int:
		return HealthBand(n)
	case int32:
		return HealthBand(int(n))
	case int64:
		return HealthBandFloat(float64(n))
	case float32:
		return HealthBandFloat(float64(n))
	case float64:
		return HealthBandFloat(n)
	default:
		return BandPoor
	}
}

var severityColors = map[Severity]string{
	SeverityCritical: "#e53e3e",
	SeverityWarning:  "#ed8936",
	SeverityInfo:     "#3182ce",
}

// SeverityColor returns the display color for a severity; unknown severities
// get the info color.
func SeverityColor(sev Severity) string {
	if c, ok := severityColors[sev]; ok {
		return c
	}
	return severityColors[SeverityInfo]
}
