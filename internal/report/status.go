package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
)

// Status classifies a reading against the patient's target band
type Status string

const (
	StatusLow     Status = "Low"
	StatusNormal  Status = "Normal"
	StatusHigh    Status = "High"
	StatusUnknown Status = "Unknown"
)

// Band is the inclusive [Min, Max] range of a normal reading in mg/dL
type Band struct {
	Min float64
	Max float64
}

// DefaultBand applies when no profile or no usable bound is available
var DefaultBand = Band{Min: 70, Max: 180}

// BandFromProfile reads the target band of p. Each bound falls back on its own.
func BandFromProfile(p *domain.PatientProfile) Band {
	band := DefaultBand
	if p == nil {
		return band
	}
	if v, ok := ParseNumber(p.TargetMin); ok {
		band.Min = v
	}
	if v, ok := ParseNumber(p.TargetMax); ok {
		band.Max = v
	}
	return band
}

// Classify places value below, inside or above the band
func (b Band) Classify(value float64) Status {
	switch {
	case value < b.Min:
		return StatusLow
	case value > b.Max:
		return StatusHigh
	default:
		return StatusNormal
	}
}

// String renders the band as "70 - 180"
func (b Band) String() string {
	return formatNumber(b.Min) + " - " + formatNumber(b.Max)
}

// Classify parses a stored blood sugar and classifies it
func Classify(bloodSugar string, band Band) Status {
	v, ok := ParseNumber(bloodSugar)
	if !ok {
		return StatusUnknown
	}
	return band.Classify(v)
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the leading decimal number of s, ignoring surrounding
// whitespace and any trailing text ("5 units" is 5).
func ParseNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// amountOf treats unparseable amounts as zero
func amountOf(s string) float64 {
	v, _ := ParseNumber(s)
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
