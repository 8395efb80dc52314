package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	"github.com/vladimiradmaev/diabetes-diary/internal/utils"
)

// Month identifies one calendar month bucket
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month t falls in, using t's own location
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String renders the month as "July 2025"
func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Key renders the month as "2025-07"
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsZero reports whether no month is set
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Before reports whether m is earlier than o
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// ParseMonth accepts "2025-07" or "July 2025"
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01", "January 2006", "Jan 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOf(t), nil
		}
	}
	return Month{}, fmt.Errorf("unrecognised month %q, use YYYY-MM or \"July 2025\"", s)
}

// Months returns the non-empty buckets, most recent first
func Months(entries []domain.DiabetesEntry, loc *time.Location) []Month {
	seen := make(map[Month]bool)
	var months []Month
	for _, e := range entries {
		t, err := utils.ParseTimestamp(e.Date, loc)
		if err != nil {
			continue
		}
		m := MonthOf(t)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		return months[j].Before(months[i])
	})
	return months
}

// DefaultMonth is the most recent non-empty bucket
func DefaultMonth(entries []domain.DiabetesEntry, loc *time.Location) (Month, bool) {
	months := Months(entries, loc)
	if len(months) == 0 {
		return Month{}, false
	}
	return months[0], true
}

// Bucket returns the entries whose local calendar date falls in month
func Bucket(entries []domain.DiabetesEntry, month Month, loc *time.Location) []domain.DiabetesEntry {
	var out []domain.DiabetesEntry
	for _, e := range entries {
		t, err := utils.ParseTimestamp(e.Date, loc)
		if err != nil {
			continue
		}
		if MonthOf(t) == month {
			out = append(out, e)
		}
	}
	return out
}
