package report

import (
	"sort"
	"strings"
	"time"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	"github.com/vladimiradmaev/diabetes-diary/internal/utils"
)

// NoData is shown in place of any numeric aggregate of an empty bucket
const NoData = "N/A"

// ReportRow is one entry as it appears in the monthly table
type ReportRow struct {
	ID         string
	Date       string // 8/5/2025
	Time       string // 11:39 PM
	BloodSugar string
	Status     Status
	Insulin    string // insulin types, comma separated
	Units      string // summed dose of the entry, empty without doses
	Notes      string
}

// MonthlyReport summarises one month bucket
type MonthlyReport struct {
	Month         Month
	Band          Band
	AvgBloodSugar string
	TotalInsulin  string
	Range         string
	TotalEntries  int
	Rows          []ReportRow
}

// HasData reports whether the bucket had any entry
func (r MonthlyReport) HasData() bool {
	return r.TotalEntries > 0
}

type stats struct {
	count    int
	readings int // entries with a parseable blood sugar
	sum      float64
	min      float64
	max      float64
	insulin  float64
	doses    int
}

func collect(entries []domain.DiabetesEntry) stats {
	var s stats
	for _, e := range entries {
		s.count++
		if v, ok := ParseNumber(e.BloodSugar); ok {
			if s.readings == 0 || v < s.min {
				s.min = v
			}
			if s.readings == 0 || v > s.max {
				s.max = v
			}
			s.sum += v
			s.readings++
		}
		for _, d := range e.InsulinEntries {
			s.insulin += amountOf(d.Amount)
			s.doses++
		}
	}
	return s
}

func (s stats) average() string {
	if s.readings == 0 {
		return NoData
	}
	return formatOneDecimal(s.sum / float64(s.readings))
}

func (s stats) valueRange() string {
	if s.readings == 0 {
		return NoData
	}
	return formatNumber(s.min) + " - " + formatNumber(s.max)
}

// Summarize aggregates the entries of month and classifies each of them
func Summarize(entries []domain.DiabetesEntry, month Month, band Band, loc *time.Location) MonthlyReport {
	bucket := Bucket(entries, month, loc)
	report := MonthlyReport{
		Month:         month,
		Band:          band,
		AvgBloodSugar: NoData,
		TotalInsulin:  NoData,
		Range:         NoData,
		Rows:          []ReportRow{},
	}
	if len(bucket) == 0 {
		return report
	}

	s := collect(bucket)
	report.AvgBloodSugar = s.average()
	report.TotalInsulin = formatOneDecimal(s.insulin)
	report.Range = s.valueRange()
	report.TotalEntries = s.count

	for _, e := range sortNewestFirst(bucket) {
		report.Rows = append(report.Rows, rowOf(e, band, loc))
	}
	return report
}

func rowOf(e domain.DiabetesEntry, band Band, loc *time.Location) ReportRow {
	row := ReportRow{
		ID:         e.ID,
		BloodSugar: e.BloodSugar,
		Status:     Classify(e.BloodSugar, band),
		Notes:      e.Notes,
	}
	if t, err := utils.ParseTimestamp(e.Date, loc); err == nil {
		row.Date = t.Format("1/2/2006")
		row.Time = t.Format("3:04 PM")
	}

	if len(e.InsulinEntries) > 0 {
		types := make([]string, 0, len(e.InsulinEntries))
		var units float64
		for _, d := range e.InsulinEntries {
			types = append(types, d.Type)
			units += amountOf(d.Amount)
		}
		row.Insulin = strings.Join(types, ", ")
		row.Units = formatNumber(units)
	}
	return row
}

// DailySummary is the dashboard view of one calendar day
type DailySummary struct {
	Date             time.Time
	Entries          []domain.DiabetesEntry
	Average          string
	InsulinDoseCount int
}

// Today aggregates the entries on the local calendar date of now.
// InsulinDoseCount counts doses, it does not sum their amounts.
func Today(entries []domain.DiabetesEntry, now time.Time, loc *time.Location) DailySummary {
	if loc == nil {
		loc = time.Local
	}
	day := now.In(loc)

	var todays []domain.DiabetesEntry
	for _, e := range entries {
		t, err := utils.ParseTimestamp(e.Date, loc)
		if err != nil {
			continue
		}
		if utils.SameDay(t, day) {
			todays = append(todays, e)
		}
	}

	s := collect(todays)
	return DailySummary{
		Date:             day,
		Entries:          sortNewestFirst(todays),
		Average:          s.average(),
		InsulinDoseCount: s.doses,
	}
}

// Recent returns up to n entries, newest first. The input is left untouched.
func Recent(entries []domain.DiabetesEntry, n int) []domain.DiabetesEntry {
	sorted := sortNewestFirst(entries)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// sortNewestFirst orders a copy of entries by date; undated entries go last
func sortNewestFirst(entries []domain.DiabetesEntry) []domain.DiabetesEntry {
	type dated struct {
		entry domain.DiabetesEntry
		at    time.Time
		ok    bool
	}
	items := make([]dated, len(entries))
	for i, e := range entries {
		t, err := utils.ParseTimestamp(e.Date, time.UTC)
		items[i] = dated{entry: e, at: t, ok: err == nil}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].at.After(items[j].at)
	})

	out := make([]domain.DiabetesEntry, len(items))
	for i, it := range items {
		out[i] = it.entry
	}
	return out
}
