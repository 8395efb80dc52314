package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
	"github.com/vladimiradmaev/diabetes-diary/internal/services"
	"github.com/vladimiradmaev/diabetes-diary/internal/utils"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func row(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func renderProfile(w io.Writer, p domain.PatientProfile) error {
	t := newTable(w)
	row(t, "Name:", p.Name)
	row(t, "Age:", valueOr(p.Age, "-"))
	row(t, "Gender:", valueOr(p.Gender, "-"))
	row(t, "Diabetes type:", "Type "+p.DiabetesType)
	row(t, "Diagnosed:", valueOr(p.StartYear, "-"))
	row(t, "Target range:", fmt.Sprintf("%s - %s mg/dL", p.TargetMin, p.TargetMax))
	if p.Notes != "" {
		row(t, "Notes:", p.Notes)
	}
	if len(p.Insulins) == 0 {
		row(t, "Insulin:", "-")
	}
	for i, plan := range p.Insulins {
		label := ""
		if i == 0 {
			label = "Insulin:"
		}
		row(t, label, fmt.Sprintf("%s (%s)", plan.Name, valueOr(strings.Join(plan.Timings, ", "), "any time")))
	}
	return t.Flush()
}

// entryTime formats the stored timestamp of an entry in loc
func entryTime(e domain.DiabetesEntry, loc *time.Location, layout string) string {
	t, err := utils.ParseTimestamp(e.Date, loc)
	if err != nil {
		return e.Date
	}
	return t.In(loc).Format(layout)
}

func doseSummary(doses []domain.InsulinDose) string {
	parts := make([]string, 0, len(doses))
	for _, d := range doses {
		parts = append(parts, fmt.Sprintf("%s %su @ %s", d.Type, d.Amount, d.Time))
	}
	return strings.Join(parts, "; ")
}

func renderEntries(w io.Writer, entries []domain.DiabetesEntry, band report.Band, loc *time.Location) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries yet.")
		return nil
	}
	t := newTable(w)
	row(t, "ID", "DATE", "BLOOD SUGAR", "STATUS", "INSULIN", "NOTES")
	for _, e := range entries {
		row(t,
			e.ID,
			entryTime(e, loc, "Jan 2, 2006 3:04 PM"),
			e.BloodSugar+" mg/dL",
			string(report.Classify(e.BloodSugar, band)),
			valueOr(doseSummary(e.InsulinEntries), "-"),
			e.Notes,
		)
	}
	return t.Flush()
}

func renderReport(w io.Writer, r report.MonthlyReport) error {
	if r.Month.IsZero() {
		fmt.Fprintln(w, "No entries yet. Add your first entry to see a report.")
		return nil
	}

	fmt.Fprintf(w, "%s (target %s mg/dL)\n\n", r.Month, r.Band)
	t := newTable(w)
	row(t, "Average blood sugar:", withUnit(r.AvgBloodSugar, "mg/dL"))
	row(t, "Total insulin:", withUnit(r.TotalInsulin, "units"))
	row(t, "Range:", withUnit(r.Range, "mg/dL"))
	row(t, "Total entries:", fmt.Sprint(r.TotalEntries))
	if err := t.Flush(); err != nil {
		return err
	}

	if !r.HasData() {
		fmt.Fprintf(w, "\nNo entries for %s.\n", r.Month)
		return nil
	}

	fmt.Fprintln(w)
	t = newTable(w)
	row(t, "DATE", "TIME", "BLOOD SUGAR", "STATUS", "INSULIN", "UNITS", "NOTES")
	for _, e := range r.Rows {
		row(t, e.Date, e.Time, e.BloodSugar, string(e.Status), valueOr(e.Insulin, "-"), valueOr(e.Units, "-"), e.Notes)
	}
	return t.Flush()
}

func withUnit(v, unit string) string {
	if v == report.NoData {
		return v
	}
	return v + " " + unit
}

func renderHome(w io.Writer, h services.Home, loc *time.Location) error {
	fmt.Fprintf(w, "%s, %s (%s)\n", h.Greeting, h.Name, h.Initials)
	fmt.Fprintln(w, h.DateLabel)

	about := "Type " + h.DiabetesType + " diabetes"
	if h.HasYears {
		about += fmt.Sprintf(", managing for %d years", h.YearsManaged)
	}
	fmt.Fprintln(w, about)
	fmt.Fprintln(w)

	t := newTable(w)
	row(t, "Today's entries:", fmt.Sprint(len(h.Today.Entries)))
	row(t, "Today's average:", withUnit(h.Today.Average, "mg/dL"))
	row(t, "Insulin doses today:", fmt.Sprint(h.Today.InsulinDoseCount))
	row(t, "Target range:", h.Band.String()+" mg/dL")
	if err := t.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent entries")
	return renderEntries(w, h.Recent, h.Band, loc)
}
