package report_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
)

func entry(id, date, bloodSugar string, doses ...domain.InsulinDose) domain.DiabetesEntry {
	if doses == nil {
		doses = []domain.InsulinDose{}
	}
	return domain.DiabetesEntry{ID: id, Date: date, BloodSugar: bloodSugar, InsulinEntries: doses}
}

func dose(typ, amount, at string) domain.InsulinDose {
	return domain.InsulinDose{Type: typ, Amount: amount, Time: at}
}

var july = report.Month{Year: 2025, Month: time.July}

var _ = Describe("Classify", func() {
	DescribeTable("against the default band",
		func(bloodSugar string, want report.Status) {
			Expect(report.Classify(bloodSugar, report.DefaultBand)).To(Equal(want))
		},
		Entry("below min", "65", report.StatusLow),
		Entry("at min", "70", report.StatusNormal),
		Entry("inside", "120", report.StatusNormal),
		Entry("at max", "180", report.StatusNormal),
		Entry("above max", "190", report.StatusHigh),
		Entry("with unit suffix", "200 mg/dL", report.StatusHigh),
		Entry("not a number", "abc", report.StatusUnknown),
		Entry("empty", "", report.StatusUnknown),
	)

	It("reads each bound of the profile on its own", func() {
		band := report.BandFromProfile(&domain.PatientProfile{TargetMin: "80", TargetMax: "oops"})
		Expect(band).To(Equal(report.Band{Min: 80, Max: 180}))
		Expect(report.Classify("75", band)).To(Equal(report.StatusLow))

		Expect(report.BandFromProfile(nil)).To(Equal(report.DefaultBand))
		Expect(report.DefaultBand.String()).To(Equal("70 - 180"))
	})

	DescribeTable("ParseNumber",
		func(in string, want float64, ok bool) {
			got, parsed := report.ParseNumber(in)
			Expect(parsed).To(Equal(ok))
			Expect(got).To(Equal(want))
		},
		Entry("integer", "12", 12.0, true),
		Entry("decimal", "4.5", 4.5, true),
		Entry("padded", "  7 ", 7.0, true),
		Entry("trailing text", "5 units", 5.0, true),
		Entry("leading dot", ".5", 0.5, true),
		Entry("text", "abc", 0.0, false),
		Entry("empty", "", 0.0, false),
	)
})

var _ = Describe("Summarize", func() {
	var entries []domain.DiabetesEntry

	BeforeEach(func() {
		entries = []domain.DiabetesEntry{
			entry("a", "2025-07-10T08:00:00.000Z", "92", dose("Novorapid", "4", "Breakfast")),
			entry("b", "2025-07-20T12:00:00.000Z", "150", dose("Novorapid", "6", "Lunch"), dose("Lantus", "abc", "Lunch")),
			entry("c", "2025-07-05T20:00:00.000Z", "100"),
			entry("d", "2025-08-01T10:00:00.000Z", "300", dose("Novorapid", "8", "Breakfast")),
		}
	})

	It("aggregates the month bucket", func() {
		r := report.Summarize(entries, july, report.DefaultBand, time.UTC)

		Expect(r.Month).To(Equal(july))
		Expect(r.TotalEntries).To(Equal(3))
		Expect(r.AvgBloodSugar).To(Equal("114.0"))
		Expect(r.Range).To(Equal("92 - 150"))
		Expect(r.TotalInsulin).To(Equal("10.0"))
		Expect(r.HasData()).To(BeTrue())
	})

	It("lists rows newest first with formatted date and time", func() {
		r := report.Summarize(entries, july, report.DefaultBand, time.UTC)

		Expect(r.Rows).To(HaveLen(3))
		Expect([]string{r.Rows[0].ID, r.Rows[1].ID, r.Rows[2].ID}).To(Equal([]string{"b", "a", "c"}))

		first := r.Rows[0]
		Expect(first.Date).To(Equal("7/20/2025"))
		Expect(first.Time).To(Equal("12:00 PM"))
		Expect(first.Status).To(Equal(report.StatusNormal))
		Expect(first.Insulin).To(Equal("Novorapid, Lantus"))
		Expect(first.Units).To(Equal("6"))

		Expect(r.Rows[2].Insulin).To(BeEmpty())
		Expect(r.Rows[2].Units).To(BeEmpty())
	})

	It("shows N/A for an empty bucket", func() {
		r := report.Summarize(entries, report.Month{Year: 2025, Month: time.March}, report.DefaultBand, time.UTC)

		Expect(r.TotalEntries).To(BeZero())
		Expect(r.AvgBloodSugar).To(Equal(report.NoData))
		Expect(r.TotalInsulin).To(Equal(report.NoData))
		Expect(r.Range).To(Equal(report.NoData))
		Expect(r.Rows).To(BeEmpty())
		Expect(r.HasData()).To(BeFalse())
	})

	It("counts unreadable readings without averaging them", func() {
		entries = []domain.DiabetesEntry{
			entry("a", "2025-07-10T08:00:00.000Z", "100"),
			entry("b", "2025-07-11T08:00:00.000Z", "high"),
		}
		r := report.Summarize(entries, july, report.DefaultBand, time.UTC)

		Expect(r.TotalEntries).To(Equal(2))
		Expect(r.AvgBloodSugar).To(Equal("100.0"))
		Expect(r.Range).To(Equal("100 - 100"))
		Expect(r.TotalInsulin).To(Equal("0.0"))
		Expect(r.Rows[0].Status).To(Equal(report.StatusUnknown))
	})

	It("does not modify its input", func() {
		before := append([]domain.DiabetesEntry(nil), entries...)
		report.Summarize(entries, july, report.DefaultBand, time.UTC)
		Expect(entries).To(Equal(before))
	})
})

var _ = Describe("Months", func() {
	It("buckets by the local calendar date", func() {
		tokyo := time.FixedZone("JST", 9*60*60)
		entries := []domain.DiabetesEntry{
			entry("a", "2025-07-31T16:00:00.000Z", "100"), // Aug 1 in Tokyo
			entry("b", "2025-07-31T10:00:00.000Z", "100"),
		}

		Expect(report.Months(entries, time.UTC)).To(Equal([]report.Month{july}))
		Expect(report.Months(entries, tokyo)).To(Equal([]report.Month{
			{Year: 2025, Month: time.August},
			july,
		}))
	})

	It("reads dates without an offset as local wall-clock time", func() {
		tokyo := time.FixedZone("JST", 9*60*60)
		entries := []domain.DiabetesEntry{entry("a", "2025-08-01T00:30:00", "100")}

		Expect(report.Bucket(entries, report.Month{Year: 2025, Month: time.August}, tokyo)).To(HaveLen(1))
		Expect(report.Bucket(entries, july, tokyo)).To(BeEmpty())
	})

	It("orders months most recent first across years and skips bad dates", func() {
		entries := []domain.DiabetesEntry{
			entry("a", "2024-12-15T10:00:00.000Z", "100"),
			entry("b", "2025-02-01T10:00:00.000Z", "100"),
			entry("c", "not a date", "100"),
			entry("d", "2025-01-20T10:00:00.000Z", "100"),
			entry("e", "2025-02-10T10:00:00.000Z", "100"),
		}
		months := report.Months(entries, time.UTC)
		keys := make([]string, len(months))
		for i, m := range months {
			keys[i] = m.Key()
		}
		Expect(keys).To(Equal([]string{"2025-02", "2025-01", "2024-12"}))

		m, ok := report.DefaultMonth(entries, time.UTC)
		Expect(ok).To(BeTrue())
		Expect(m.String()).To(Equal("February 2025"))

		_, ok = report.DefaultMonth(nil, time.UTC)
		Expect(ok).To(BeFalse())
	})

	DescribeTable("ParseMonth",
		func(in string, want report.Month) {
			got, err := report.ParseMonth(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("key", "2025-07", july),
		Entry("long name", "July 2025", july),
		Entry("short name", "Jul 2025", july),
	)

	It("rejects an unknown month format", func() {
		_, err := report.ParseMonth("07/2025")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Today", func() {
	It("summarises the local calendar day and counts doses", func() {
		now := time.Date(2025, 7, 31, 21, 0, 0, 0, time.UTC)
		entries := []domain.DiabetesEntry{
			entry("a", "2025-07-31T07:00:00.000Z", "110", dose("Novorapid", "4", "Breakfast"), dose("Lantus", "12", "Breakfast")),
			entry("b", "2025-07-31T19:00:00.000Z", "130", dose("Novorapid", "5", "Dinner")),
			entry("c", "2025-07-30T19:00:00.000Z", "300", dose("Novorapid", "9", "Dinner")),
		}

		today := report.Today(entries, now, time.UTC)
		Expect(today.Entries).To(HaveLen(2))
		Expect(today.Entries[0].ID).To(Equal("b"))
		Expect(today.Average).To(Equal("120.0"))
		Expect(today.InsulinDoseCount).To(Equal(3))
	})

	It("shows N/A without entries today", func() {
		today := report.Today(nil, time.Now(), time.UTC)
		Expect(today.Entries).To(BeEmpty())
		Expect(today.Average).To(Equal(report.NoData))
		Expect(today.InsulinDoseCount).To(BeZero())
	})
})

var _ = Describe("Recent", func() {
	It("returns the newest entries without reordering the input", func() {
		entries := []domain.DiabetesEntry{
			entry("old", "2025-07-01T10:00:00.000Z", "100"),
			entry("new", "2025-07-03T10:00:00.000Z", "100"),
			entry("mid", "2025-07-02T10:00:00.000Z", "100"),
		}

		recent := report.Recent(entries, 2)
		Expect(recent).To(HaveLen(2))
		Expect(recent[0].ID).To(Equal("new"))
		Expect(recent[1].ID).To(Equal("mid"))
		Expect(entries[0].ID).To(Equal("old"))

		Expect(report.Recent(entries, -1)).To(HaveLen(3))
		Expect(report.Recent(nil, 2)).To(BeEmpty())
	})
})
