package report_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tealeg/xlsx/v3"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
)

var _ = Describe("Cache", func() {
	var entries []domain.DiabetesEntry

	BeforeEach(func() {
		entries = []domain.DiabetesEntry{
			entry("a", "2025-07-10T08:00:00.000Z", "92"),
			entry("b", "2025-07-20T12:00:00.000Z", "150"),
		}
	})

	It("reuses a report until the version changes", func() {
		cache, err := report.NewCache(4)
		Expect(err).NotTo(HaveOccurred())

		first := cache.Summarize(entries, 1, july, report.DefaultBand, time.UTC)
		Expect(first.TotalEntries).To(Equal(2))
		Expect(cache.Len()).To(Equal(1))

		// same version: stale input is ignored in favour of the cached report
		again := cache.Summarize(entries[:1], 1, july, report.DefaultBand, time.UTC)
		Expect(again.TotalEntries).To(Equal(2))

		fresh := cache.Summarize(entries[:1], 2, july, report.DefaultBand, time.UTC)
		Expect(fresh.TotalEntries).To(Equal(1))
		Expect(cache.Len()).To(Equal(2))
	})

	It("keys on the band", func() {
		cache, err := report.NewCache(4)
		Expect(err).NotTo(HaveOccurred())

		normal := cache.Summarize(entries, 1, july, report.DefaultBand, time.UTC)
		strict := cache.Summarize(entries, 1, july, report.Band{Min: 100, Max: 140}, time.UTC)
		Expect(normal.Rows[0].Status).To(Equal(report.StatusNormal))
		Expect(strict.Rows[0].Status).To(Equal(report.StatusHigh))
	})

	It("hands out copies", func() {
		cache, err := report.NewCache(4)
		Expect(err).NotTo(HaveOccurred())

		r := cache.Summarize(entries, 1, july, report.DefaultBand, time.UTC)
		r.Rows[0].Notes = "edited"

		again := cache.Summarize(entries, 1, july, report.DefaultBand, time.UTC)
		Expect(again.Rows[0].Notes).To(BeEmpty())
	})

	It("computes every time when disabled", func() {
		cache, err := report.NewCache(0)
		Expect(err).NotTo(HaveOccurred())

		cache.Summarize(entries, 1, july, report.DefaultBand, time.UTC)
		r := cache.Summarize(entries[:1], 1, july, report.DefaultBand, time.UTC)
		Expect(r.TotalEntries).To(Equal(1))
		Expect(cache.Len()).To(BeZero())
	})
})

var _ = Describe("WriteXLSX", func() {
	It("writes the summary block and one row per entry", func() {
		entries := []domain.DiabetesEntry{
			entry("a", "2025-07-10T08:00:00.000Z", "92", dose("Novorapid", "4", "Breakfast")),
			entry("b", "2025-07-20T12:00:00.000Z", "190"),
		}
		r := report.Summarize(entries, july, report.DefaultBand, time.UTC)

		var buf bytes.Buffer
		Expect(report.WriteXLSX(&buf, r)).To(Succeed())

		file, err := xlsx.OpenBinary(buf.Bytes())
		Expect(err).NotTo(HaveOccurred())
		Expect(file.Sheets).To(HaveLen(1))
		sheet := file.Sheets[0]
		Expect(sheet.Name).To(Equal("July 2025"))

		value := func(row, col int) string {
			cell, err := sheet.Cell(row, col)
			Expect(err).NotTo(HaveOccurred())
			return cell.Value
		}

		Expect(value(0, 1)).To(Equal("July 2025"))
		Expect(value(1, 1)).To(Equal("70 - 180"))
		Expect(value(2, 1)).To(Equal("141.0"))
		Expect(value(3, 1)).To(Equal("4.0"))
		Expect(value(4, 1)).To(Equal("92 - 190"))
		Expect(value(5, 1)).To(Equal("2"))

		Expect(value(7, 0)).To(Equal("Date"))
		Expect(value(8, 0)).To(Equal("7/20/2025"))
		Expect(value(8, 3)).To(Equal("High"))
		Expect(value(9, 4)).To(Equal("Novorapid"))
		Expect(value(9, 5)).To(Equal("4"))
	})

	It("writes an empty month", func() {
		var buf bytes.Buffer
		Expect(report.WriteXLSX(&buf, report.Summarize(nil, july, report.DefaultBand, time.UTC))).To(Succeed())
		Expect(buf.Len()).To(BeNumerically(">", 0))
	})
})
