package services

import (
	"context"
	"io"
	"time"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
)

type ReportService struct {
	entries  domain.EntryStore
	profiles domain.ProfileStore
	cache    *report.Cache
	loc      *time.Location
}

func NewReportService(entries domain.EntryStore, profiles domain.ProfileStore, cache *report.Cache, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		entries:  entries,
		profiles: profiles,
		cache:    cache,
		loc:      loc,
	}
}

// Months lists the months that have entries, most recent first
func (s *ReportService) Months(ctx context.Context) ([]report.Month, error) {
	if err := ensureEntriesLoaded(ctx, s.entries); err != nil {
		return nil, err
	}
	return report.Months(s.entries.Entries(), s.loc), nil
}

// Monthly builds the report for month, or for the most recent month when
// month is nil. Without any entries the report is empty and has no month.
func (s *ReportService) Monthly(ctx context.Context, month *report.Month) (report.MonthlyReport, error) {
	if err := ensureEntriesLoaded(ctx, s.entries); err != nil {
		return report.MonthlyReport{}, err
	}
	if err := ensureProfileLoaded(ctx, s.profiles); err != nil {
		return report.MonthlyReport{}, err
	}

	band := report.BandFromProfile(s.profiles.Profile())
	version := s.entries.Version()
	entries := s.entries.Entries()

	selected := report.Month{}
	if month != nil {
		selected = *month
	} else if m, ok := report.DefaultMonth(entries, s.loc); ok {
		selected = m
	}

	return s.cache.Summarize(entries, version, selected, band, s.loc), nil
}

// Export writes the report of month as a spreadsheet
func (s *ReportService) Export(ctx context.Context, w io.Writer, month *report.Month) (report.MonthlyReport, error) {
	r, err := s.Monthly(ctx, month)
	if err != nil {
		return report.MonthlyReport{}, err
	}
	return r, report.WriteXLSX(w, r)
}
