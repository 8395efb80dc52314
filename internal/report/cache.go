package report

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
)

type cacheKey struct {
	month   Month
	version uint64
	band    Band
	loc     string
}

// Cache memoises Summarize per month and entry collection version.
// A zero-sized cache computes every time.
type Cache struct {
	lru *lru.Cache
}

// NewCache creates a cache holding up to size reports
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return &Cache{}, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// Summarize returns the cached report for (month, version, band, loc) or computes it.
// version must change whenever entries change.
func (c *Cache) Summarize(entries []domain.DiabetesEntry, version uint64, month Month, band Band, loc *time.Location) MonthlyReport {
	if loc == nil {
		loc = time.Local
	}
	if c == nil || c.lru == nil {
		return Summarize(entries, month, band, loc)
	}

	key := cacheKey{month: month, version: version, band: band, loc: loc.String()}
	if v, ok := c.lru.Get(key); ok {
		return clone(v.(MonthlyReport))
	}

	report := Summarize(entries, month, band, loc)
	c.lru.Add(key, report)
	return clone(report)
}

// Len returns the number of cached reports
func (c *Cache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

func clone(r MonthlyReport) MonthlyReport {
	rows := make([]ReportRow, len(r.Rows))
	copy(rows, r.Rows)
	r.Rows = rows
	return r
}
