package services

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
)

// recentLimit is how many entries the home view lists
const recentLimit = 2

// Home is everything the home view shows
type Home struct {
	Greeting     string
	DateLabel    string // July 31, 2025
	Name         string
	Initials     string
	DiabetesType string
	StartYear    string
	YearsManaged int
	HasYears     bool
	Band         report.Band
	Today        report.DailySummary
	Recent       []domain.DiabetesEntry
}

type DashboardService struct {
	entries  domain.EntryStore
	profiles domain.ProfileStore
	loc      *time.Location
}

func NewDashboardService(entries domain.EntryStore, profiles domain.ProfileStore, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		entries:  entries,
		profiles: profiles,
		loc:      loc,
	}
}

// Home assembles the home view as of now
func (s *DashboardService) Home(ctx context.Context, now time.Time) (Home, error) {
	if err := ensureProfileLoaded(ctx, s.profiles); err != nil {
		return Home{}, err
	}
	if err := ensureEntriesLoaded(ctx, s.entries); err != nil {
		return Home{}, err
	}

	profile := s.profiles.Profile()
	if profile == nil {
		return Home{}, apperrors.ErrProfileNotFound
	}

	local := now.In(s.loc)
	entries := s.entries.Entries()
	years, hasYears := YearsManaged(profile.StartYear, local)

	return Home{
		Greeting:     Greeting(local.Hour()),
		DateLabel:    local.Format("January 2, 2006"),
		Name:         profile.Name,
		Initials:     Initials(profile.Name),
		DiabetesType: profile.DiabetesType,
		StartYear:    profile.StartYear,
		YearsManaged: years,
		HasYears:     hasYears,
		Band:         report.BandFromProfile(profile),
		Today:        report.Today(entries, local, s.loc),
		Recent:       report.Recent(entries, recentLimit),
	}, nil
}

// Greeting picks the salutation for an hour of the day
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// Initials takes the first letter of up to two words of name, upper-cased
func Initials(name string) string {
	var b strings.Builder
	count := 0
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		count++
		if count == 2 {
			break
		}
	}
	return b.String()
}

// YearsManaged is the number of years since startYear, when it is a valid past year
func YearsManaged(startYear string, now time.Time) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(startYear))
	if err != nil || year <= 0 || year > now.Year() {
		return 0, false
	}
	return now.Year() - year, true
}
