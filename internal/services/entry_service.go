package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
)

// EntryForm is what the user filled in on the entry form
type EntryForm struct {
	BloodSugar string
	Insulin    []domain.InsulinDose
	Notes      string
}

type EntryService struct {
	entries  domain.EntryStore
	profiles domain.ProfileStore
}

func NewEntryService(entries domain.EntryStore, profiles domain.ProfileStore) *EntryService {
	return &EntryService{
		entries:  entries,
		profiles: profiles,
	}
}

// Log validates the form and records a new entry
func (s *EntryService) Log(ctx context.Context, form EntryForm) (domain.DiabetesEntry, error) {
	input, err := domain.PrepareEntry(form.BloodSugar, form.Insulin, form.Notes)
	if err != nil {
		return domain.DiabetesEntry{}, err
	}
	if err := s.checkAgainstPlan(ctx, input.InsulinEntries); err != nil {
		return domain.DiabetesEntry{}, err
	}
	if err := ensureEntriesLoaded(ctx, s.entries); err != nil {
		return domain.DiabetesEntry{}, err
	}

	entry, err := s.entries.Add(ctx, input)
	if err != nil {
		return domain.DiabetesEntry{}, fmt.Errorf("failed to save entry: %w", err)
	}
	return entry, nil
}

// Update validates the changed fields and applies them. It reports false when
// no entry has the id.
func (s *EntryService) Update(ctx context.Context, id string, patch domain.EntryPatch) (bool, error) {
	if patch.BloodSugar != nil {
		v := strings.TrimSpace(*patch.BloodSugar)
		if v == "" {
			return false, apperrors.NewValidationError(domain.MsgBloodSugarRequired)
		}
		if f, err := strconv.ParseFloat(v, 64); err != nil || f <= 0 {
			return false, apperrors.NewValidationError(domain.MsgBloodSugarNumber)
		}
		patch.BloodSugar = &v
	}
	if patch.InsulinEntries != nil {
		doses, err := domain.PrepareDoses(*patch.InsulinEntries)
		if err != nil {
			return false, err
		}
		if err := s.checkAgainstPlan(ctx, doses); err != nil {
			return false, err
		}
		patch.InsulinEntries = &doses
	}
	if err := ensureEntriesLoaded(ctx, s.entries); err != nil {
		return false, err
	}

	found, err := s.entries.Update(ctx, id, patch)
	if err != nil {
		return false, fmt.Errorf("failed to update entry: %w", err)
	}
	return found, nil
}

// Delete removes an entry. It reports false when no entry has the id.
func (s *EntryService) Delete(ctx context.Context, id string) (bool, error) {
	if err := ensureEntriesLoaded(ctx, s.entries); err != nil {
		return false, err
	}
	found, err := s.entries.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	return found, nil
}

// List returns up to limit entries, newest first. A negative limit returns all.
func (s *EntryService) List(ctx context.Context, limit int) ([]domain.DiabetesEntry, error) {
	if err := ensureEntriesLoaded(ctx, s.entries); err != nil {
		return nil, err
	}
	return report.Recent(s.entries.Entries(), limit), nil
}

// checkAgainstPlan rejects insulin types and slots that the patient has not
// configured. Without a configured plan anything is accepted.
func (s *EntryService) checkAgainstPlan(ctx context.Context, doses []domain.InsulinDose) error {
	if len(doses) == 0 {
		return nil
	}
	if err := ensureProfileLoaded(ctx, s.profiles); err != nil {
		return err
	}
	profile := s.profiles.Profile()
	if profile == nil || len(profile.Insulins) == 0 {
		return nil
	}

	for _, d := range doses {
		plan, ok := profile.Insulin(d.Type)
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("Unknown insulin type %q.", d.Type)).
				WithContext("field", "insulinEntries")
		}
		if len(plan.Timings) > 0 && !contains(plan.Timings, d.Time) {
			return apperrors.NewValidationError(fmt.Sprintf("%q is not a configured time for %s.", d.Time, d.Type)).
				WithContext("field", "insulinEntries")
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
