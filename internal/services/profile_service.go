package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
)

type ProfileService struct {
	profiles domain.ProfileStore
}

func NewProfileService(profiles domain.ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Current returns the stored profile, or ErrProfileNotFound
func (s *ProfileService) Current(ctx context.Context) (*domain.PatientProfile, error) {
	if err := ensureProfileLoaded(ctx, s.profiles); err != nil {
		return nil, err
	}
	profile := s.profiles.Profile()
	if profile == nil {
		return nil, apperrors.ErrProfileNotFound
	}
	return profile, nil
}

// Setup stores a complete profile, filling unset fields with the setup defaults
func (s *ProfileService) Setup(ctx context.Context, profile domain.PatientProfile) (domain.PatientProfile, error) {
	defaults := domain.DefaultProfile()
	if strings.TrimSpace(profile.DiabetesType) == "" {
		profile.DiabetesType = defaults.DiabetesType
	}
	if strings.TrimSpace(profile.TargetMin) == "" {
		profile.TargetMin = defaults.TargetMin
	}
	if strings.TrimSpace(profile.TargetMax) == "" {
		profile.TargetMax = defaults.TargetMax
	}
	profile.Name = strings.TrimSpace(profile.Name)

	if err := domain.ValidateProfile(profile); err != nil {
		return domain.PatientProfile{}, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return domain.PatientProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile.Normalized(), nil
}

// Edit applies mutate to the stored profile and saves the merged result
func (s *ProfileService) Edit(ctx context.Context, mutate func(p *domain.PatientProfile)) (domain.PatientProfile, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return domain.PatientProfile{}, err
	}

	mutate(current)
	current.Name = strings.TrimSpace(current.Name)

	if err := domain.ValidateProfile(*current); err != nil {
		return domain.PatientProfile{}, err
	}
	if err := s.profiles.Save(ctx, *current); err != nil {
		return domain.PatientProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return current.Normalized(), nil
}

func ensureProfileLoaded(ctx context.Context, profiles domain.ProfileStore) error {
	if !profiles.IsLoading() {
		return nil
	}
	if _, err := profiles.Load(ctx); err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	return nil
}

func ensureEntriesLoaded(ctx context.Context, entries domain.EntryStore) error {
	if !entries.IsLoading() {
		return nil
	}
	if _, err := entries.Load(ctx); err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}
	return nil
}
