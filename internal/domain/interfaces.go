package domain

import (
	"context"
)

// ProfileStore persists the single patient profile
type ProfileStore interface {
	Load(ctx context.Context) (*PatientProfile, error)
	Save(ctx context.Context, profile PatientProfile) error
	Profile() *PatientProfile
	IsLoading() bool
}

// EntryStore persists the collection of diary entries
type EntryStore interface {
	Load(ctx context.Context) ([]DiabetesEntry, error)
	Add(ctx context.Context, entry NewEntry) (DiabetesEntry, error)
	Update(ctx context.Context, id string, patch EntryPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Entries() []DiabetesEntry
	Version() uint64
	IsLoading() bool
}
