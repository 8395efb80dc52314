package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	"github.com/vladimiradmaev/diabetes-diary/internal/utils"
)

// Storage keys, shared with data written by earlier versions of the app
const (
	ProfileKey = "@patient_data"
	EntriesKey = "@diabetes_entries"
)

// SchemaVersion is written into every envelope
const SchemaVersion = 1

// DecodeStatus tags how a stored record was read
type DecodeStatus string

const (
	StatusValid    DecodeStatus = "valid"
	StatusAbsent   DecodeStatus = "absent"
	StatusMigrated DecodeStatus = "migrated" // bare record from before envelopes
	StatusRepaired DecodeStatus = "repaired" // invalid elements were dropped
	StatusFallback DecodeStatus = "fallback" // unreadable, default used
)

// Decoded is the result of reading one stored record
type Decoded[T any] struct {
	Value   T
	Status  DecodeStatus
	Version int
	Dropped int
	Err     error
}

type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

var errEmptyPayload = errors.New("empty payload")

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Data: data})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// unwrap strips the envelope. Payloads without one are version 0.
func unwrap(raw string) ([]byte, int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, 0, errEmptyPayload
	}
	if trimmed[0] != '{' {
		return []byte(trimmed), 0, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &top); err != nil {
		return nil, 0, err
	}
	rawVersion, ok := top["schemaVersion"]
	if !ok {
		return []byte(trimmed), 0, nil
	}

	var version int
	if err := json.Unmarshal(rawVersion, &version); err != nil {
		return nil, 0, fmt.Errorf("bad schemaVersion: %w", err)
	}
	if version < 1 || version > SchemaVersion {
		return nil, version, fmt.Errorf("unsupported schemaVersion %d", version)
	}
	data, ok := top["data"]
	if !ok {
		return nil, version, errors.New("envelope has no data")
	}
	return data, version, nil
}

func decodeProfile(raw string, found bool) Decoded[*domain.PatientProfile] {
	if !found {
		return Decoded[*domain.PatientProfile]{Status: StatusAbsent}
	}

	data, version, err := unwrap(raw)
	if err != nil {
		return Decoded[*domain.PatientProfile]{Status: StatusFallback, Version: version, Err: err}
	}

	var profile *domain.PatientProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return Decoded[*domain.PatientProfile]{Status: StatusFallback, Version: version, Err: err}
	}
	if profile == nil {
		return Decoded[*domain.PatientProfile]{Status: StatusAbsent, Version: version}
	}

	normalized := profile.Normalized()
	result := Decoded[*domain.PatientProfile]{
		Value:   &normalized,
		Status:  StatusValid,
		Version: version,
		Dropped: len(profile.Insulins) - len(normalized.Insulins),
	}
	switch {
	case version == 0:
		result.Status = StatusMigrated
	case result.Dropped > 0:
		result.Status = StatusRepaired
	}
	return result
}

func decodeEntries(raw string, found bool) Decoded[[]domain.DiabetesEntry] {
	empty := []domain.DiabetesEntry{}
	if !found {
		return Decoded[[]domain.DiabetesEntry]{Value: empty, Status: StatusAbsent}
	}

	data, version, err := unwrap(raw)
	if err != nil {
		return Decoded[[]domain.DiabetesEntry]{Value: empty, Status: StatusFallback, Version: version, Err: err}
	}

	var stored []domain.DiabetesEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		return Decoded[[]domain.DiabetesEntry]{Value: empty, Status: StatusFallback, Version: version, Err: err}
	}

	kept := make([]domain.DiabetesEntry, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, e := range stored {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		if _, err := utils.ParseTimestamp(e.Date, time.UTC); err != nil {
			continue
		}
		if e.InsulinEntries == nil {
			e.InsulinEntries = []domain.InsulinDose{}
		}
		seen[e.ID] = true
		kept = append(kept, e)
	}

	result := Decoded[[]domain.DiabetesEntry]{
		Value:   kept,
		Status:  StatusValid,
		Version: version,
		Dropped: len(stored) - len(kept),
	}
	switch {
	case version == 0:
		result.Status = StatusMigrated
	case result.Dropped > 0:
		result.Status = StatusRepaired
	}
	return result
}
