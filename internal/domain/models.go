package domain

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Default target band used when the patient has not configured one
const (
	DefaultTargetMin = "70"
	DefaultTargetMax = "180"
)

// InsulinPlan is one insulin type and its named administration slots
type InsulinPlan struct {
	Name    string   `json:"name"`
	Timings []string `json:"timings"`
}

// MergeTimings appends selected slots that are not configured yet, then the
// custom label when it is not blank. Order is preserved and nothing is duplicated.
func (p *InsulinPlan) MergeTimings(selected []string, custom string) {
	seen := mapset.NewSet[string](p.Timings...)
	for _, t := range selected {
		if t == "" || seen.Contains(t) {
			continue
		}
		seen.Add(t)
		p.Timings = append(p.Timings, t)
	}
	if c := strings.TrimSpace(custom); c != "" && !seen.Contains(c) {
		p.Timings = append(p.Timings, c)
	}
}

// PatientProfile describes the single patient of this installation
type PatientProfile struct {
	Name         string        `json:"name"`
	Age          string        `json:"age"`
	Gender       string        `json:"gender"`
	DiabetesType string        `json:"diabetesType"`
	StartYear    string        `json:"startYear"`
	TargetMin    string        `json:"targetMin"`
	TargetMax    string        `json:"targetMax"`
	Notes        string        `json:"notes"`
	Insulins     []InsulinPlan `json:"insulins"`
}

// DefaultProfile returns the values a fresh setup form starts with
func DefaultProfile() PatientProfile {
	return PatientProfile{
		DiabetesType: "1",
		TargetMin:    DefaultTargetMin,
		TargetMax:    DefaultTargetMax,
		Insulins:     []InsulinPlan{},
	}
}

// Normalized drops insulins with a blank name
func (p PatientProfile) Normalized() PatientProfile {
	kept := make([]InsulinPlan, 0, len(p.Insulins))
	for _, ins := range p.Insulins {
		if strings.TrimSpace(ins.Name) == "" {
			continue
		}
		if ins.Timings == nil {
			ins.Timings = []string{}
		}
		kept = append(kept, ins)
	}
	p.Insulins = kept
	return p
}

// Insulin returns the plan with the given name
func (p PatientProfile) Insulin(name string) (InsulinPlan, bool) {
	for _, ins := range p.Insulins {
		if ins.Name == name {
			return ins, true
		}
	}
	return InsulinPlan{}, false
}

// InsulinDose is one insulin administration recorded with an entry
type InsulinDose struct {
	ID     int    `json:"id"` // unique within the owning entry
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Time   string `json:"time"`
}

// IsBlank reports whether no field of the dose was filled in
func (d InsulinDose) IsBlank() bool {
	return d.Type == "" && d.Amount == "" && d.Time == ""
}

// IsComplete reports whether every field of the dose was filled in
func (d InsulinDose) IsComplete() bool {
	return d.Type != "" && d.Amount != "" && d.Time != ""
}

// DiabetesEntry is one logged reading plus its insulin doses
type DiabetesEntry struct {
	ID             string        `json:"id"`
	Date           string        `json:"date"`
	BloodSugar     string        `json:"bloodSugar"`
	InsulinEntries []InsulinDose `json:"insulinEntries"`
	Notes          string        `json:"notes"`
}

// NewEntry holds everything a caller supplies when logging; id and date are generated
type NewEntry struct {
	BloodSugar     string
	InsulinEntries []InsulinDose
	Notes          string
}

// EntryPatch lists the fields an update may change. Nil fields are left alone.
type EntryPatch struct {
	BloodSugar     *string
	InsulinEntries *[]InsulinDose
	Notes          *string
}

// IsEmpty reports whether the patch changes nothing
func (p EntryPatch) IsEmpty() bool {
	return p.BloodSugar == nil && p.InsulinEntries == nil && p.Notes == nil
}

// Apply returns e with the patch merged on top; id and date are never touched
func (p EntryPatch) Apply(e DiabetesEntry) DiabetesEntry {
	if p.BloodSugar != nil {
		e.BloodSugar = *p.BloodSugar
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.InsulinEntries != nil {
		doses := make([]InsulinDose, len(*p.InsulinEntries))
		copy(doses, *p.InsulinEntries)
		e.InsulinEntries = doses
	}
	return e
}
