package domain

import (
	"strconv"
	"strings"

	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
)

// Validation messages shown to the user
const (
	MsgBloodSugarRequired = "Please enter blood sugar level."
	MsgBloodSugarNumber   = "Blood sugar must be a positive number."
	MsgIncompleteInsulin  = "Please complete all insulin entry fields or remove incomplete entries."
	MsgNameRequired       = "Please enter the patient's name."
	MsgDiabetesType       = "Diabetes type must be 1 or 2."
	MsgStartYear          = "Start year must be a 4-digit year."
	MsgTargetRange        = "Target range must be two numbers with min below max."
)

// PrepareEntry validates raw form input and turns it into a NewEntry.
// Blank insulin rows are dropped and the kept rows are numbered from 1.
func PrepareEntry(bloodSugar string, doses []InsulinDose, notes string) (NewEntry, error) {
	bloodSugar = strings.TrimSpace(bloodSugar)
	if bloodSugar == "" {
		return NewEntry{}, apperrors.NewValidationError(MsgBloodSugarRequired).WithContext("field", "bloodSugar")
	}
	if v, err := strconv.ParseFloat(bloodSugar, 64); err != nil || v <= 0 {
		return NewEntry{}, apperrors.NewValidationError(MsgBloodSugarNumber).WithContext("field", "bloodSugar")
	}

	kept, err := PrepareDoses(doses)
	if err != nil {
		return NewEntry{}, err
	}

	return NewEntry{
		BloodSugar:     bloodSugar,
		InsulinEntries: kept,
		Notes:          notes,
	}, nil
}

// PrepareDoses rejects partially filled rows, drops blank ones and renumbers the rest
func PrepareDoses(doses []InsulinDose) ([]InsulinDose, error) {
	kept := make([]InsulinDose, 0, len(doses))
	for _, d := range doses {
		d.Type = strings.TrimSpace(d.Type)
		d.Amount = strings.TrimSpace(d.Amount)
		d.Time = strings.TrimSpace(d.Time)
		if d.IsBlank() {
			continue
		}
		if !d.IsComplete() {
			return nil, apperrors.NewValidationError(MsgIncompleteInsulin).WithContext("field", "insulinEntries")
		}
		d.ID = len(kept) + 1
		kept = append(kept, d)
	}
	return kept, nil
}

// ValidateProfile checks a profile before it is saved
func ValidateProfile(p PatientProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.NewValidationError(MsgNameRequired).WithContext("field", "name")
	}
	if p.DiabetesType != "1" && p.DiabetesType != "2" {
		return apperrors.NewValidationError(MsgDiabetesType).WithContext("field", "diabetesType")
	}
	if p.StartYear != "" {
		if len(p.StartYear) != 4 {
			return apperrors.NewValidationError(MsgStartYear).WithContext("field", "startYear")
		}
		if _, err := strconv.Atoi(p.StartYear); err != nil {
			return apperrors.NewValidationError(MsgStartYear).WithContext("field", "startYear")
		}
	}

	lo, errLo := strconv.ParseFloat(strings.TrimSpace(p.TargetMin), 64)
	hi, errHi := strconv.ParseFloat(strings.TrimSpace(p.TargetMax), 64)
	if errLo != nil || errHi != nil || lo >= hi {
		return apperrors.NewValidationError(MsgTargetRange).WithContext("field", "target")
	}
	return nil
}
