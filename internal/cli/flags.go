package cli

import (
	"fmt"
	"strings"

	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
)

// parseDose reads "Type:Amount:Time". The type may itself contain colons.
func parseDose(s string) (domain.InsulinDose, error) {
	last := strings.LastIndex(s, ":")
	if last < 0 {
		return domain.InsulinDose{}, badFlag("--insulin", s, "TYPE:AMOUNT:TIME")
	}
	mid := strings.LastIndex(s[:last], ":")
	if mid < 0 {
		return domain.InsulinDose{}, badFlag("--insulin", s, "TYPE:AMOUNT:TIME")
	}
	return domain.InsulinDose{
		Type:   strings.TrimSpace(s[:mid]),
		Amount: strings.TrimSpace(s[mid+1 : last]),
		Time:   strings.TrimSpace(s[last+1:]),
	}, nil
}

func parseDoses(values []string) ([]domain.InsulinDose, error) {
	doses := make([]domain.InsulinDose, 0, len(values))
	for _, v := range values {
		d, err := parseDose(v)
		if err != nil {
			return nil, err
		}
		doses = append(doses, d)
	}
	return doses, nil
}

// parsePlan reads "Name=Slot,Slot". The slot list may be empty.
func parsePlan(s string) (domain.InsulinPlan, error) {
	name, slots, _ := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.InsulinPlan{}, badFlag("--insulin", s, "NAME=SLOT,SLOT")
	}

	plan := domain.InsulinPlan{Name: name, Timings: []string{}}
	var selected []string
	for _, slot := range strings.Split(slots, ",") {
		if slot = strings.TrimSpace(slot); slot != "" {
			selected = append(selected, slot)
		}
	}
	plan.MergeTimings(selected, "")
	return plan, nil
}

func parsePlans(values []string) ([]domain.InsulinPlan, error) {
	plans := make([]domain.InsulinPlan, 0, len(values))
	for _, v := range values {
		p, err := parsePlan(v)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func badFlag(flag, value, format string) error {
	return apperrors.NewValidationError(fmt.Sprintf("%s %q must look like %s.", flag, value, format))
}
