package services

import (
	"strings"

	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/utils"
)

// ReviewRow is one filled value on the review page
type ReviewRow struct {
	Field models.Field `json:"field"`
	Value string       `json:"value"`
}

// ReviewSection groups the rows of one wizard step. EditStep is the step to
// jump back to when the user edits the section.
type ReviewSection struct {
	EditStep int         `json:"edit_step"`
	Label    string      `json:"label"`
	Rows     []ReviewRow `json:"rows"`
}

// BuildReview renders the identity, address and document steps of the draft
// with display formatting. Empty values are left out.
func BuildReview(draft *models.RegistrationDraft) []ReviewSection {
	steps := ComputeSteps(draft.AccountType, draft.IsForeigner)

	sections := make([]ReviewSection, 0, StepReview-StepIdentity)
	for _, step := range steps[StepIdentity:StepReview] {
		section := ReviewSection{EditStep: step.Index, Label: step.Label, Rows: []ReviewRow{}}
		for _, field := range step.Fields {
			if value := reviewValue(draft, field); value != "" {
				section.Rows = append(section.Rows, ReviewRow{Field: field, Value: value})
			}
		}
		sections = append(sections, section)
	}
	return sections
}

func reviewValue(draft *models.RegistrationDraft, field models.Field) string {
	if models.IsFileField(field) {
		return draft.File(field).Name
	}
	if models.IsFlagField(field) {
		// only a declared PEP status is worth showing
		if field == models.FieldPEPStatus && draft.PEPStatus {
			return "yes"
		}
		return ""
	}

	value := strings.TrimSpace(draft.Get(field))
	if value == "" {
		return ""
	}
	switch field {
	case models.FieldCPF, models.FieldAdminCPF:
		return utils.FormatCPF(value)
	case models.FieldCNPJ:
		return utils.FormatCNPJ(value)
	case models.FieldCEP, models.FieldPJCEP:
		return utils.FormatCEP(value)
	case models.FieldUserPhone, models.FieldCompanyPhone, models.FieldAdminPhone:
		return utils.DisplayPhone(value)
	}
	return value
}
