package services

import (
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/utils"
)

// OnboardingValidator checks registration drafts against the branch rules.
// Validation is exhaustive: every violated rule is reported.
type OnboardingValidator struct {
	rules *ruleTable
}

// NewOnboardingValidator builds the rule table once
func NewOnboardingValidator() *OnboardingValidator {
	return &OnboardingValidator{rules: newRuleTable()}
}

// Validate runs the full schema for the draft's account type
func (v *OnboardingValidator) Validate(draft *models.RegistrationDraft) *utils.ValidationResult {
	return v.validate(draft, nil)
}

// ValidateFields runs only the rules of the given fields. Used to gate wizard steps.
func (v *OnboardingValidator) ValidateFields(draft *models.RegistrationDraft, fields []models.Field) *utils.ValidationResult {
	only := make(map[models.Field]bool, len(fields))
	for _, f := range fields {
		only[f] = true
	}
	return v.validate(draft, only)
}

// ReportableFields lists every field the rules of accountType can report on
func (v *OnboardingValidator) ReportableFields(accountType models.AccountType) []models.Field {
	fields := []models.Field{models.FieldAccountType}
	fields = append(fields, v.rules.fields(accountType)...)
	return append(fields, models.FieldAcceptTerms)
}

func (v *OnboardingValidator) validate(draft *models.RegistrationDraft, only map[models.Field]bool) *utils.ValidationResult {
	result := utils.NewValidationResult()
	selected := func(f models.Field) bool { return only == nil || only[f] }

	if selected(models.FieldAccountType) && !draft.AccountType.Valid() {
		if draft.AccountType == "" {
			result.AddError(string(models.FieldAccountType), MsgRequired)
		} else {
			result.AddError(string(models.FieldAccountType), MsgInvalidAccountType)
		}
	}

	for _, field := range v.rules.fields(draft.AccountType) {
		if !selected(field) {
			continue
		}
		for _, rule := range v.rules.lookup(draft.AccountType, field) {
			rule.apply(draft, result)
		}
	}

	if selected(models.FieldAcceptTerms) && !draft.AcceptTerms {
		result.AddError(string(models.FieldAcceptTerms), MsgRequired)
	}

	return result
}
