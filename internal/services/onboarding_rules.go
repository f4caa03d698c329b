package services

import (
	"strings"

	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/utils"
)

// MaxDocumentSize is the upload ceiling for every size-checked document slot
const MaxDocumentSize int64 = 10 * 1024 * 1024

// Validation messages
const (
	MsgRequired           = "field is required"
	MsgInvalidAccountType = "account type must be PF or PJ"
	MsgInvalidCPF         = "invalid CPF"
	MsgInvalidCNPJ        = "invalid CNPJ"
	MsgInvalidCEP         = "invalid CEP"
	MsgInvalidEmail       = "invalid email"
	MsgInvalidPhone       = "phone must be +55 followed by area code and number (e.g. +5511999999999)"
	MsgFileTooLarge       = "file exceeds the 10MB limit"
	MsgInvalidFileType    = "invalid file type"
)

var (
	documentMimeTypes = []string{"image/jpeg", "image/png", "application/pdf"}
	imageMimeTypes    = []string{"image/jpeg", "image/png"}
	pdfMimeTypes      = []string{"application/pdf"}
)

// fileConstraint restricts a present file. Zero values disable a check.
type fileConstraint struct {
	maxBytes  int64
	mimeTypes []string
	extension string
}

// fieldRule is one row of the rule table
type fieldRule struct {
	field    models.Field
	required bool
	// check validates a non-blank text value
	check   func(string) bool
	message string
	file    *fileConstraint
	// when limits the rule to drafts it applies to; nil means always
	when func(*models.RegistrationDraft) bool
}

type ruleKey struct {
	accountType models.AccountType
	field       models.Field
}

// ruleTable holds the rules per (account type, field), keeping declaration order
// so errors come out in form order
type ruleTable struct {
	rules map[ruleKey][]fieldRule
	order map[models.AccountType][]models.Field
}

func (t *ruleTable) add(accountType models.AccountType, rule fieldRule) {
	key := ruleKey{accountType: accountType, field: rule.field}
	if _, seen := t.rules[key]; !seen {
		t.order[accountType] = append(t.order[accountType], rule.field)
	}
	t.rules[key] = append(t.rules[key], rule)
}

// fields returns the fields with rules for accountType, in declaration order
func (t *ruleTable) fields(accountType models.AccountType) []models.Field {
	return t.order[accountType]
}

func (t *ruleTable) lookup(accountType models.AccountType, field models.Field) []fieldRule {
	return t.rules[ruleKey{accountType: accountType, field: field}]
}

func isForeigner(d *models.RegistrationDraft) bool { return d.IsForeigner }
func isDomestic(d *models.RegistrationDraft) bool  { return !d.IsForeigner }

func required(field models.Field) fieldRule {
	return fieldRule{field: field, required: true}
}

func requiredWhen(field models.Field, when func(*models.RegistrationDraft) bool) fieldRule {
	return fieldRule{field: field, required: true, when: when}
}

func checked(field models.Field, required bool, check func(string) bool, message string) fieldRule {
	return fieldRule{field: field, required: required, check: check, message: message}
}

func document(field models.Field, required bool, constraint fileConstraint) fieldRule {
	c := constraint
	return fieldRule{field: field, required: required, file: &c}
}

// newRuleTable builds the onboarding rules for both branches
func newRuleTable() *ruleTable {
	t := &ruleTable{
		rules: make(map[ruleKey][]fieldRule),
		order: make(map[models.AccountType][]models.Field),
	}

	docs := fileConstraint{maxBytes: MaxDocumentSize, mimeTypes: documentMimeTypes}

	pf := models.AccountTypeIndividual
	for _, rule := range []fieldRule{
		required(models.FieldFullName),
		checked(models.FieldCPF, true, utils.ValidateCPF, MsgInvalidCPF),
		required(models.FieldBirthDate),
		checked(models.FieldUserEmail, true, utils.ValidateEmailShape, MsgInvalidEmail),
		checked(models.FieldUserPhone, true, utils.ValidateBrazilianPhone, MsgInvalidPhone),

		{field: models.FieldCEP, required: true, check: utils.ValidateCEP, message: MsgInvalidCEP, when: isDomestic},
		requiredWhen(models.FieldStreet, isDomestic),
		requiredWhen(models.FieldNumber, isDomestic),
		requiredWhen(models.FieldDistrict, isDomestic),
		requiredWhen(models.FieldCity, isDomestic),
		requiredWhen(models.FieldState, isDomestic),

		requiredWhen(models.FieldForeignStreet, isForeigner),
		requiredWhen(models.FieldForeignNumber, isForeigner),
		requiredWhen(models.FieldForeignCity, isForeigner),
		requiredWhen(models.FieldForeignState, isForeigner),
		requiredWhen(models.FieldForeignZipCode, isForeigner),

		document(models.FieldDocumentFront, true, docs),
		document(models.FieldDocumentBack, true, docs),
		document(models.FieldSelfie, false, fileConstraint{maxBytes: MaxDocumentSize, mimeTypes: imageMimeTypes}),
		document(models.FieldProofOfAddress, false, docs),
	} {
		t.add(pf, rule)
	}

	pj := models.AccountTypeCompany
	for _, rule := range []fieldRule{
		required(models.FieldCompanyName),
		required(models.FieldTradeName),
		checked(models.FieldCNPJ, true, utils.ValidateCNPJ, MsgInvalidCNPJ),
		required(models.FieldFoundationDate),
		required(models.FieldMainCNAE),
		checked(models.FieldCompanyEmail, true, utils.ValidateEmailShape, MsgInvalidEmail),
		checked(models.FieldCompanyPhone, true, utils.ValidateBrazilianPhone, MsgInvalidPhone),

		checked(models.FieldPJCEP, true, utils.ValidateCEP, MsgInvalidCEP),
		required(models.FieldPJStreet),
		required(models.FieldPJNumber),
		required(models.FieldPJDistrict),
		required(models.FieldPJCity),
		required(models.FieldPJState),

		required(models.FieldAdminName),
		checked(models.FieldAdminCPF, true, utils.ValidateCPF, MsgInvalidCPF),
		checked(models.FieldAdminEmail, true, utils.ValidateEmailShape, MsgInvalidEmail),
		checked(models.FieldAdminPhone, true, utils.ValidateBrazilianPhone, MsgInvalidPhone),

		document(models.FieldArticlesOfAssociation, false, fileConstraint{maxBytes: MaxDocumentSize, mimeTypes: pdfMimeTypes}),
		document(models.FieldCNPJCard, false, docs),
		document(models.FieldAdminIDFront, true, docs),
		document(models.FieldAdminIDBack, true, docs),
		document(models.FieldCompanyProofOfAddress, false, docs),
		// the certificate is checked by extension only, whatever MIME the client declares
		document(models.FieldECNPJCertificate, false, fileConstraint{extension: ".pfx"}),
	} {
		t.add(pj, rule)
	}

	return t
}

// apply checks one rule against the draft and records every violation
func (r fieldRule) apply(draft *models.RegistrationDraft, result *utils.ValidationResult) {
	if r.when != nil && !r.when(draft) {
		return
	}
	if r.file != nil {
		r.applyFile(draft.File(r.field), result)
		return
	}

	value := strings.TrimSpace(draft.Get(r.field))
	if value == "" {
		if r.required {
			result.AddError(string(r.field), MsgRequired)
		}
		return
	}
	if r.check != nil && !r.check(value) {
		result.AddError(string(r.field), r.message)
	}
}

func (r fieldRule) applyFile(slot models.FileSlot, result *utils.ValidationResult) {
	field := string(r.field)
	switch slot.Kind {
	case models.FileSlotEmpty:
		if r.required {
			result.AddError(field, MsgRequired)
		}
	case models.FileSlotPresent:
		if r.file.maxBytes > 0 && slot.SizeBytes > r.file.maxBytes {
			result.AddError(field, MsgFileTooLarge)
		}
		if len(r.file.mimeTypes) > 0 && !containsString(r.file.mimeTypes, slot.MimeType) {
			result.AddError(field, MsgInvalidFileType)
		}
		if r.file.extension != "" && slot.Extension() != r.file.extension {
			result.AddError(field, MsgInvalidFileType)
		}
	}
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
