package models

import (
	"path/filepath"
	"strings"
	"time"
)

// AccountType selects the onboarding branch
type AccountType string

const (
	AccountTypeIndividual AccountType = "PF"
	AccountTypeCompany    AccountType = "PJ"
)

// Valid reports whether t is one of the supported branches
func (t AccountType) Valid() bool {
	return t == AccountTypeIndividual || t == AccountTypeCompany
}

// Field names a draft value. The names double as JSON keys and multipart field names.
type Field string

const (
	FieldAccountType Field = "account_type"
	FieldIsForeigner Field = "is_foreigner"
	FieldPEPStatus   Field = "pep_status"
	FieldAcceptTerms Field = "accept_terms"

	// individual identity
	FieldFullName    Field = "full_name"
	FieldCPF         Field = "cpf"
	FieldBirthDate   Field = "birth_date"
	FieldRG          Field = "rg"
	FieldCNH         Field = "cnh"
	FieldUserEmail   Field = "user_email"
	FieldUserPhone   Field = "user_phone"
	FieldPEPPosition Field = "pep_position"

	// individual domestic address
	FieldCEP        Field = "cep"
	FieldStreet     Field = "street"
	FieldNumber     Field = "number"
	FieldComplement Field = "complement"
	FieldDistrict   Field = "district"
	FieldCity       Field = "city"
	FieldState      Field = "state"

	// individual foreign address
	FieldForeignStreet     Field = "foreign_street"
	FieldForeignNumber     Field = "foreign_number"
	FieldForeignComplement Field = "foreign_complement"
	FieldForeignDistrict   Field = "foreign_district"
	FieldForeignCity       Field = "foreign_city"
	FieldForeignState      Field = "foreign_state"
	FieldForeignZipCode    Field = "foreign_zip_code"
	FieldForeignCountry    Field = "foreign_country"

	// company identity
	FieldCompanyName    Field = "company_name"
	FieldTradeName      Field = "trade_name"
	FieldCNPJ           Field = "cnpj"
	FieldFoundationDate Field = "foundation_date"
	FieldMainCNAE       Field = "main_cnae"
	FieldCompanyEmail   Field = "company_email"
	FieldCompanyPhone   Field = "company_phone"
	FieldLegalNature    Field = "legal_nature"

	// company fiscal address
	FieldPJCEP        Field = "pj_cep"
	FieldPJStreet     Field = "pj_street"
	FieldPJNumber     Field = "pj_number"
	FieldPJComplement Field = "pj_complement"
	FieldPJDistrict   Field = "pj_district"
	FieldPJCity       Field = "pj_city"
	FieldPJState      Field = "pj_state"

	// majority administrator
	FieldAdminName  Field = "majority_admin_name"
	FieldAdminCPF   Field = "majority_admin_cpf"
	FieldAdminEmail Field = "majority_admin_email"
	FieldAdminPhone Field = "majority_admin_phone"

	// individual document slots
	FieldDocumentFront  Field = "document_front"
	FieldDocumentBack   Field = "document_back"
	FieldSelfie         Field = "selfie"
	FieldProofOfAddress Field = "proof_of_address"

	// company document slots
	FieldArticlesOfAssociation Field = "articles_of_association"
	FieldCNPJCard              Field = "cnpj_card"
	FieldAdminIDFront          Field = "admin_id_front"
	FieldAdminIDBack           Field = "admin_id_back"
	FieldCompanyProofOfAddress Field = "company_proof_of_address"
	FieldECNPJCertificate      Field = "ecnpj_certificate"
)

// FileFields lists every document slot, individual slots first
var FileFields = []Field{
	FieldDocumentFront, FieldDocumentBack, FieldSelfie, FieldProofOfAddress,
	FieldArticlesOfAssociation, FieldCNPJCard, FieldAdminIDFront, FieldAdminIDBack,
	FieldCompanyProofOfAddress, FieldECNPJCertificate,
}

// IsFileField reports whether f names a document slot
func IsFileField(f Field) bool {
	for _, slot := range FileFields {
		if slot == f {
			return true
		}
	}
	return false
}

// IsFlagField reports whether f is one of the boolean draft flags
func IsFlagField(f Field) bool {
	return f == FieldIsForeigner || f == FieldPEPStatus || f == FieldAcceptTerms
}

// FileSlotKind discriminates FileSlot
type FileSlotKind int

const (
	FileSlotEmpty FileSlotKind = iota
	FileSlotPresent
)

// FileSlot is either empty or holds a selected file with its declared metadata.
// Content is never inspected, only name, MIME type and size.
type FileSlot struct {
	Kind      FileSlotKind
	Name      string
	MimeType  string
	SizeBytes int64
	Bytes     []byte
}

// EmptyFileSlot returns an empty slot
func EmptyFileSlot() FileSlot {
	return FileSlot{Kind: FileSlotEmpty}
}

// PresentFileSlot returns a slot holding the given file
func PresentFileSlot(name, mimeType string, data []byte) FileSlot {
	return FileSlot{
		Kind:      FileSlotPresent,
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
		Bytes:     data,
	}
}

// IsPresent reports whether a file was selected
func (f FileSlot) IsPresent() bool {
	return f.Kind == FileSlotPresent
}

// Extension returns the lowercased file extension including the dot
func (f FileSlot) Extension() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// RegistrationDraft is the in-progress onboarding form. Values are kept per field
// for both branches, so switching account type or residency never drops input.
type RegistrationDraft struct {
	AccountType AccountType
	IsForeigner bool
	PEPStatus   bool
	AcceptTerms bool

	Text  map[Field]string
	Files map[Field]FileSlot
}

// NewRegistrationDraft returns an empty individual draft
func NewRegistrationDraft() *RegistrationDraft {
	return &RegistrationDraft{
		AccountType: AccountTypeIndividual,
		Text:        make(map[Field]string),
		Files:       make(map[Field]FileSlot),
	}
}

// Get returns the text value of f, empty when unset
func (d *RegistrationDraft) Get(f Field) string {
	if d == nil || d.Text == nil {
		return ""
	}
	return d.Text[f]
}

// Set stores the text value of f
func (d *RegistrationDraft) Set(f Field, value string) {
	if d.Text == nil {
		d.Text = make(map[Field]string)
	}
	d.Text[f] = value
}

// File returns the slot for f, empty when unset
func (d *RegistrationDraft) File(f Field) FileSlot {
	if d == nil || d.Files == nil {
		return EmptyFileSlot()
	}
	slot, ok := d.Files[f]
	if !ok {
		return EmptyFileSlot()
	}
	return slot
}

// SetFile stores the slot for f
func (d *RegistrationDraft) SetFile(f Field, slot FileSlot) {
	if d.Files == nil {
		d.Files = make(map[Field]FileSlot)
	}
	d.Files[f] = slot
}

// Flag returns the value of a boolean field
func (d *RegistrationDraft) Flag(f Field) bool {
	switch f {
	case FieldIsForeigner:
		return d.IsForeigner
	case FieldPEPStatus:
		return d.PEPStatus
	case FieldAcceptTerms:
		return d.AcceptTerms
	}
	return false
}

// SetFlag sets a boolean field. Unknown fields are ignored.
func (d *RegistrationDraft) SetFlag(f Field, value bool) {
	switch f {
	case FieldIsForeigner:
		d.IsForeigner = value
	case FieldPEPStatus:
		d.PEPStatus = value
	case FieldAcceptTerms:
		d.AcceptTerms = value
	}
}

// Clone returns a deep copy, used to freeze the draft at submission
func (d *RegistrationDraft) Clone() *RegistrationDraft {
	out := &RegistrationDraft{
		AccountType: d.AccountType,
		IsForeigner: d.IsForeigner,
		PEPStatus:   d.PEPStatus,
		AcceptTerms: d.AcceptTerms,
		Text:        make(map[Field]string, len(d.Text)),
		Files:       make(map[Field]FileSlot, len(d.Files)),
	}
	for k, v := range d.Text {
		out.Text[k] = v
	}
	for k, v := range d.Files {
		out.Files[k] = v
	}
	return out
}

// RecordPayload returns the persisted shape of the draft: non-empty text values,
// all flags, the account type, and never file contents.
func (d *RegistrationDraft) RecordPayload() map[string]interface{} {
	payload := map[string]interface{}{
		string(FieldAccountType): string(d.AccountType),
		string(FieldIsForeigner): d.IsForeigner,
		string(FieldPEPStatus):   d.PEPStatus,
		string(FieldAcceptTerms): d.AcceptTerms,
	}
	for field, value := range d.Text {
		if value == "" {
			continue
		}
		payload[string(field)] = value
	}
	return payload
}

// RegistrationStatus is the review status of a submitted registration
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// Valid reports whether s is a known status
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusApproved, RegistrationStatusRejected:
		return true
	}
	return false
}

// StoredDocument references an uploaded document slot
type StoredDocument struct {
	Field      Field     `bson:"field" json:"field"`
	Name       string    `bson:"name" json:"name"`
	MimeType   string    `bson:"mime_type" json:"mime_type"`
	SizeBytes  int64     `bson:"size_bytes" json:"size_bytes"`
	Path       string    `bson:"path" json:"path"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
	URL        string    `bson:"-" json:"url,omitempty"`
}

// RegistrationRecord is a persisted registration as returned to admins
type RegistrationRecord struct {
	ID          string                   `json:"id"`
	AccountType AccountType              `json:"account_type"`
	Status      RegistrationStatus       `json:"status"`
	Data        map[string]interface{}   `json:"data"`
	Documents   map[Field]StoredDocument `json:"documents,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at,omitempty"`
}

// DisplayName returns the person or company name of the record
func (r *RegistrationRecord) DisplayName() string {
	if name, ok := r.Data[string(FieldCompanyName)].(string); ok && r.AccountType == AccountTypeCompany {
		return name
	}
	if name, ok := r.Data[string(FieldFullName)].(string); ok {
		return name
	}
	return ""
}

// RegistrationStats summarizes registrations for the admin dashboard
type RegistrationStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	ThisMonth int64 `json:"this_month"`
}
