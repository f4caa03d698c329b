package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Wizard step indexes
const (
	StepAccountType = iota
	StepIdentity
	StepAddress
	StepDocuments
	StepReview

	stepCount = 5
)

// SubmissionStatus is the wizard submission state
type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSuccess    SubmissionStatus = "success"
	StatusError      SubmissionStatus = "error"
)

// WizardStep is one page of the onboarding wizard
type WizardStep struct {
	Index  int            `json:"index"`
	Label  string         `json:"label"`
	Fields []models.Field `json:"fields"`
}

// ComputeSteps derives the five wizard steps for a branch. Unknown account
// types get the individual layout.
func ComputeSteps(accountType models.AccountType, foreigner bool) []WizardStep {
	company := accountType == models.AccountTypeCompany

	steps := []WizardStep{
		{Label: "Account type", Fields: []models.Field{models.FieldAccountType}},
	}

	if company {
		steps = append(steps,
			WizardStep{Label: "Company data", Fields: []models.Field{
				models.FieldCompanyName, models.FieldTradeName, models.FieldCNPJ, models.FieldFoundationDate,
				models.FieldMainCNAE, models.FieldCompanyEmail, models.FieldCompanyPhone, models.FieldLegalNature,
			}},
			WizardStep{Label: "Fiscal address and administrator", Fields: []models.Field{
				models.FieldPJCEP, models.FieldPJStreet, models.FieldPJNumber, models.FieldPJComplement,
				models.FieldPJDistrict, models.FieldPJCity, models.FieldPJState,
				models.FieldAdminName, models.FieldAdminCPF, models.FieldAdminEmail, models.FieldAdminPhone,
			}},
			WizardStep{Label: "Company documents", Fields: []models.Field{
				models.FieldArticlesOfAssociation, models.FieldCNPJCard, models.FieldAdminIDFront,
				models.FieldAdminIDBack, models.FieldCompanyProofOfAddress, models.FieldECNPJCertificate,
			}},
		)
	} else {
		address := WizardStep{Label: "Address", Fields: []models.Field{
			models.FieldIsForeigner, models.FieldCEP, models.FieldStreet, models.FieldNumber,
			models.FieldComplement, models.FieldDistrict, models.FieldCity, models.FieldState,
		}}
		if foreigner {
			address.Fields = []models.Field{
				models.FieldIsForeigner, models.FieldForeignStreet, models.FieldForeignNumber,
				models.FieldForeignComplement, models.FieldForeignDistrict, models.FieldForeignCity,
				models.FieldForeignState, models.FieldForeignZipCode, models.FieldForeignCountry,
			}
		}
		steps = append(steps,
			WizardStep{Label: "Personal data", Fields: []models.Field{
				models.FieldFullName, models.FieldCPF, models.FieldBirthDate, models.FieldRG, models.FieldCNH,
				models.FieldUserEmail, models.FieldUserPhone, models.FieldPEPStatus, models.FieldPEPPosition,
			}},
			address,
			WizardStep{Label: "Documents", Fields: []models.Field{
				models.FieldDocumentFront, models.FieldDocumentBack, models.FieldSelfie, models.FieldProofOfAddress,
			}},
		)
	}

	steps = append(steps, WizardStep{Label: "Terms and review", Fields: []models.Field{models.FieldAcceptTerms}})

	for i := range steps {
		steps[i].Index = i
	}
	return steps
}

// RegistrationSubmitter persists a validated draft
type RegistrationSubmitter interface {
	CreateRecord(ctx context.Context, draft *models.RegistrationDraft) (string, error)
	UpdateRecord(ctx context.Context, recordID string, draft *models.RegistrationDraft) error
	UploadDocument(ctx context.Context, recordID string, field models.Field, slot models.FileSlot) (models.StoredDocument, error)
	AttachDocuments(ctx context.Context, recordID string, documents map[models.Field]models.StoredDocument) error
}

// StatusObserver is told about every submission status change
type StatusObserver func(from, to SubmissionStatus)

// WizardOption configures a StepWizard
type WizardOption func(*StepWizard)

// WithStatusObserver registers an observer for status transitions
func WithStatusObserver(observer StatusObserver) WizardOption {
	return func(w *StepWizard) {
		w.observer = observer
	}
}

// WithDraft starts the wizard from an existing draft instead of an empty one
func WithDraft(draft *models.RegistrationDraft) WizardOption {
	return func(w *StepWizard) {
		if draft != nil {
			w.draft = draft.Clone()
		}
	}
}

// StepWizard drives one onboarding attempt: step navigation gated by partial
// validation, review, and submission. A failed submission can be retried; the
// created record is reused with the current values, and slots whose file is
// unchanged since their upload are skipped.
type StepWizard struct {
	mu        sync.Mutex
	validator *OnboardingValidator
	submitter RegistrationSubmitter
	logger    *logging.SafeLogger
	observer  StatusObserver

	draft      *models.RegistrationDraft
	step       int
	status     SubmissionStatus
	lastErrors *utils.ValidationResult

	recordID string
	uploaded map[models.Field]models.StoredDocument
}

// NewStepWizard creates a wizard on an empty individual draft
func NewStepWizard(validator *OnboardingValidator, submitter RegistrationSubmitter, logger *logging.SafeLogger, opts ...WizardOption) *StepWizard {
	w := &StepWizard{
		validator: validator,
		submitter: submitter,
		logger:    logger.Named("step_wizard"),
		draft:     models.NewRegistrationDraft(),
		status:    StatusIdle,
		uploaded:  make(map[models.Field]models.StoredDocument),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Steps returns the steps for the current branch
func (w *StepWizard) Steps() []WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ComputeSteps(w.draft.AccountType, w.draft.IsForeigner)
}

// CurrentStep returns the index of the active step
func (w *StepWizard) CurrentStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Status returns the submission status
func (w *StepWizard) Status() SubmissionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// RecordID returns the id of the record created by a submission, if any
func (w *StepWizard) RecordID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recordID
}

// LastErrors returns the errors of the last failed advance or submit
func (w *StepWizard) LastErrors() *utils.ValidationResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErrors
}

// Draft returns a copy of the draft
func (w *StepWizard) Draft() *models.RegistrationDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// SetAccountType switches branch. Values of both branches are kept.
func (w *StepWizard) SetAccountType(accountType models.AccountType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.AccountType = accountType
}

// SetValue sets a text field
func (w *StepWizard) SetValue(field models.Field, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Set(field, value)
}

// SetFlag sets a boolean field
func (w *StepWizard) SetFlag(field models.Field, value bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.SetFlag(field, value)
}

// SetFile sets a document slot
func (w *StepWizard) SetFile(field models.Field, slot models.FileSlot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.SetFile(field, slot)
}

// Advance validates the fields of the current step and moves forward when they
// pass. On failure the index is unchanged and the step's errors are returned.
func (w *StepWizard) Advance() (*utils.ValidationResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	steps := ComputeSteps(w.draft.AccountType, w.draft.IsForeigner)
	result := w.validator.ValidateFields(w.draft, steps[w.step].Fields)
	if !result.IsValid {
		w.lastErrors = result
		return result, result.Err()
	}

	w.lastErrors = nil
	if w.step < len(steps)-1 {
		w.step++
	}
	return result, nil
}

// Retreat moves one step back without validation
func (w *StepWizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > 0 {
		w.step--
	}
}

// GoTo jumps back to an earlier or the current step, as the review "edit" action does
func (w *StepWizard) GoTo(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index > w.step {
		return fmt.Errorf("%w: cannot jump from step %d to %d", models.ErrInvalidStep, w.step, index)
	}
	w.step = index
	return nil
}

// Review returns the review sections of the draft
func (w *StepWizard) Review() []ReviewSection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return BuildReview(w.draft)
}

// Submit validates the whole draft and persists it. An invalid draft returns
// *utils.ValidationErrors and leaves the status unchanged.
func (w *StepWizard) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	switch w.status {
	case StatusSubmitting:
		w.mu.Unlock()
		return "", models.ErrSubmissionInProgress
	case StatusSuccess:
		w.mu.Unlock()
		return "", models.ErrAlreadySubmitted
	}

	result := w.validator.Validate(w.draft)
	if !result.IsValid {
		w.lastErrors = result
		w.mu.Unlock()
		observability.RegistrationSubmissions.WithLabelValues(string(w.draft.AccountType), "invalid").Inc()
		return "", result.Err()
	}
	if w.submitter == nil {
		w.mu.Unlock()
		return "", &models.ConfigurationError{Component: "registration store"}
	}

	w.lastErrors = nil
	draft := w.draft.Clone()
	recordID := w.recordID
	uploaded := make(map[models.Field]models.StoredDocument, len(w.uploaded))
	for k, v := range w.uploaded {
		uploaded[k] = v
	}
	notify := w.transitionLocked(StatusSubmitting)
	w.mu.Unlock()
	notify()

	recordID, attached, err := w.persist(ctx, draft, recordID, uploaded)

	w.mu.Lock()
	if recordID != "" {
		w.recordID = recordID
	}
	for k, v := range attached {
		w.uploaded[k] = v
	}
	if err != nil {
		notify = w.transitionLocked(StatusError)
	} else {
		notify = w.transitionLocked(StatusSuccess)
	}
	w.mu.Unlock()
	notify()

	accountType := string(draft.AccountType)
	if err != nil {
		observability.RegistrationSubmissions.WithLabelValues(accountType, string(StatusError)).Inc()
		w.logger.Error("registration submission failed",
			zap.String("record_id", recordID),
			zap.Int("documents_attached", len(attached)),
			zap.Error(err))
		return recordID, err
	}

	observability.RegistrationSubmissions.WithLabelValues(accountType, string(StatusSuccess)).Inc()
	w.logger.Info("registration submitted",
		zap.String("record_id", recordID),
		zap.String("account_type", accountType))
	return recordID, nil
}

// persist creates the record, or refreshes its values on a retry, uploads the
// pending slots concurrently and attaches the ones that made it. Uploads do not
// cancel each other. It returns the slots newly attached by this attempt.
func (w *StepWizard) persist(ctx context.Context, draft *models.RegistrationDraft, recordID string, uploaded map[models.Field]models.StoredDocument) (string, map[models.Field]models.StoredDocument, error) {
	if recordID == "" {
		id, err := w.submitter.CreateRecord(ctx, draft)
		if err != nil {
			return "", nil, fmt.Errorf("failed to create registration: %w", err)
		}
		recordID = id
	} else if err := w.submitter.UpdateRecord(ctx, recordID, draft); err != nil {
		return recordID, nil, fmt.Errorf("failed to update registration: %w", err)
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		docs = make(map[models.Field]models.StoredDocument)
	)
	for _, field := range models.FileFields {
		slot := draft.File(field)
		if !slot.IsPresent() {
			continue
		}
		if prev, done := uploaded[field]; done && sameUpload(prev, slot) {
			continue
		}
		field, slot := field, slot
		g.Go(func() error {
			doc, err := w.submitter.UploadDocument(ctx, recordID, field, slot)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", field, err)
			}
			mu.Lock()
			docs[field] = doc
			mu.Unlock()
			return nil
		})
	}
	uploadErr := g.Wait()

	if len(docs) == 0 {
		return recordID, nil, uploadErr
	}
	if err := w.submitter.AttachDocuments(ctx, recordID, docs); err != nil {
		if uploadErr != nil {
			return recordID, nil, uploadErr
		}
		return recordID, nil, fmt.Errorf("failed to attach documents: %w", err)
	}
	return recordID, docs, uploadErr
}

// sameUpload reports whether slot is the file already stored as prev
func sameUpload(prev models.StoredDocument, slot models.FileSlot) bool {
	return prev.Name == slot.Name && prev.SizeBytes == slot.SizeBytes && prev.MimeType == slot.MimeType
}

// Reset discards the draft and any remembered submission
func (w *StepWizard) Reset() {
	w.mu.Lock()
	w.draft = models.NewRegistrationDraft()
	w.step = 0
	w.lastErrors = nil
	w.recordID = ""
	w.uploaded = make(map[models.Field]models.StoredDocument)
	notify := w.transitionLocked(StatusIdle)
	w.mu.Unlock()
	notify()
}

// transitionLocked sets the status and returns the observer call to run after unlocking
func (w *StepWizard) transitionLocked(to SubmissionStatus) func() {
	from := w.status
	w.status = to
	if w.observer == nil || from == to {
		return func() {}
	}
	observer := w.observer
	return func() { observer(from, to) }
}
