package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/nova-solidum/app-onboarding/internal/storage"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"go.uber.org/zap"
)

const (
	// DefaultListLimit is how many registrations the admin list shows
	DefaultListLimit = 20
	maxListLimit     = 100

	fieldStatus    = "status"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
	fieldDocuments = "documents"
)

// RegistrationService persists registrations and their documents, and serves
// the admin review operations
type RegistrationService struct {
	store      storage.DocumentStore
	blobs      storage.BlobStore
	collection string
	auditLogs  utils.AuditQueue[models.AuditLog]
	logger     *logging.SafeLogger
	now        func() time.Time
}

// NewRegistrationService creates a registration service. store and blobs may be
// nil; operations needing them then fail with a ConfigurationError.
func NewRegistrationService(store storage.DocumentStore, blobs storage.BlobStore, collection string, auditLogs utils.AuditQueue[models.AuditLog], logger *logging.SafeLogger) *RegistrationService {
	return &RegistrationService{
		store:      store,
		blobs:      blobs,
		collection: collection,
		auditLogs:  auditLogs,
		logger:     logger.Named("registration_service"),
		now:        time.Now,
	}
}

func (s *RegistrationService) requireStore() error {
	if s.store == nil {
		return &models.ConfigurationError{Component: "document store"}
	}
	return nil
}

// BlobPath is the object key of a document slot. It is stable per record and
// slot, so retrying an upload overwrites instead of duplicating.
func BlobPath(recordID string, field models.Field, fileName string) string {
	return fmt.Sprintf("registrations/%s/%s-%s", recordID, field, storage.SanitizeBlobName(fileName))
}

// CreateRecord stores the draft values with status pending
func (s *RegistrationService) CreateRecord(ctx context.Context, draft *models.RegistrationDraft) (string, error) {
	if err := s.requireStore(); err != nil {
		return "", err
	}
	ctx, span := utils.TraceDatabaseOperation(ctx, "create", s.collection)
	defer span.End()

	now := s.now().UTC()
	data := draft.RecordPayload()
	data[fieldStatus] = string(models.RegistrationStatusPending)
	data[fieldCreatedAt] = now
	data[fieldUpdatedAt] = now

	id, err := s.store.Create(ctx, s.collection, data)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return "", models.NewTransientIOError("create registration", err)
	}

	s.logger.Info("registration created",
		zap.String("record_id", id),
		zap.String("account_type", string(draft.AccountType)))
	s.logger.Debug("registration payload",
		zap.String("record_id", id),
		zap.String("cpf", observability.MaskCPF(utils.NormalizeDigits(draft.Get(models.FieldCPF)))),
		zap.Any("fields", observability.MaskSensitiveData(data)))
	return id, nil
}

// UpdateRecord rewrites the draft values of an existing record, as a retried
// submission does. Fields cleared since the record was created are blanked.
func (s *RegistrationService) UpdateRecord(ctx context.Context, recordID string, draft *models.RegistrationDraft) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	ctx, span := utils.TraceDatabaseOperation(ctx, "update", s.collection)
	defer span.End()

	patch := storage.Document(draft.RecordPayload())
	for field, value := range draft.Text {
		if value == "" {
			patch[string(field)] = ""
		}
	}
	patch[fieldUpdatedAt] = s.now().UTC()

	if err := s.store.Update(ctx, s.collection, recordID, patch); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return models.ErrRegistrationNotFound
		}
		return models.NewTransientIOError("update registration", err)
	}

	s.logger.Info("registration values refreshed",
		zap.String("record_id", recordID),
		zap.String("account_type", string(draft.AccountType)))
	return nil
}

// UploadDocument stores one document slot under the record's folder
func (s *RegistrationService) UploadDocument(ctx context.Context, recordID string, field models.Field, slot models.FileSlot) (models.StoredDocument, error) {
	if s.blobs == nil {
		return models.StoredDocument{}, &models.ConfigurationError{Component: "blob store"}
	}

	path := BlobPath(recordID, field, slot.Name)
	ctx, span := utils.TraceBlobOperation(ctx, "upload", path)
	defer span.End()

	ref, err := s.blobs.Upload(ctx, path, slot.Bytes, slot.MimeType)
	if err != nil {
		observability.DocumentUploads.WithLabelValues(string(field), "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"document.field": string(field)})
		return models.StoredDocument{}, models.NewTransientIOError("upload "+string(field), err)
	}
	observability.DocumentUploads.WithLabelValues(string(field), "success").Inc()

	return models.StoredDocument{
		Field:      field,
		Name:       slot.Name,
		MimeType:   slot.MimeType,
		SizeBytes:  slot.SizeBytes,
		Path:       ref.Path,
		UploadedAt: s.now().UTC(),
	}, nil
}

// AttachDocuments records uploaded slots on the registration
func (s *RegistrationService) AttachDocuments(ctx context.Context, recordID string, documents map[models.Field]models.StoredDocument) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	if len(documents) == 0 {
		return nil
	}
	ctx, span := utils.TraceDatabaseOperation(ctx, "attach_documents", s.collection)
	defer span.End()

	patch := storage.Document{fieldUpdatedAt: s.now().UTC()}
	for field, doc := range documents {
		encoded, err := storage.ToDocument(doc)
		if err != nil {
			return err
		}
		patch[fieldDocuments+"."+string(field)] = encoded
	}

	if err := s.store.Update(ctx, s.collection, recordID, patch); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return models.ErrRegistrationNotFound
		}
		return models.NewTransientIOError("attach documents", err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func latestQuery(limit int) storage.Query {
	return storage.Query{OrderBy: fieldCreatedAt, Desc: true, Limit: clampLimit(limit)}
}

// List returns the newest registrations first
func (s *RegistrationService) List(ctx context.Context, limit int) ([]models.RegistrationRecord, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	ctx, span := utils.TraceDatabaseOperation(ctx, "list", s.collection)
	defer span.End()

	records, err := s.store.Query(ctx, s.collection, latestQuery(limit))
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, models.NewTransientIOError("list registrations", err)
	}
	return s.toRecords(records), nil
}

// Watch streams the newest registrations whenever the collection changes
func (s *RegistrationService) Watch(ctx context.Context, limit int, onChange func([]models.RegistrationRecord)) (func(), error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.store.Watch(ctx, s.collection, latestQuery(limit), func(records []storage.Record) {
		onChange(s.toRecords(records))
	})
}

// Get returns one registration with download URLs for its documents
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.RegistrationRecord, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	ctx, span := utils.TraceDatabaseOperation(ctx, "get", s.collection)
	defer span.End()

	doc, err := s.store.Get(ctx, s.collection, id)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		return nil, models.ErrRegistrationNotFound
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, models.NewTransientIOError("get registration", err)
	}

	record := s.toRecord(id, doc)
	if s.blobs != nil {
		for field, stored := range record.Documents {
			url, err := s.blobs.URL(ctx, storage.BlobRef{Path: stored.Path, ContentType: stored.MimeType, Size: stored.SizeBytes})
			if err != nil {
				s.logger.Warn("failed to sign document url",
					zap.String("record_id", id),
					zap.String("field", string(field)),
					zap.Error(err))
				continue
			}
			stored.URL = url
			record.Documents[field] = stored
		}
	}
	return &record, nil
}

// UpdateStatus moves a registration to pending, approved or rejected and
// records an audit entry for the change
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus, audit utils.AuditContext) (*models.RegistrationRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	ctx, span := utils.TraceDatabaseOperation(ctx, "update_status", s.collection)
	defer span.End()

	current, err := s.store.Get(ctx, s.collection, id)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		return nil, models.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, models.NewTransientIOError("get registration", err)
	}
	oldStatus, _ := current[fieldStatus].(string)

	now := s.now().UTC()
	if err := s.store.Update(ctx, s.collection, id, storage.Document{fieldStatus: string(status), fieldUpdatedAt: now}); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return nil, models.ErrRegistrationNotFound
		}
		return nil, models.NewTransientIOError("update registration status", err)
	}

	s.logger.Info("registration status updated",
		zap.String("record_id", id),
		zap.String("old_status", oldStatus),
		zap.String("new_status", string(status)),
		zap.String("admin", observability.MaskEmail(audit.UserEmail)))

	s.recordAudit(ctx, models.AuditLog{
		ID:         uuid.NewString(),
		Action:     utils.AuditActionUpdate,
		Resource:   utils.AuditResourceRegistration,
		ResourceID: id,
		UserID:     audit.UserID,
		UserEmail:  audit.UserEmail,
		OldValue:   map[string]interface{}{fieldStatus: oldStatus},
		NewValue:   map[string]interface{}{fieldStatus: string(status)},
		IPAddress:  audit.IPAddress,
		UserAgent:  audit.UserAgent,
		RequestID:  audit.RequestID,
		Timestamp:  now,
	})

	current[fieldStatus] = string(status)
	current[fieldUpdatedAt] = now
	record := s.toRecord(id, current)
	return &record, nil
}

// recordAudit enqueues an audit entry. Failures are logged and ignored.
func (s *RegistrationService) recordAudit(ctx context.Context, entry models.AuditLog) {
	if s.auditLogs == nil {
		return
	}
	if err := s.auditLogs.Enqueue(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit log",
			zap.String("resource_id", entry.ResourceID),
			zap.Error(err))
	}
}

// Stats counts registrations by status and those created this month
func (s *RegistrationService) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	ctx, span := utils.TraceDatabaseOperation(ctx, "stats", s.collection)
	defer span.End()

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &models.RegistrationStats{}
	counts := []struct {
		target  *int64
		filters []storage.Filter
	}{
		{&stats.Total, nil},
		{&stats.Pending, []storage.Filter{storage.Eq(fieldStatus, string(models.RegistrationStatusPending))}},
		{&stats.Approved, []storage.Filter{storage.Eq(fieldStatus, string(models.RegistrationStatusApproved))}},
		{&stats.Rejected, []storage.Filter{storage.Eq(fieldStatus, string(models.RegistrationStatusRejected))}},
		{&stats.ThisMonth, []storage.Filter{{Field: fieldCreatedAt, Op: storage.OpGte, Value: monthStart}}},
	}

	for _, c := range counts {
		n, err := s.store.Count(ctx, s.collection, c.filters)
		if err != nil {
			utils.RecordErrorInSpan(span, err, nil)
			return nil, models.NewTransientIOError("count registrations", err)
		}
		*c.target = n
	}
	return stats, nil
}

func (s *RegistrationService) toRecords(records []storage.Record) []models.RegistrationRecord {
	out := make([]models.RegistrationRecord, 0, len(records))
	for _, r := range records {
		out = append(out, s.toRecord(r.ID, r.Data))
	}
	return out
}

// toRecord splits a stored document into the record envelope and its form values
func (s *RegistrationService) toRecord(id string, doc storage.Document) models.RegistrationRecord {
	record := models.RegistrationRecord{
		ID:   id,
		Data: make(map[string]interface{}, len(doc)),
	}

	for key, value := range doc {
		switch key {
		case fieldStatus:
			status, _ := value.(string)
			record.Status = models.RegistrationStatus(status)
		case fieldCreatedAt:
			record.CreatedAt, _ = value.(time.Time)
		case fieldUpdatedAt:
			record.UpdatedAt, _ = value.(time.Time)
		case fieldDocuments:
			record.Documents = s.decodeDocuments(id, value)
		default:
			record.Data[key] = value
		}
	}

	if accountType, ok := doc[string(models.FieldAccountType)].(string); ok {
		record.AccountType = models.AccountType(accountType)
	}
	return record
}

func (s *RegistrationService) decodeDocuments(id string, value interface{}) map[models.Field]models.StoredDocument {
	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	documents := make(map[models.Field]models.StoredDocument, len(raw))
	for field, item := range raw {
		doc, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		var stored models.StoredDocument
		if err := storage.FromDocument(doc, &stored); err != nil {
			s.logger.Warn("skipping malformed document reference",
				zap.String("record_id", id),
				zap.String("field", field),
				zap.Error(err))
			continue
		}
		documents[models.Field(field)] = stored
	}
	return documents
}
