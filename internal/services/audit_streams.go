package services

import (
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/storage"
	"github.com/nova-solidum/app-onboarding/internal/utils"
)

// NewLookupAuditWorker batches CNPJ lookup logs into collection
func NewLookupAuditWorker(store storage.DocumentStore, collection string, workers, buffer int, logger *logging.SafeLogger) *utils.AuditWorker[models.CNPJLookupLog] {
	sink := storage.NewCollectionSink[models.CNPJLookupLog](store, collection)
	return utils.NewAuditWorker[models.CNPJLookupLog]("cnpj_lookup_logs", sink, workers, buffer, logger)
}

// NewAdminAuditWorker batches admin action logs into collection
func NewAdminAuditWorker(store storage.DocumentStore, collection string, workers, buffer int, logger *logging.SafeLogger) *utils.AuditWorker[models.AuditLog] {
	sink := storage.NewCollectionSink[models.AuditLog](store, collection)
	return utils.NewAuditWorker[models.AuditLog]("audit_logs", sink, workers, buffer, logger)
}
