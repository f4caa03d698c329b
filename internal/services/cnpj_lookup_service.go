package services

import (
	"context"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"go.uber.org/zap"
)

// DefaultLookupTimeout bounds the registry fetch
const DefaultLookupTimeout = 4000 * time.Millisecond

// CNPJLookupService resolves a CNPJ through the cache and the registry and
// writes one audit entry per call. Cache and audit failures never fail a lookup.
type CNPJLookupService struct {
	cache    CNPJCache
	registry RegistryClient
	audit    utils.AuditQueue[models.CNPJLookupLog]
	ttl      time.Duration
	timeout  time.Duration
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewCNPJLookupService creates the lookup pipeline. cache and audit may be nil.
func NewCNPJLookupService(cache CNPJCache, registry RegistryClient, audit utils.AuditQueue[models.CNPJLookupLog], ttl, timeout time.Duration, logger *logging.SafeLogger) *CNPJLookupService {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &CNPJLookupService{
		cache:    cache,
		registry: registry,
		audit:    audit,
		ttl:      ttl,
		timeout:  timeout,
		logger:   logger.Named("cnpj_lookup_service"),
		now:      time.Now,
	}
}

// Lookup returns the company for raw, which may carry any punctuation.
// A company the registry does not know is (nil, nil). An invalid id fails with
// *utils.ValidationErrors before any cache or network access.
func (s *CNPJLookupService) Lookup(ctx context.Context, raw string, actor models.Identity) (result *models.CNPJData, err error) {
	start := s.now()
	cnpj := utils.NormalizeDigits(raw)

	ctx, span := utils.TraceBusinessLogic(ctx, "cnpj_lookup")
	defer span.End()

	outcome := models.CNPJLookupNotFound
	var source models.CNPJSource

	defer func() {
		latency := s.now().Sub(start)
		if err != nil {
			outcome = models.CNPJLookupError
			utils.RecordErrorInSpan(span, err, map[string]interface{}{"cnpj.outcome": string(outcome)})
		}
		observability.CNPJLookups.WithLabelValues(string(outcome), string(source)).Inc()
		observability.CNPJLookupDuration.WithLabelValues(string(outcome)).Observe(latency.Seconds())

		entry := models.CNPJLookupLog{
			UserID:       actor.ID,
			UserEmail:    actor.Email,
			CNPJ:         cnpj,
			SearchedAt:   start.UTC(),
			ResultStatus: outcome,
			SourceUsed:   source,
			LatencyMs:    latency.Milliseconds(),
		}
		if err != nil {
			entry.ErrorMessage = err.Error()
		}
		s.writeAudit(ctx, entry)

		s.logger.Info("cnpj lookup completed",
			zap.String("cnpj", observability.MaskCNPJ(cnpj)),
			zap.String("outcome", string(outcome)),
			zap.String("source", string(source)),
			zap.Int64("latency_ms", latency.Milliseconds()))
	}()

	if len(cnpj) != 14 || !utils.ValidateCNPJ(cnpj) {
		return nil, utils.NewFieldError(string(models.FieldCNPJ), MsgInvalidCNPJ)
	}

	if entry := s.readCache(ctx, cnpj); entry != nil {
		source = models.CNPJSourceCache
		outcome = models.CNPJLookupFound
		payload := entry.Payload.Copy()
		payload.Fonte = models.CNPJSourceCache
		return payload, nil
	}

	source = models.CNPJSourceRegistryAPI
	rawPayload, err := s.fetch(ctx, cnpj)
	if err != nil {
		return nil, err
	}
	if rawPayload == nil {
		return nil, nil
	}

	data := TransformRegistryResponse(rawPayload, cnpj, s.now())
	s.writeCache(ctx, cnpj, data)

	outcome = models.CNPJLookupFound
	return data, nil
}

// readCache returns a live entry or nil. Read errors count as a miss.
func (s *CNPJLookupService) readCache(ctx context.Context, cnpj string) *models.CNPJCacheEntry {
	if s.cache == nil {
		return nil
	}
	entry, err := s.cache.Get(ctx, cnpj)
	if err != nil {
		s.logger.Warn("failed to read cnpj cache",
			zap.String("cnpj", observability.MaskCNPJ(cnpj)),
			zap.Error(err))
		return nil
	}
	if entry == nil {
		return nil
	}
	if !entry.IsLive(s.now()) {
		s.logger.Debug("cnpj cache entry expired",
			zap.String("cnpj", observability.MaskCNPJ(cnpj)),
			zap.Time("expires_at", entry.ExpiresAt))
		return nil
	}
	return entry
}

// fetch calls the registry under the lookup timeout
func (s *CNPJLookupService) fetch(ctx context.Context, cnpj string) (*models.BrasilAPICNPJ, error) {
	if s.registry == nil {
		return nil, &models.ConfigurationError{Component: "registry client"}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.registry.FetchByID(fetchCtx, cnpj)
	if err == nil {
		return raw, nil
	}
	if isTimeout(fetchCtx, err) {
		return nil, models.NewTransientIOError("registry lookup", models.ErrLookupTimeout)
	}
	if models.IsTransient(err) {
		return nil, err
	}
	return nil, models.NewTransientIOError("registry lookup", err)
}

// writeCache stores a fresh payload. Failures are logged and ignored.
func (s *CNPJLookupService) writeCache(ctx context.Context, cnpj string, data *models.CNPJData) {
	if s.cache == nil {
		return
	}
	now := s.now().UTC()
	entry := &models.CNPJCacheEntry{
		CNPJ:      cnpj,
		Payload:   *data.Copy(),
		Source:    models.CNPJSourceRegistryAPI,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.logger.Warn("failed to write cnpj cache",
			zap.String("cnpj", observability.MaskCNPJ(cnpj)),
			zap.Error(err))
	}
}

// writeAudit enqueues the lookup log. Failures are logged and ignored.
func (s *CNPJLookupService) writeAudit(ctx context.Context, entry models.CNPJLookupLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Enqueue(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("failed to write cnpj lookup log",
			zap.String("cnpj", observability.MaskCNPJ(entry.CNPJ)),
			zap.Error(err))
	}
}
