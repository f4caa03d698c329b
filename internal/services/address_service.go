package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/nova-solidum/app-onboarding/internal/redisclient"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AddressService resolves a CEP into an address suggestion through ViaCEP,
// caching hits in Redis
type AddressService struct {
	baseURL    string
	httpClient *http.Client
	redis      *redisclient.Client
	ttl        time.Duration
	logger     *logging.SafeLogger
}

// NewAddressService creates a new AddressService instance. redisClient may be nil.
func NewAddressService(baseURL string, httpClient *http.Client, redisClient *redisclient.Client, ttl time.Duration, logger *logging.SafeLogger) *AddressService {
	return &AddressService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		redis:      redisClient,
		ttl:        ttl,
		logger:     logger.Named("address_service"),
	}
}

func addressCacheKey(cep string) string {
	return fmt.Sprintf("address:cep:%s", cep)
}

// LookupCEP returns the address for cep, or (nil, nil) when ViaCEP does not know it
func (s *AddressService) LookupCEP(ctx context.Context, raw string) (*models.AddressSuggestion, error) {
	cep := utils.NormalizeDigits(raw)
	if !utils.ValidateCEP(cep) {
		return nil, utils.NewFieldError(string(models.FieldCEP), MsgInvalidCEP)
	}

	if cached := s.readCache(ctx, cep); cached != nil {
		return cached, nil
	}

	ctx, span := utils.TraceExternalService(ctx, "viacep", "lookup_cep")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", s.baseURL, cep), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build viacep request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, models.NewTransientIOError("cep lookup", models.ErrLookupTimeout)
		}
		return nil, models.NewTransientIOError("cep lookup", err)
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for malformed CEPs and 200 with erro=true for unknown ones
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, models.NewTransientIOError("cep lookup", fmt.Errorf("viacep returned status %d", resp.StatusCode))
	}

	var payload models.ViaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, models.NewTransientIOError("cep lookup", fmt.Errorf("failed to decode viacep response: %w", err))
	}
	if payload.Erro {
		return nil, nil
	}

	suggestion := &models.AddressSuggestion{
		CEP:      cep,
		Street:   payload.Logradouro,
		District: payload.Bairro,
		City:     payload.Localidade,
		State:    payload.UF,
	}
	s.writeCache(ctx, cep, suggestion)
	return suggestion, nil
}

func (s *AddressService) readCache(ctx context.Context, cep string) *models.AddressSuggestion {
	if s.redis == nil {
		return nil
	}
	ctx, span := utils.TraceCacheGet(ctx, addressCacheKey(cep))
	defer span.End()

	cached, err := s.redis.Get(ctx, addressCacheKey(cep)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to read address cache", zap.String("cep", cep), zap.Error(err))
		}
		return nil
	}

	var suggestion models.AddressSuggestion
	if err := json.Unmarshal([]byte(cached), &suggestion); err != nil {
		s.logger.Warn("discarding corrupt address cache entry", zap.String("cep", cep), zap.Error(err))
		return nil
	}
	observability.CacheHits.WithLabelValues("cep_lookup", "redis").Inc()
	return &suggestion
}

func (s *AddressService) writeCache(ctx context.Context, cep string, suggestion *models.AddressSuggestion) {
	if s.redis == nil || s.ttl <= 0 {
		return
	}
	ctx, span := utils.TraceCacheSet(ctx, addressCacheKey(cep), s.ttl)
	defer span.End()

	data, err := json.Marshal(suggestion)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, addressCacheKey(cep), data, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to cache address, continuing without cache", zap.String("cep", cep), zap.Error(err))
	}
}
