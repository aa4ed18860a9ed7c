package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dermalog/backend/internal/domain"
	"go.uber.org/zap"
)

// DefaultCacheName is the fixed cache name the ingredient map is stored under
const DefaultCacheName = "ingredient_analysis"

// InteractionServiceConfig holds configuration for the interaction service
type InteractionServiceConfig struct {
	CacheName string
	CacheTTL  time.Duration
}

// InteractionAnalyzer produces interaction reports for cached ingredient
// maps. It only ever reads from the cache.
type InteractionAnalyzer struct {
	reader    domain.CacheReader
	recorder  domain.AnalysisRecorder
	logger    *zap.Logger
	cacheName string
}

// NewInteractionAnalyzer creates an analyzer over a read-only cache lookup
func NewInteractionAnalyzer(
	reader domain.CacheReader,
	recorder domain.AnalysisRecorder,
	logger *zap.Logger,
	cacheName string,
) *InteractionAnalyzer {
	if cacheName == "" {
		cacheName = DefaultCacheName
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InteractionAnalyzer{
		reader:    reader,
		recorder:  recorder,
		logger:    logger,
		cacheName: cacheName,
	}
}

// InteractionService adds the write path used by the upstream extraction
// flow on top of InteractionAnalyzer.
type InteractionService struct {
	*InteractionAnalyzer
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewInteractionService creates a new interaction service with dependencies
func NewInteractionService(
	cache domain.CacheRepository,
	recorder domain.AnalysisRecorder,
	logger *zap.Logger,
	config InteractionServiceConfig,
) *InteractionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	return &InteractionService{
		InteractionAnalyzer: NewInteractionAnalyzer(cache, recorder, logger, config.CacheName),
		cache:               cache,
		cacheTTL:            cacheTTL,
	}
}

// Analyze runs the analyzer over an ingredient map supplied by the caller.
func (a *InteractionAnalyzer) Analyze(ctx context.Context, products domain.ProductIngredients) *domain.InteractionReport {
	start := time.Now()
	report := AnalyzeIngredients(products)
	a.recorder.ObserveAnalysis(domain.OutcomeAnalyzed, report, time.Since(start))
	return report
}

// GetInteractions analyzes the cached ingredient map of a profile.
// A missing, unreachable or corrupt cache entry is not an error: the
// returned report has Analyzed set to false and empty lists.
func (a *InteractionAnalyzer) GetInteractions(ctx context.Context, profileID string) (*domain.InteractionReport, error) {
	key, err := a.cacheKey(profileID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	products, err := a.loadIngredients(ctx, key)
	if err != nil {
		outcome := outcomeFor(err)
		switch outcome {
		case domain.OutcomeNotAnalyzed:
			a.logger.Debug("no ingredient analysis cached", zap.String("key", key))
		default:
			a.logger.Warn("ingredient cache read failed, reporting as not analyzed",
				zap.String("key", key),
				zap.String("outcome", string(outcome)),
				zap.Error(err))
		}
		report := domain.NotAnalyzedReport()
		a.recorder.ObserveAnalysis(outcome, report, time.Since(start))
		return report, nil
	}

	report := AnalyzeIngredients(products)
	a.recorder.ObserveAnalysis(domain.OutcomeAnalyzed, report, time.Since(start))

	a.logger.Debug("ingredient interactions analyzed",
		zap.String("key", key),
		zap.Int("products", report.ProductCount),
		zap.Int("categories", len(report.Categories)),
		zap.Int("interactions", len(report.Interactions)))

	return report, nil
}

// GetIngredients returns the cached ingredient map of a profile.
func (s *InteractionService) GetIngredients(ctx context.Context, profileID string) (domain.ProductIngredients, error) {
	key, err := s.cacheKey(profileID)
	if err != nil {
		return nil, err
	}
	return s.loadIngredients(ctx, key)
}

// SaveIngredients replaces the cached ingredient map of a profile.
func (s *InteractionService) SaveIngredients(ctx context.Context, profileID string, products domain.ProductIngredients) error {
	key, err := s.cacheKey(profileID)
	if err != nil {
		return err
	}
	if products == nil {
		return domain.ErrInvalidRequest
	}

	if err := s.cache.Set(ctx, key, products, s.cacheTTL); err != nil {
		s.logger.Error("failed to store ingredient map", zap.String("key", key), zap.Error(err))
		if errors.Is(err, domain.ErrCacheUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	s.logger.Info("ingredient map stored", zap.String("key", key), zap.Int("products", len(products)))
	return nil
}

// ClearIngredients removes the cached ingredient map of a profile.
func (s *InteractionService) ClearIngredients(ctx context.Context, profileID string) error {
	key, err := s.cacheKey(profileID)
	if err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		if errors.Is(err, domain.ErrCacheUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// cacheKey builds the cache key for a profile.
// Format: "{cacheName}:{profileID}"
func (a *InteractionAnalyzer) cacheKey(profileID string) (string, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return "", domain.ErrInvalidRequest
	}
	return fmt.Sprintf("%s:%s", a.cacheName, profileID), nil
}

func (a *InteractionAnalyzer) loadIngredients(ctx context.Context, key string) (domain.ProductIngredients, error) {
	value, err := a.reader.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeIngredients(value)
}

// decodeIngredients converts whatever the cache backend returned into an
// ingredient map. The memory cache hands back decoded JSON, Redis a string.
func decodeIngredients(value interface{}) (domain.ProductIngredients, error) {
	var raw []byte
	switch v := value.(type) {
	case domain.ProductIngredients:
		if v == nil {
			return nil, domain.ErrMalformedIngredients
		}
		return v, nil
	case map[string][]string:
		if v == nil {
			return nil, domain.ErrMalformedIngredients
		}
		return domain.ProductIngredients(v), nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case nil:
		return nil, domain.ErrMalformedIngredients
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedIngredients, err)
		}
		raw = encoded
	}

	var products domain.ProductIngredients
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedIngredients, err)
	}
	if products == nil {
		return nil, domain.ErrMalformedIngredients
	}
	return products, nil
}

func outcomeFor(err error) domain.AnalysisOutcome {
	switch {
	case errors.Is(err, domain.ErrCacheMiss):
		return domain.OutcomeNotAnalyzed
	case errors.Is(err, domain.ErrMalformedIngredients):
		return domain.OutcomeMalformed
	default:
		return domain.OutcomeUnavailable
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveAnalysis(domain.AnalysisOutcome, *domain.InteractionReport, time.Duration) {}
