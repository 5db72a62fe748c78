package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skinlens/backend/internal/domain"
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// AnalysisService runs the normalize, classify and flag pipeline
type AnalysisService struct {
	cache      domain.CacheRepository
	classifier domain.Classifier
	catalog    *Catalog
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewAnalysisService creates a new analysis service. cache and classifier may
// be nil: without a cache every request hits the classifier, and without a
// classifier Analyze fails with domain.ErrClassifierUnavailable.
func NewAnalysisService(
	cache domain.CacheRepository,
	classifier domain.Classifier,
	catalog *Catalog,
	config AnalysisServiceConfig,
) *AnalysisService {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnalysisService{
		cache:      cache,
		classifier: classifier,
		catalog:    catalog,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Catalog returns the flag catalog in use
func (s *AnalysisService) Catalog() *Catalog {
	return s.catalog
}

// Labels returns the classifier's labels, or nil when no classifier is loaded
func (s *AnalysisService) Labels() []string {
	if s.classifier == nil {
		return nil
	}
	return s.classifier.Labels()
}

// Flag normalizes the ingredient list and returns its canonical form with
// the catalog hits. It does not need a classifier.
func (s *AnalysisService) Flag(ingredients *string) (string, []domain.FlagEntry) {
	canonical := NormalizeOptional(ingredients)
	return canonical, Flag(canonical, s.catalog)
}

// Analyze looks up the classification and flags for an ingredient list.
// Flow: normalize -> reject empty -> check cache -> classify -> flag -> cache -> return
func (s *AnalysisService) Analyze(ctx context.Context, ingredients *string) (*domain.Analysis, error) {
	canonical := NormalizeOptional(ingredients)
	if canonical == "" {
		return nil, domain.ErrEmptyIngredients
	}

	cacheKey := "analysis:" + canonical

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = "Cache"
		return cached, nil
	}

	if s.classifier == nil {
		return nil, domain.ErrClassifierUnavailable
	}

	label, probs, err := s.classify(ctx, canonical)
	if err != nil {
		return nil, err
	}

	flags := Flag(canonical, s.catalog)

	analysis := &domain.Analysis{
		Canonical:     canonical,
		Prediction:    label,
		Probabilities: probs,
		Flags:         flags,
		Flagged:       len(flags) > 0,
		Disclaimer:    domain.Disclaimer,
		Source:        "Model",
		AnalyzedAt:    time.Now().UTC(),
	}

	s.logger.Debug("analyzed ingredient list",
		zap.String("canonical", canonical),
		zap.String("prediction", label),
		zap.Int("flags", len(flags)))

	if err := s.setInCache(ctx, cacheKey, analysis); err != nil {
		s.logger.Warn("failed to cache analysis", zap.Error(err))
	}

	return analysis, nil
}

// classify prefers a single combined evaluation so the label and the
// probabilities describe the same model response
func (s *AnalysisService) classify(ctx context.Context, canonical string) (string, []domain.ClassProbability, error) {
	if scorer, ok := s.classifier.(domain.LabelScorer); ok {
		label, probs, err := scorer.Classify(ctx, canonical)
		if err != nil {
			return "", nil, fmt.Errorf("classify: %w", err)
		}
		return label, probs, nil
	}

	label, err := s.classifier.Predict(ctx, canonical)
	if err != nil {
		return "", nil, fmt.Errorf("predict: %w", err)
	}

	probs, err := s.classifier.PredictProba(ctx, canonical)
	if err != nil {
		return "", nil, fmt.Errorf("predict proba: %w", err)
	}
	return label, probs, nil
}

// getFromCache retrieves a previous analysis from cache
func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.Analysis, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var analysis domain.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, domain.ErrCacheMiss
	}

	return &analysis, nil
}

// setInCache stores an analysis in cache
func (s *AnalysisService) setInCache(ctx context.Context, key string, analysis *domain.Analysis) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
