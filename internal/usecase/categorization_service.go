package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gondola/backend/internal/domain"
)

// CategorizationServiceConfig holds configuration for the categorization service
type CategorizationServiceConfig struct {
	Workers  int
	CacheTTL time.Duration
}

// CategorizationService groups validated product records into categories.
// Signatures are computed on a bounded worker pool; the fold into groups
// stays a single ordered pass.
type CategorizationService struct {
	extractor *SignatureExtractor
	cache     domain.CacheRepository
	logger    *zap.Logger
	workers   int
	cacheTTL  time.Duration
}

// NewCategorizationService creates a new categorization service. cache may be nil.
func NewCategorizationService(
	extractor *SignatureExtractor,
	cache domain.CacheRepository,
	logger *zap.Logger,
	config CategorizationServiceConfig,
) *CategorizationService {
	if extractor == nil {
		extractor = defaultExtractor
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &CategorizationService{
		extractor: extractor,
		cache:     cache,
		logger:    logger,
		workers:   workers,
		cacheTTL:  cacheTTL,
	}
}

// Categorize groups records by signature. Records must already be validated.
// An empty input yields an empty result.
func (s *CategorizationService) Categorize(ctx context.Context, records []domain.ProductRecord) ([]domain.CategoryGroup, error) {
	start := time.Now()

	signatures, err := s.signatures(ctx, records)
	if err != nil {
		return nil, err
	}

	groups := GroupBySignature(records, signatures)

	s.logger.Info("categorization finished",
		zap.Int("records", len(records)),
		zap.Int("categories", len(groups)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return groups, nil
}

// Signature extracts the signature of a single title, bypassing the cache
func (s *CategorizationService) Signature(title string) domain.Signature {
	return s.extractor.Extract(title)
}

// signatures computes one rendered signature per record, in record order
func (s *CategorizationService) signatures(ctx context.Context, records []domain.ProductRecord) ([]string, error) {
	out := make([]string, len(records))
	if len(records) == 0 {
		return out, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)

	chunk := (len(records) + s.workers - 1) / s.workers
	for lo := 0; lo < len(records); lo += chunk {
		lo := lo
		hi := min(lo+chunk, len(records))
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := egCtx.Err(); err != nil {
					return err
				}
				out[i] = s.signatureFor(egCtx, records[i].Title)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("computing signatures: %w", err)
	}
	return out, nil
}

// signatureFor memoizes title -> signature in the cache when one is configured.
// Cache failures only cost a recomputation.
func (s *CategorizationService) signatureFor(ctx context.Context, title string) string {
	if s.cache == nil {
		return s.extractor.Extract(title).String()
	}

	key := signatureCacheKey(title)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		if sig, ok := cached.(string); ok {
			return sig
		}
	}

	sig := s.extractor.Extract(title).String()
	if err := s.cache.Set(ctx, key, sig, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache signature", zap.String("title", title), zap.Error(err))
	}
	return sig
}

// signatureCacheKey keys on the raw title; normalizing first would cost as
// much as extracting the signature.
func signatureCacheKey(title string) string {
	return "signature:" + title
}
