package domain

import (
	"context"
	"time"
)

// CacheReader is the read-only lookup usecase.InteractionAnalyzer depends on
type CacheReader interface {
	Get(ctx context.Context, key string) (interface{}, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	CacheReader
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AnalysisRecorder receives the outcome of every interaction analysis pass
type AnalysisRecorder interface {
	ObserveAnalysis(outcome AnalysisOutcome, report *InteractionReport, elapsed time.Duration)
}
