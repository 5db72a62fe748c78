package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored as opaque encoded bytes.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Classifier is a pretrained text classifier over canonical ingredient strings
type Classifier interface {
	Predict(ctx context.Context, canonical string) (string, error)
	PredictProba(ctx context.Context, canonical string) ([]ClassProbability, error)
	Labels() []string
}

// LabelScorer is implemented by classifiers that produce the label and the
// probabilities from one evaluation
type LabelScorer interface {
	Classify(ctx context.Context, canonical string) (string, []ClassProbability, error)
}
