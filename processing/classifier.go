package processing

import (
	"context"

	"go.uber.org/zap"

	"photolabel/config"
)

// Classifier tags an image with the object labels a model recognises in it, most likely first.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, raw []byte) ([]string, error)
}

// ClassifierFunc adapts a plain function to Classifier
type ClassifierFunc func(ctx context.Context, raw []byte) ([]string, error)

func (f ClassifierFunc) Classify(ctx context.Context, raw []byte) ([]string, error) {
	return f(ctx, raw)
}

// NopClassifier is used when no model is configured. It still rejects undecodable input.
type NopClassifier struct {
	InputSize uint
	MaxPixels int64
}

func (n NopClassifier) Classify(_ context.Context, raw []byte) ([]string, error) {
	if _, err := Normalize(raw, n.InputSize, n.MaxPixels); err != nil {
		return nil, err
	}
	return []string{}, nil
}

// New returns the classifier described by cfg
func New(cfg config.Classifier, log *zap.Logger) Classifier {
	if cfg.URL == "" {
		log.Warn("CLASSIFIER_URL is not set, uploaded images will not be labelled")
		return NopClassifier{InputSize: cfg.InputSize, MaxPixels: cfg.MaxPixels}
	}
	log.Info("using remote classifier", zap.String("url", cfg.URL))
	return NewHTTPClassifier(cfg, log)
}
