package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/apperr"
	"github.com/thependalorian/buffrhost-sub014/internal/domain"
	"github.com/thependalorian/buffrhost-sub014/internal/repository"
	"github.com/thependalorian/buffrhost-sub014/internal/store"
)

// ErrServiceClosed is returned after Close.
var ErrServiceClosed = errors.New("model service closed")

const modelCachePrefix = "ml:model:"

// ModelService serves ML model status and evaluation. Status reads go through
// the KV cache; Init warms it and Close drops the entries it wrote.
type ModelService struct {
	repo   repository.ModelsRepository
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger

	mu     sync.Mutex
	cached map[string]struct{}
	closed bool
}

func NewModelService(repo repository.ModelsRepository, kv store.KV, ttl time.Duration, logger *zap.Logger) *ModelService {
	return &ModelService{
		repo:   repo,
		kv:     kv,
		ttl:    ttl,
		logger: logger,
		cached: map[string]struct{}{},
	}
}

func modelCacheKey(name string) string { return modelCachePrefix + name }

// Init loads every model into the cache.
func (s *ModelService) Init(ctx context.Context) error {
	models, err := s.repo.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}
	for i := range models {
		s.cache(ctx, &models[i])
	}
	s.logger.Info("Model service initialized", zap.Int("models", len(models)))
	return nil
}

// Close evicts cached entries. Later calls fail with ErrServiceClosed.
func (s *ModelService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	keys := make([]string, 0, len(s.cached))
	for k := range s.cached {
		keys = append(keys, k)
	}
	s.cached = map[string]struct{}{}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to evict model cache: %w", err)
	}
	return nil
}

func (s *ModelService) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServiceClosed
	}
	return nil
}

func (s *ModelService) ListModels(ctx context.Context) ([]domain.MLModel, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	models, err := s.repo.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return models, nil
}

// GetModel returns a model's status; unknown names are NotFound.
func (s *ModelService) GetModel(ctx context.Context, name string) (*domain.MLModel, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.Validation("model name is required")
	}

	var m domain.MLModel
	err := store.GetJSON(ctx, s.kv, modelCacheKey(name), &m)
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, store.ErrMiss) {
		s.logger.Warn("Model cache read failed", zap.String("model", name), zap.Error(err))
	}

	found, err := s.repo.GetModel(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("model", name)
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	s.cache(ctx, found)
	return found, nil
}

// EvaluateRequest holds binary predictions and ground truth labels (0 or 1).
type EvaluateRequest struct {
	Predictions []int `json:"predictions"`
	Labels      []int `json:"labels"`
}

// Evaluate scores predictions against labels and records the accuracy on the model.
func (s *ModelService) Evaluate(ctx context.Context, name string, req EvaluateRequest) (*domain.ModelEvaluation, error) {
	if len(req.Predictions) == 0 || len(req.Labels) == 0 {
		return nil, apperr.MissingFields("predictions", "labels")
	}
	if len(req.Predictions) != len(req.Labels) {
		return nil, apperr.Validation("predictions and labels must have the same length (%d != %d)", len(req.Predictions), len(req.Labels))
	}
	if _, err := s.GetModel(ctx, name); err != nil {
		return nil, err
	}

	ev, err := Score(req.Predictions, req.Labels)
	if err != nil {
		return nil, err
	}
	ev.Model = name

	if err := s.repo.RecordAccuracy(ctx, name, ev.Accuracy); err != nil {
		return nil, fmt.Errorf("failed to record accuracy: %w", err)
	}
	if err := s.kv.Delete(ctx, modelCacheKey(name)); err != nil {
		s.logger.Warn("Model cache eviction failed", zap.String("model", name), zap.Error(err))
	}
	return ev, nil
}

// Score computes binary classification metrics. Ratios with a zero
// denominator are 0.
func Score(predictions, labels []int) (*domain.ModelEvaluation, error) {
	if len(predictions) != len(labels) {
		return nil, apperr.Validation("predictions and labels must have the same length (%d != %d)", len(predictions), len(labels))
	}
	ev := &domain.ModelEvaluation{Samples: len(labels)}
	for i := range labels {
		p, l := predictions[i], labels[i]
		if (p != 0 && p != 1) || (l != 0 && l != 1) {
			return nil, apperr.Validation("predictions and labels must be 0 or 1 (index %d)", i)
		}
		switch {
		case p == 1 && l == 1:
			ev.TruePositives++
		case p == 1 && l == 0:
			ev.FalsePositives++
		case p == 0 && l == 0:
			ev.TrueNegatives++
		default:
			ev.FalseNegatives++
		}
	}
	ev.Accuracy = ratio(ev.TruePositives+ev.TrueNegatives, ev.Samples)
	ev.Precision = ratio(ev.TruePositives, ev.TruePositives+ev.FalsePositives)
	ev.Recall = ratio(ev.TruePositives, ev.TruePositives+ev.FalseNegatives)
	if ev.Precision+ev.Recall > 0 {
		ev.F1 = 2 * ev.Precision * ev.Recall / (ev.Precision + ev.Recall)
	}
	return ev, nil
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func (s *ModelService) cache(ctx context.Context, m *domain.MLModel) {
	key := modelCacheKey(m.Name)
	if err := store.SetJSON(ctx, s.kv, key, m, s.ttl); err != nil {
		s.logger.Warn("Model cache write failed", zap.String("model", m.Name), zap.Error(err))
		return
	}
	s.mu.Lock()
	s.cached[key] = struct{}{}
	s.mu.Unlock()
}
