package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// ModelsRepository stores ML model status records.
type ModelsRepository interface {
	ListModels(ctx context.Context) ([]domain.MLModel, error)
	// GetModel fails with ErrNotFound for an unknown name.
	GetModel(ctx context.Context, name string) (*domain.MLModel, error)
	// RecordAccuracy stores the latest evaluation accuracy of a model.
	RecordAccuracy(ctx context.Context, name string, accuracy float64) error
}

type PostgresModelsRepository struct {
	db *sql.DB
}

func NewPostgresModelsRepository(db *sql.DB) *PostgresModelsRepository {
	return &PostgresModelsRepository{db: db}
}

var _ ModelsRepository = (*PostgresModelsRepository)(nil)

const modelColumns = `name, version, status, COALESCE(accuracy, 0), updated_at`

func (r *PostgresModelsRepository) ListModels(ctx context.Context) ([]domain.MLModel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+modelColumns+` FROM ml_models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	out := []domain.MLModel{}
	for rows.Next() {
		var m domain.MLModel
		if err := rows.Scan(&m.Name, &m.Version, &m.Status, &m.Accuracy, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate models: %w", err)
	}
	return out, nil
}

func (r *PostgresModelsRepository) GetModel(ctx context.Context, name string) (*domain.MLModel, error) {
	var m domain.MLModel
	err := r.db.QueryRowContext(ctx, `SELECT `+modelColumns+` FROM ml_models WHERE name = $1`, name).
		Scan(&m.Name, &m.Version, &m.Status, &m.Accuracy, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("model %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query model: %w", err)
	}
	return &m, nil
}

func (r *PostgresModelsRepository) RecordAccuracy(ctx context.Context, name string, accuracy float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE ml_models SET accuracy = $1, updated_at = NOW() WHERE name = $2`, accuracy, name)
	if err != nil {
		return fmt.Errorf("failed to update model accuracy: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update model accuracy: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("model %s: %w", name, ErrNotFound)
	}
	return nil
}

// MemoryModelsRepository holds model records in process.
type MemoryModelsRepository struct {
	mu     sync.RWMutex
	models map[string]domain.MLModel
}

func NewMemoryModelsRepository(seed ...domain.MLModel) *MemoryModelsRepository {
	r := &MemoryModelsRepository{models: map[string]domain.MLModel{}}
	for _, m := range seed {
		r.models[m.Name] = m
	}
	return r
}

var _ ModelsRepository = (*MemoryModelsRepository)(nil)

func (r *MemoryModelsRepository) ListModels(_ context.Context) ([]domain.MLModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.MLModel, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryModelsRepository) GetModel(_ context.Context, name string) (*domain.MLModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("model %s: %w", name, ErrNotFound)
	}
	return &m, nil
}

func (r *MemoryModelsRepository) RecordAccuracy(_ context.Context, name string, accuracy float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[name]
	if !ok {
		return fmt.Errorf("model %s: %w", name, ErrNotFound)
	}
	m.Accuracy = accuracy
	r.models[name] = m
	return nil
}
