package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// MemoryListingsRepository serves the listing route when DB is disabled.
type MemoryListingsRepository struct {
	mu       sync.RWMutex
	listings []domain.PropertyListing
}

func NewMemoryListingsRepository(seed ...domain.PropertyListing) *MemoryListingsRepository {
	return &MemoryListingsRepository{listings: seed}
}

var _ ListingsRepository = (*MemoryListingsRepository)(nil)

func (r *MemoryListingsRepository) ListProperties(_ context.Context, filter domain.ListingFilter, page, size int) ([]domain.PropertyListing, int, error) {
	page, size = NormalizePage(page, size)

	r.mu.RLock()
	all := make([]domain.PropertyListing, 0, len(r.listings))
	for _, l := range r.listings {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Country != "" && !strings.EqualFold(l.Country, filter.Country) {
			continue
		}
		all = append(all, l)
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}
