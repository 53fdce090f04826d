package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// MemoryPermissionsRepository serves RBAC permissions when DB is disabled.
type MemoryPermissionsRepository struct {
	mu    sync.RWMutex
	perms map[string]domain.Permission // name -> permission
}

func NewMemoryPermissionsRepository() *MemoryPermissionsRepository {
	return &MemoryPermissionsRepository{perms: map[string]domain.Permission{}}
}

var _ PermissionsRepository = (*MemoryPermissionsRepository)(nil)

func (r *MemoryPermissionsRepository) ListPermissions(_ context.Context, filter domain.PermissionFilter) ([]domain.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Permission{}
	for _, p := range r.perms {
		if filter.Resource != "" && p.Resource != filter.Resource {
			continue
		}
		if filter.Action != "" && p.Action != filter.Action {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryPermissionsRepository) CreatePermission(_ context.Context, p domain.Permission) (*domain.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.perms[p.Name]; ok {
		return nil, fmt.Errorf("permission %s: %w", p.Name, ErrDuplicate)
	}
	p.PermissionID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	r.perms[p.Name] = p
	return &p, nil
}
