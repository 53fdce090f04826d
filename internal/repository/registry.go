package repository

import (
	"fmt"
	"strings"
)

// ProjectRegistry is the ordered set of known projects. Fan-outs and lookups
// visit stores in registration order.
type ProjectRegistry struct {
	order  []string
	stores map[string]ProjectStore
}

// NewProjectRegistry registers stores in the given order. Names are matched case-insensitively.
func NewProjectRegistry(stores ...ProjectStore) (*ProjectRegistry, error) {
	r := &ProjectRegistry{stores: make(map[string]ProjectStore, len(stores))}
	for _, s := range stores {
		key := normalizeProjectName(s.Name())
		if key == "" {
			return nil, fmt.Errorf("project store with empty name")
		}
		if _, dup := r.stores[key]; dup {
			return nil, fmt.Errorf("duplicate project: %s", s.Name())
		}
		r.stores[key] = s
		r.order = append(r.order, key)
	}
	return r, nil
}

// Get looks a project up by name.
func (r *ProjectRegistry) Get(name string) (ProjectStore, bool) {
	s, ok := r.stores[normalizeProjectName(name)]
	return s, ok
}

// All returns the stores in registration order.
func (r *ProjectRegistry) All() []ProjectStore {
	out := make([]ProjectStore, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.stores[k])
	}
	return out
}

// Names returns the project names in registration order.
func (r *ProjectRegistry) Names() []string {
	out := make([]string, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.stores[k].Name())
	}
	return out
}

// Resolve maps names to stores, preserving the caller's order. It fails on the
// first unknown or repeated name.
func (r *ProjectRegistry) Resolve(names []string) ([]ProjectStore, error) {
	seen := map[string]bool{}
	out := make([]ProjectStore, 0, len(names))
	for _, n := range names {
		key := normalizeProjectName(n)
		if seen[key] {
			return nil, &DuplicateProjectError{Name: n}
		}
		s, ok := r.stores[key]
		if !ok {
			return nil, &UnknownProjectError{Name: n}
		}
		seen[key] = true
		out = append(out, s)
	}
	return out, nil
}

// UnknownProjectError is returned by Resolve for a name nobody registered.
type UnknownProjectError struct {
	Name string
}

func (e *UnknownProjectError) Error() string {
	return fmt.Sprintf("unknown project: %s", e.Name)
}

// DuplicateProjectError is returned by Resolve when a name is listed twice.
type DuplicateProjectError struct {
	Name string
}

func (e *DuplicateProjectError) Error() string {
	return fmt.Sprintf("duplicate project: %s", e.Name)
}

func normalizeProjectName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
