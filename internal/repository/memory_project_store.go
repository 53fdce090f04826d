package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// MemoryProjectStore keeps a project's users and properties in process.
// It backs projects that have no DSN or URL configured.
type MemoryProjectStore struct {
	name string
	now  func() time.Time

	mu         sync.RWMutex
	users      []domain.ProjectUser
	properties []domain.ProjectProperty
}

func NewMemoryProjectStore(name string) *MemoryProjectStore {
	return &MemoryProjectStore{name: name, now: time.Now}
}

var _ ProjectStore = (*MemoryProjectStore)(nil)

func (s *MemoryProjectStore) Name() string { return s.name }

// SeedUsers appends users as-is, tagging them with the project name.
func (s *MemoryProjectStore) SeedUsers(users ...domain.ProjectUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		u.Project = s.name
		s.users = append(s.users, u)
	}
}

// SeedProperties appends properties as-is, tagging them with the project name.
func (s *MemoryProjectStore) SeedProperties(props ...domain.ProjectProperty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range props {
		p.Project = s.name
		s.properties = append(s.properties, p)
	}
}

func userMatches(u domain.ProjectUser, identifier string, kind domain.IdentifierKind) bool {
	switch kind {
	case domain.IdentifierNationalID:
		return u.NationalID == identifier
	case domain.IdentifierPhone:
		return u.PhoneNumber == identifier
	case domain.IdentifierEmail:
		return strings.EqualFold(u.Email, identifier)
	}
	return false
}

func (s *MemoryProjectStore) FindUsers(_ context.Context, identifier string, kind domain.IdentifierKind, country string) ([]domain.ProjectUser, error) {
	if _, err := userMatchExpr(kind); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ProjectUser{}
	for _, u := range s.users {
		if u.Country == country && userMatches(u, identifier, kind) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MemoryProjectStore) FindProperties(_ context.Context, identifier string, kind domain.IdentifierKind, buffrID, country string) ([]domain.ProjectProperty, error) {
	if _, err := userMatchExpr(kind); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := map[string]bool{buffrID: true}
	for _, u := range s.users {
		if userMatches(u, identifier, kind) {
			owners[u.BuffrID] = true
		}
	}
	out := []domain.ProjectProperty{}
	for _, p := range s.properties {
		if p.Country == country && owners[p.OwnerBuffrID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryProjectStore) PropertiesByOwner(_ context.Context, buffrID string) ([]domain.ProjectProperty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ProjectProperty{}
	for _, p := range s.properties {
		if p.OwnerBuffrID == buffrID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryProjectStore) Summary(_ context.Context, buffrID string) (domain.ProjectSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := domain.ProjectSummary{Project: s.name}
	var last time.Time
	for _, u := range s.users {
		if u.BuffrID == buffrID {
			sum.Linked = true
			if u.CreatedAt.After(last) {
				last = u.CreatedAt
			}
		}
	}
	for _, p := range s.properties {
		if p.OwnerBuffrID != buffrID {
			continue
		}
		sum.PropertyCount++
		if p.Status == domain.PropertyStatusActive {
			sum.ActiveProperties++
		}
		if p.CreatedAt.After(last) {
			last = p.CreatedAt
		}
	}
	if !last.IsZero() {
		sum.LastActivity = &last
	}
	return sum, nil
}

func (s *MemoryProjectStore) HasUser(_ context.Context, buffrID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.BuffrID == buffrID && u.Status == domain.UserStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryProjectStore) CreateUser(_ context.Context, buffrID string, in domain.NewUser) (domain.ProjectUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.BuffrID == buffrID {
			return domain.ProjectUser{}, fmt.Errorf("user %s already exists", buffrID)
		}
	}
	u := domain.ProjectUser{
		Project:     s.name,
		BuffrID:     buffrID,
		NationalID:  in.NationalID,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		FullName:    in.FullName,
		Country:     in.Country,
		Status:      domain.UserStatusActive,
		CreatedAt:   s.now().UTC(),
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemoryProjectStore) CreateProperty(_ context.Context, in domain.NewProperty) (domain.ProjectProperty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.ProjectProperty{
		Project:      s.name,
		PropertyID:   uuid.NewString(),
		OwnerBuffrID: in.OwnerBuffrID,
		Name:         in.PropertyName,
		PropertyType: in.PropertyType,
		Country:      in.Country,
		Address:      in.Address,
		Status:       domain.PropertyStatusActive,
		CreatedAt:    s.now().UTC(),
	}
	s.properties = append(s.properties, p)
	return p, nil
}

func (s *MemoryProjectStore) UpdateUser(_ context.Context, buffrID string, upd domain.ProfileUpdate) (int, error) {
	if upd.IsEmpty() {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for i := range s.users {
		u := &s.users[i]
		if u.BuffrID != buffrID {
			continue
		}
		if upd.FullName != "" {
			u.FullName = upd.FullName
		}
		if upd.Email != "" {
			u.Email = upd.Email
		}
		if upd.PhoneNumber != "" {
			u.PhoneNumber = upd.PhoneNumber
		}
		if upd.Country != "" {
			u.Country = upd.Country
		}
		if upd.Status != "" {
			u.Status = upd.Status
		}
		n++
	}
	return n, nil
}
