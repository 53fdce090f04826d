package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/apperr"
	"github.com/thependalorian/buffrhost-sub014/internal/domain"
	"github.com/thependalorian/buffrhost-sub014/internal/repository"
)

// PermissionService manages RBAC permissions.
type PermissionService struct {
	permRepo repository.PermissionsRepository
	logger   *zap.Logger
}

func NewPermissionService(permRepo repository.PermissionsRepository, logger *zap.Logger) *PermissionService {
	return &PermissionService{permRepo: permRepo, logger: logger}
}

func (s *PermissionService) ListPermissions(ctx context.Context, filter domain.PermissionFilter) ([]domain.Permission, error) {
	filter.Resource = strings.TrimSpace(filter.Resource)
	filter.Action = strings.TrimSpace(filter.Action)
	perms, err := s.permRepo.ListPermissions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return perms, nil
}

// CreatePermissionRequest is the POST body of the permissions route.
type CreatePermissionRequest struct {
	Name        string `json:"name"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

func (s *PermissionService) CreatePermission(ctx context.Context, req CreatePermissionRequest) (*domain.Permission, error) {
	p := domain.Permission{
		Name:        strings.TrimSpace(req.Name),
		Resource:    strings.TrimSpace(req.Resource),
		Action:      strings.TrimSpace(req.Action),
		Description: strings.TrimSpace(req.Description),
	}
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Resource == "" {
		missing = append(missing, "resource")
	}
	if p.Action == "" {
		missing = append(missing, "action")
	}
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}

	created, err := s.permRepo.CreatePermission(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Validation("permission already exists: %s", p.Name)
		}
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	s.logger.Info("Permission created",
		zap.String("permission_id", created.PermissionID),
		zap.String("name", created.Name),
	)
	return created, nil
}
