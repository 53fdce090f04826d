package repository

import (
	"context"
	"errors"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// PermissionsRepository stores RBAC permissions.
type PermissionsRepository interface {
	ListPermissions(ctx context.Context, filter domain.PermissionFilter) ([]domain.Permission, error)
	// CreatePermission fails with ErrDuplicate when the name is taken.
	CreatePermission(ctx context.Context, p domain.Permission) (*domain.Permission, error)
}
