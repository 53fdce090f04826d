package repository

import (
	"context"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// ProjectStore is one project's user and property store.
// Implementations only read and write that project's own tables; merging
// across projects is the service layer's job.
type ProjectStore interface {
	// Name is the project name used in requests and results.
	Name() string

	// FindUsers returns users whose identifier column (by kind) equals identifier in country.
	FindUsers(ctx context.Context, identifier string, kind domain.IdentifierKind, country string) ([]domain.ProjectUser, error)
	// FindProperties returns properties owned by buffrID, or by any user matching identifier, in country.
	FindProperties(ctx context.Context, identifier string, kind domain.IdentifierKind, buffrID, country string) ([]domain.ProjectProperty, error)
	// PropertiesByOwner returns every property owned by buffrID.
	PropertiesByOwner(ctx context.Context, buffrID string) ([]domain.ProjectProperty, error)
	// Summary returns dashboard counters for buffrID.
	Summary(ctx context.Context, buffrID string) (domain.ProjectSummary, error)
	// HasUser reports whether an active user with buffrID exists.
	HasUser(ctx context.Context, buffrID string) (bool, error)

	// CreateUser inserts u under buffrID.
	CreateUser(ctx context.Context, buffrID string, u domain.NewUser) (domain.ProjectUser, error)
	// CreateProperty inserts p.
	CreateProperty(ctx context.Context, p domain.NewProperty) (domain.ProjectProperty, error)
	// UpdateUser applies the non-empty fields of upd to every record with buffrID.
	UpdateUser(ctx context.Context, buffrID string, upd domain.ProfileUpdate) (int, error)
}
