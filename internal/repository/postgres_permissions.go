package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// PostgresPermissionsRepository is the permissions table of the platform database.
type PostgresPermissionsRepository struct {
	db *sql.DB
}

func NewPostgresPermissionsRepository(db *sql.DB) *PostgresPermissionsRepository {
	return &PostgresPermissionsRepository{db: db}
}

var _ PermissionsRepository = (*PostgresPermissionsRepository)(nil)

func (r *PostgresPermissionsRepository) ListPermissions(ctx context.Context, filter domain.PermissionFilter) ([]domain.Permission, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if filter.Resource != "" {
		where = append(where, fmt.Sprintf("resource = $%d", argN))
		args = append(args, filter.Resource)
		argN++
	}
	if filter.Action != "" {
		where = append(where, fmt.Sprintf("action = $%d", argN))
		args = append(args, filter.Action)
		argN++
	}

	query := `
		SELECT
			permission_id::text,
			name,
			resource,
			action,
			COALESCE(description, ''),
			created_at
		FROM permissions`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY resource, action, name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query permissions: %w", err)
	}
	defer rows.Close()

	out := []domain.Permission{}
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.PermissionID, &p.Name, &p.Resource, &p.Action, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate permissions: %w", err)
	}
	return out, nil
}

func (r *PostgresPermissionsRepository) CreatePermission(ctx context.Context, p domain.Permission) (*domain.Permission, error) {
	query := `
		INSERT INTO permissions (name, resource, action, description)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING permission_id::text, created_at
	`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Resource, p.Action, p.Description).
		Scan(&p.PermissionID, &p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, fmt.Errorf("permission %s: %w", p.Name, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	return &p, nil
}
