package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// ListingsRepository pages through the platform's own properties table.
type ListingsRepository interface {
	ListProperties(ctx context.Context, filter domain.ListingFilter, page, size int) ([]domain.PropertyListing, int, error)
}

// PostgresListingsRepository checks out one pooled connection per call and
// returns it before the call ends.
type PostgresListingsRepository struct {
	db *sql.DB
}

func NewPostgresListingsRepository(db *sql.DB) *PostgresListingsRepository {
	return &PostgresListingsRepository{db: db}
}

var _ ListingsRepository = (*PostgresListingsRepository)(nil)

func (r *PostgresListingsRepository) ListProperties(ctx context.Context, filter domain.ListingFilter, page, size int) ([]domain.PropertyListing, int, error) {
	page, size = NormalizePage(page, size)

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	where := []string{}
	args := []any{}
	argN := 1
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, filter.Status)
		argN++
	}
	if filter.Country != "" {
		where = append(where, fmt.Sprintf("country = $%d", argN))
		args = append(args, strings.ToUpper(filter.Country))
		argN++
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties"+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			property_id::text,
			name,
			property_type,
			COALESCE(city, ''),
			country,
			status,
			COALESCE(owner_buffr_id, ''),
			created_at
		FROM properties%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereSQL, argN, argN+1)
	args = append(args, size, (page-1)*size)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	out := []domain.PropertyListing{}
	for rows.Next() {
		var p domain.PropertyListing
		if err := rows.Scan(&p.PropertyID, &p.Name, &p.PropertyType, &p.City, &p.Country, &p.Status, &p.OwnerBuffrID, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return out, total, nil
}

// MaxPageSize caps listing pages.
const MaxPageSize = 100

// DefaultPageSize applies when the caller asks for no size.
const DefaultPageSize = 20

// NormalizePage applies the listing defaults and caps. page is clamped so
// that (page-1)*size cannot overflow; pages past the end come back empty.
func NormalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxPage := math.MaxInt32 / size; page > maxPage {
		page = maxPage
	}
	return page, size
}
