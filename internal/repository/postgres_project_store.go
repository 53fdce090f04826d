package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// PostgresProjectStore reads and writes one project's users and properties
// tables over lib/pq.
type PostgresProjectStore struct {
	name string
	db   *sql.DB
}

// NewPostgresProjectStore binds a project name to its database.
func NewPostgresProjectStore(name string, db *sql.DB) *PostgresProjectStore {
	return &PostgresProjectStore{name: name, db: db}
}

var _ ProjectStore = (*PostgresProjectStore)(nil)

func (s *PostgresProjectStore) Name() string { return s.name }

// userMatchExpr is the users column an identifier kind is compared with.
func userMatchExpr(kind domain.IdentifierKind) (string, error) {
	switch kind {
	case domain.IdentifierNationalID:
		return "national_id", nil
	case domain.IdentifierPhone:
		return "phone_number", nil
	case domain.IdentifierEmail:
		return "lower(email)", nil
	default:
		return "", fmt.Errorf("unsupported identifier kind: %s", kind)
	}
}

func (s *PostgresProjectStore) FindUsers(ctx context.Context, identifier string, kind domain.IdentifierKind, country string) ([]domain.ProjectUser, error) {
	expr, err := userMatchExpr(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			buffr_id,
			COALESCE(national_id, ''),
			COALESCE(phone_number, ''),
			COALESCE(email, ''),
			full_name,
			country,
			status,
			created_at
		FROM users
		WHERE %s = $1 AND country = $2
		ORDER BY created_at
	`, expr)

	rows, err := s.db.QueryContext(ctx, query, identifier, country)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.ProjectUser{}
	for rows.Next() {
		u := domain.ProjectUser{Project: s.name}
		if err := rows.Scan(&u.BuffrID, &u.NationalID, &u.PhoneNumber, &u.Email, &u.FullName, &u.Country, &u.Status, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (s *PostgresProjectStore) FindProperties(ctx context.Context, identifier string, kind domain.IdentifierKind, buffrID, country string) ([]domain.ProjectProperty, error) {
	expr, err := userMatchExpr(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			property_id::text,
			owner_buffr_id,
			property_name,
			property_type,
			country,
			COALESCE(address, ''),
			status,
			created_at
		FROM properties
		WHERE country = $1
		  AND (owner_buffr_id = $2
		       OR owner_buffr_id IN (SELECT buffr_id FROM users WHERE %s = $3))
		ORDER BY created_at
	`, expr)

	return s.queryProperties(ctx, query, country, buffrID, identifier)
}

func (s *PostgresProjectStore) PropertiesByOwner(ctx context.Context, buffrID string) ([]domain.ProjectProperty, error) {
	query := `
		SELECT
			property_id::text,
			owner_buffr_id,
			property_name,
			property_type,
			country,
			COALESCE(address, ''),
			status,
			created_at
		FROM properties
		WHERE owner_buffr_id = $1
		ORDER BY created_at
	`
	return s.queryProperties(ctx, query, buffrID)
}

func (s *PostgresProjectStore) queryProperties(ctx context.Context, query string, args ...any) ([]domain.ProjectProperty, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	props := []domain.ProjectProperty{}
	for rows.Next() {
		p := domain.ProjectProperty{Project: s.name}
		if err := rows.Scan(&p.PropertyID, &p.OwnerBuffrID, &p.Name, &p.PropertyType, &p.Country, &p.Address, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return props, nil
}

func (s *PostgresProjectStore) Summary(ctx context.Context, buffrID string) (domain.ProjectSummary, error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE buffr_id = $1),
			(SELECT COUNT(*) FROM properties WHERE owner_buffr_id = $1),
			(SELECT COUNT(*) FROM properties WHERE owner_buffr_id = $1 AND status = 'active'),
			(SELECT MAX(updated_at) FROM users WHERE buffr_id = $1)
	`

	sum := domain.ProjectSummary{Project: s.name}
	var last sql.NullTime
	err := s.db.QueryRowContext(ctx, query, buffrID).Scan(&sum.Linked, &sum.PropertyCount, &sum.ActiveProperties, &last)
	if err != nil {
		return domain.ProjectSummary{}, fmt.Errorf("failed to query summary: %w", err)
	}
	if last.Valid {
		t := last.Time
		sum.LastActivity = &t
	}
	return sum, nil
}

func (s *PostgresProjectStore) HasUser(ctx context.Context, buffrID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE buffr_id = $1 AND status = 'active')`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, buffrID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (s *PostgresProjectStore) CreateUser(ctx context.Context, buffrID string, u domain.NewUser) (domain.ProjectUser, error) {
	query := `
		INSERT INTO users (buffr_id, national_id, phone_number, email, full_name, country, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'active')
		RETURNING created_at
	`

	out := domain.ProjectUser{
		Project:     s.name,
		BuffrID:     buffrID,
		NationalID:  u.NationalID,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		FullName:    u.FullName,
		Country:     u.Country,
		Status:      domain.UserStatusActive,
	}
	err := s.db.QueryRowContext(ctx, query,
		buffrID, u.NationalID, u.PhoneNumber, u.Email, u.FullName, u.Country,
	).Scan(&out.CreatedAt)
	if err != nil {
		return domain.ProjectUser{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return out, nil
}

func (s *PostgresProjectStore) CreateProperty(ctx context.Context, p domain.NewProperty) (domain.ProjectProperty, error) {
	query := `
		INSERT INTO properties (owner_buffr_id, property_name, property_type, country, address, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), 'active')
		RETURNING property_id::text, created_at
	`

	out := domain.ProjectProperty{
		Project:      s.name,
		OwnerBuffrID: p.OwnerBuffrID,
		Name:         p.PropertyName,
		PropertyType: p.PropertyType,
		Country:      p.Country,
		Address:      p.Address,
		Status:       domain.PropertyStatusActive,
	}
	err := s.db.QueryRowContext(ctx, query,
		p.OwnerBuffrID, p.PropertyName, p.PropertyType, p.Country, p.Address,
	).Scan(&out.PropertyID, &out.CreatedAt)
	if err != nil {
		return domain.ProjectProperty{}, fmt.Errorf("failed to insert property: %w", err)
	}
	return out, nil
}

func (s *PostgresProjectStore) UpdateUser(ctx context.Context, buffrID string, upd domain.ProfileUpdate) (int, error) {
	sets := []string{}
	args := []any{}
	argN := 1

	set := func(column, value string) {
		if value == "" {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argN))
		args = append(args, value)
		argN++
	}
	set("full_name", upd.FullName)
	set("email", upd.Email)
	set("phone_number", upd.PhoneNumber)
	set("country", upd.Country)
	set("status", upd.Status)

	if len(sets) == 0 {
		return 0, nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, buffrID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE buffr_id = $%d`, strings.Join(sets, ", "), argN)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
