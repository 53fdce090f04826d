package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

func setupProjectStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresProjectStore) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock, NewPostgresProjectStore("buffr-host", db)
}

var userColumns = []string{"buffr_id", "national_id", "phone_number", "email", "full_name", "country", "status", "created_at"}
var propertyColumns = []string{"property_id", "owner_buffr_id", "property_name", "property_type", "country", "address", "status", "created_at"}

func TestPostgresProjectStore_FindUsers_ByEmail(t *testing.T) {
	_, mock, store := setupProjectStore(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(userColumns).
		AddRow("BFR-NA-1", "90010112345", "+264811234567", "maria@example.com", "Maria Shikongo", "NA", "active", created)
	mock.ExpectQuery(`FROM users\s+WHERE lower\(email\) = \$1 AND country = \$2`).
		WithArgs("maria@example.com", "NA").
		WillReturnRows(rows)

	users, err := store.FindUsers(context.Background(), "maria@example.com", domain.IdentifierEmail, "NA")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "buffr-host", users[0].Project)
	assert.Equal(t, "BFR-NA-1", users[0].BuffrID)
	assert.Equal(t, created, users[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectStore_FindUsers_EmptyResult(t *testing.T) {
	_, mock, store := setupProjectStore(t)

	mock.ExpectQuery(`WHERE national_id = \$1`).
		WithArgs("90010112345", "NA").
		WillReturnRows(sqlmock.NewRows(userColumns))

	users, err := store.FindUsers(context.Background(), "90010112345", domain.IdentifierNationalID, "NA")

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Len(t, users, 0)
}

func TestPostgresProjectStore_FindUsers_DBError(t *testing.T) {
	_, mock, store := setupProjectStore(t)

	mock.ExpectQuery(`WHERE phone_number = \$1`).
		WillReturnError(errors.New("db down"))

	_, err := store.FindUsers(context.Background(), "+264811234567", domain.IdentifierPhone, "NA")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query users")
	assert.Contains(t, err.Error(), "db down")
}

func TestPostgresProjectStore_FindUsers_UnknownKind(t *testing.T) {
	_, _, store := setupProjectStore(t)

	_, err := store.FindUsers(context.Background(), "x", domain.IdentifierKind("passport"), "NA")
	assert.Error(t, err)
}

func TestPostgresProjectStore_FindProperties(t *testing.T) {
	_, mock, store := setupProjectStore(t)
	created := time.Now().UTC()

	rows := sqlmock.NewRows(propertyColumns).
		AddRow("p-1", "BFR-NA-1", "Etosha Lodge", "lodge", "NA", "", "active", created)
	mock.ExpectQuery(`FROM properties\s+WHERE country = \$1`).
		WithArgs("NA", "BFR-NA-1", "90010112345").
		WillReturnRows(rows)

	props, err := store.FindProperties(context.Background(), "90010112345", domain.IdentifierNationalID, "BFR-NA-1", "NA")

	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Etosha Lodge", props[0].Name)
	assert.Equal(t, "buffr-host", props[0].Project)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectStore_Summary(t *testing.T) {
	_, mock, store := setupProjectStore(t)
	last := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("BFR-NA-1").
		WillReturnRows(sqlmock.NewRows([]string{"linked", "property_count", "active_properties", "last_activity"}).
			AddRow(true, 3, 2, last))

	sum, err := store.Summary(context.Background(), "BFR-NA-1")

	require.NoError(t, err)
	assert.True(t, sum.Linked)
	assert.Equal(t, 3, sum.PropertyCount)
	assert.Equal(t, 2, sum.ActiveProperties)
	require.NotNil(t, sum.LastActivity)
	assert.Equal(t, last, *sum.LastActivity)
}

func TestPostgresProjectStore_Summary_Unlinked(t *testing.T) {
	_, mock, store := setupProjectStore(t)

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("BFR-NA-404").
		WillReturnRows(sqlmock.NewRows([]string{"linked", "property_count", "active_properties", "last_activity"}).
			AddRow(false, 0, 0, nil))

	sum, err := store.Summary(context.Background(), "BFR-NA-404")

	require.NoError(t, err)
	assert.False(t, sum.Linked)
	assert.Nil(t, sum.LastActivity)
}

func TestPostgresProjectStore_HasUser(t *testing.T) {
	_, mock, store := setupProjectStore(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE buffr_id = \$1 AND status = 'active'\)`).
		WithArgs("BFR-NA-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.HasUser(context.Background(), "BFR-NA-1")

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostgresProjectStore_CreateUser(t *testing.T) {
	_, mock, store := setupProjectStore(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("BFR-NA-1", "90010112345", "+264811234567", "maria@example.com", "Maria Shikongo", "NA").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	u, err := store.CreateUser(context.Background(), "BFR-NA-1", domain.NewUser{
		NationalID:  "90010112345",
		PhoneNumber: "+264811234567",
		Email:       "maria@example.com",
		FullName:    "Maria Shikongo",
		Country:     "NA",
	})

	require.NoError(t, err)
	assert.Equal(t, "BFR-NA-1", u.BuffrID)
	assert.Equal(t, domain.UserStatusActive, u.Status)
	assert.Equal(t, created, u.CreatedAt)
}

func TestPostgresProjectStore_CreateProperty(t *testing.T) {
	_, mock, store := setupProjectStore(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO properties`).
		WithArgs("BFR-NA-1", "Swakop Guesthouse", "guesthouse", "NA", "").
		WillReturnRows(sqlmock.NewRows([]string{"property_id", "created_at"}).AddRow("p-9", created))

	p, err := store.CreateProperty(context.Background(), domain.NewProperty{
		OwnerBuffrID: "BFR-NA-1",
		PropertyName: "Swakop Guesthouse",
		PropertyType: "guesthouse",
		Country:      "NA",
	})

	require.NoError(t, err)
	assert.Equal(t, "p-9", p.PropertyID)
	assert.Equal(t, "buffr-host", p.Project)
}

func TestPostgresProjectStore_UpdateUser(t *testing.T) {
	_, mock, store := setupProjectStore(t)

	mock.ExpectExec(`UPDATE users SET full_name = \$1, email = \$2, updated_at = NOW\(\) WHERE buffr_id = \$3`).
		WithArgs("Maria N. Shikongo", "maria.n@example.com", "BFR-NA-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := store.UpdateUser(context.Background(), "BFR-NA-1", domain.ProfileUpdate{
		FullName: "Maria N. Shikongo",
		Email:    "maria.n@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectStore_UpdateUser_NothingToSet(t *testing.T) {
	_, mock, store := setupProjectStore(t)

	n, err := store.UpdateUser(context.Background(), "BFR-NA-1", domain.ProfileUpdate{})

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
