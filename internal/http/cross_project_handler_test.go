package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/apperr"
	"github.com/thependalorian/buffrhost-sub014/internal/domain"
	"github.com/thependalorian/buffrhost-sub014/internal/notify"
	"github.com/thependalorian/buffrhost-sub014/internal/repository"
	"github.com/thependalorian/buffrhost-sub014/internal/service"
)

// brokenStore fails every write with a driver-looking error.
type brokenStore struct {
	*repository.MemoryProjectStore
}

var errBroken = errors.New(`pq: password authentication failed for user "buffr_pay"`)

func (b *brokenStore) CreateUser(context.Context, string, domain.NewUser) (domain.ProjectUser, error) {
	return domain.ProjectUser{}, errBroken
}

func newCrossProjectRouter(t *testing.T, stores ...repository.ProjectStore) http.Handler {
	t.Helper()
	reg, err := repository.NewProjectRegistry(stores...)
	require.NoError(t, err)
	svc := service.NewCrossProjectService(reg, notify.NopNotifier{}, "NA", zap.NewNop())

	r := NewRouter(zap.NewNop())
	r.RegisterCrossProjectRoutes(NewCrossProjectHandler(svc, zap.NewNop()))
	return WithMiddleware(r, zap.NewNop())
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCrossProject_MissingParamsAre400(t *testing.T) {
	h := newCrossProjectRouter(t, repository.NewMemoryProjectStore("buffr-host"))

	targets := []string{
		"/api/cross-project?action=user-lookup",
		"/api/cross-project?action=property-lookup&identifier=90010112345",
		"/api/cross-project?action=property-lookup&buffrId=BFR-NA-1",
		"/api/cross-project?action=unified-dashboard",
		"/api/cross-project?action=property-owner",
		"/api/cross-project/export",
	}
	for _, target := range targets {
		rec := doJSON(t, h, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, decodeBody(t, rec)["error"], target)
	}

	posts := []map[string]any{
		{"action": "create-user", "data": map[string]any{"fullName": "Maria"}},
		{"action": "create-property", "data": map[string]any{}},
		{"action": "sync-user", "data": map[string]any{"primaryBuffrId": "BFR-NA-1"}},
		{"action": "validate-auth", "data": map[string]any{"buffrId": "BFR-NA-1"}},
		{"action": "validate-auth"},
	}
	for _, body := range posts {
		rec := doJSON(t, h, http.MethodPost, "/api/cross-project", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body["action"])
		assert.NotEmpty(t, decodeBody(t, rec)["error"])
	}
}

func TestCrossProject_UserLookupNoMatchesIs200(t *testing.T) {
	h := newCrossProjectRouter(t, repository.NewMemoryProjectStore("buffr-host"))

	rec := doJSON(t, h, http.MethodGet, "/api/cross-project?action=user-lookup&identifier=90010112345", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Empty(t, data["records"])
	assert.Equal(t, "", data["buffrId"])
	assert.Equal(t, "NA", data["country"])
}

func TestCrossProject_CreateUserOneResultPerProject(t *testing.T) {
	h := newCrossProjectRouter(t,
		repository.NewMemoryProjectStore("buffr-host"),
		repository.NewMemoryProjectStore("buffr-pay"),
		repository.NewMemoryProjectStore("buffr-lend"),
	)

	rec := doJSON(t, h, http.MethodPost, "/api/cross-project", map[string]any{
		"action": "create-user",
		"data": map[string]any{
			"nationalId":  "90010112345",
			"phoneNumber": "+264811234567",
			"email":       "maria@example.com",
			"fullName":    "Maria Shikongo",
			"country":     "NA",
			"projects":    []string{"buffr-host", "buffr-pay"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])
	data := body["data"].(map[string]any)
	results := data["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "buffr-host", results[0].(map[string]any)["project"])
	assert.Equal(t, "buffr-pay", results[1].(map[string]any)["project"])
}

func TestCrossProject_CreateUserFailureDoesNotLeak(t *testing.T) {
	h := newCrossProjectRouter(t,
		repository.NewMemoryProjectStore("buffr-host"),
		&brokenStore{repository.NewMemoryProjectStore("buffr-pay")},
	)

	rec := doJSON(t, h, http.MethodPost, "/api/cross-project", map[string]any{
		"action": "create-user",
		"data": map[string]any{
			"nationalId": "90010112345", "phoneNumber": "+264811234567", "email": "maria@example.com",
			"fullName": "Maria Shikongo", "country": "NA", "projects": []string{"buffr-host", "buffr-pay"},
		},
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": apperr.InternalMessage}, decodeBody(t, rec))
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "buffr-pay")
}

func TestCrossProject_ValidateAuth(t *testing.T) {
	host := repository.NewMemoryProjectStore("buffr-host")
	host.SeedUsers(domain.ProjectUser{BuffrID: "BFR-NA-1", Status: domain.UserStatusActive})
	h := newCrossProjectRouter(t, host, repository.NewMemoryProjectStore("buffr-pay"))

	cases := []struct {
		buffrID, target string
		want            bool
	}{
		{"BFR-NA-1", "buffr-host", true},
		{"BFR-NA-1", "buffr-pay", false},
		{"BFR-NA-missing", "buffr-host", false},
	}
	for _, c := range cases {
		rec := doJSON(t, h, http.MethodPost, "/api/cross-project", map[string]any{
			"action": "validate-auth",
			"data":   map[string]any{"buffrId": c.buffrID, "targetProject": c.target},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, c.want, data["isValid"], c.buffrID+"@"+c.target)
	}
}

func TestCrossProject_UnknownActionListsSupported(t *testing.T) {
	h := newCrossProjectRouter(t, repository.NewMemoryProjectStore("buffr-host"))

	rec := doJSON(t, h, http.MethodGet, "/api/cross-project?action=delete-everything", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"Invalid action. Supported actions: user-lookup, property-lookup, unified-dashboard, property-owner",
		decodeBody(t, rec)["error"])

	rec = doJSON(t, h, http.MethodPost, "/api/cross-project", map[string]any{"action": "user-lookup"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"Invalid action. Supported actions: create-user, create-property, sync-user, validate-auth",
		decodeBody(t, rec)["error"])

	rec = doJSON(t, h, http.MethodGet, "/api/cross-project", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCrossProject_InvalidJSON(t *testing.T) {
	h := newCrossProjectRouter(t, repository.NewMemoryProjectStore("buffr-host"))

	req := httptest.NewRequest(http.MethodPost, "/api/cross-project", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCrossProject_BodyTooLarge(t *testing.T) {
	h := newCrossProjectRouter(t, repository.NewMemoryProjectStore("buffr-host"))

	big := `{"action":"create-user","data":{"fullName":"` + strings.Repeat("a", maxBodyBytes) + `"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/cross-project", strings.NewReader(big))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "Request body too large")
}

func TestCrossProject_MethodNotAllowed(t *testing.T) {
	h := newCrossProjectRouter(t, repository.NewMemoryProjectStore("buffr-host"))

	rec := doJSON(t, h, http.MethodDelete, "/api/cross-project", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCrossProject_SyncUser(t *testing.T) {
	host := repository.NewMemoryProjectStore("buffr-host")
	host.SeedUsers(domain.ProjectUser{BuffrID: "BFR-NA-1", FullName: "Old", Status: "active"})
	h := newCrossProjectRouter(t, host)

	rec := doJSON(t, h, http.MethodPost, "/api/cross-project", map[string]any{
		"action": "sync-user",
		"data":   map[string]any{"primaryBuffrId": "BFR-NA-1", "updatedData": map[string]any{"fullName": "New"}},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["totalUpdated"])
}

func TestCrossProject_ExportProperties(t *testing.T) {
	host := repository.NewMemoryProjectStore("buffr-host")
	host.SeedProperties(domain.ProjectProperty{PropertyID: "p-1", OwnerBuffrID: "BFR-NA-1", Name: "Kalahari Inn", Status: "active"})
	h := newCrossProjectRouter(t, host)

	rec := doJSON(t, h, http.MethodGet, "/api/cross-project/export?buffrId=BFR-NA-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "properties-BFR-NA-1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Properties", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Kalahari Inn", v)
}

func TestRecoverMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := WithMiddleware(panicky, zap.NewNop())

	rec := doJSON(t, h, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperr.InternalMessage, decodeBody(t, rec)["error"])
}
