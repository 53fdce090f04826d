package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/domain"
)

// HTTPProjectStore talks to a project that exposes its user and property
// tables through an internal REST API instead of a shared database.
type HTTPProjectStore struct {
	name       string
	httpClient *resty.Client
	logger     *zap.Logger
}

// HTTPProjectStoreOptions configures the resty client.
type HTTPProjectStoreOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPProjectStore creates a client for the project API at opts.BaseURL.
// Requests are sent once: fan-out callers do not expect retried writes.
func NewHTTPProjectStore(name string, opts HTTPProjectStoreOptions, logger *zap.Logger) *HTTPProjectStore {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		client.SetAuthToken(opts.APIKey)
	}

	return &HTTPProjectStore{
		name:       name,
		httpClient: client,
		logger:     logger.With(zap.String("project", name)),
	}
}

var _ ProjectStore = (*HTTPProjectStore)(nil)

func (s *HTTPProjectStore) Name() string { return s.name }

type usersResponse struct {
	Users []domain.ProjectUser `json:"users"`
}

type propertiesResponse struct {
	Properties []domain.ProjectProperty `json:"properties"`
}

type updatedResponse struct {
	Updated int `json:"updated"`
}

type createUserRequest struct {
	BuffrID string `json:"buffrId"`
	domain.NewUser
}

func (s *HTTPProjectStore) FindUsers(ctx context.Context, identifier string, kind domain.IdentifierKind, country string) ([]domain.ProjectUser, error) {
	var out usersResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"identifier": identifier,
			"type":       string(kind),
			"country":    country,
		}).
		SetResult(&out).
		Get("/internal/v1/users")
	if err := s.check(resp, err, "find users"); err != nil {
		return nil, err
	}

	users := make([]domain.ProjectUser, 0, len(out.Users))
	for _, u := range out.Users {
		u.Project = s.name
		users = append(users, u)
	}
	return users, nil
}

func (s *HTTPProjectStore) FindProperties(ctx context.Context, identifier string, kind domain.IdentifierKind, buffrID, country string) ([]domain.ProjectProperty, error) {
	var out propertiesResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"identifier": identifier,
			"type":       string(kind),
			"buffrId":    buffrID,
			"country":    country,
		}).
		SetResult(&out).
		Get("/internal/v1/properties")
	if err := s.check(resp, err, "find properties"); err != nil {
		return nil, err
	}
	return s.tagProperties(out.Properties), nil
}

func (s *HTTPProjectStore) PropertiesByOwner(ctx context.Context, buffrID string) ([]domain.ProjectProperty, error) {
	var out propertiesResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("buffrId", buffrID).
		SetResult(&out).
		Get("/internal/v1/owners/{buffrId}/properties")
	if err := s.check(resp, err, "list owner properties"); err != nil {
		return nil, err
	}
	return s.tagProperties(out.Properties), nil
}

func (s *HTTPProjectStore) Summary(ctx context.Context, buffrID string) (domain.ProjectSummary, error) {
	var out domain.ProjectSummary
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("buffrId", buffrID).
		SetResult(&out).
		Get("/internal/v1/users/{buffrId}/summary")
	if err := s.check(resp, err, "summary"); err != nil {
		return domain.ProjectSummary{}, err
	}
	out.Project = s.name
	return out, nil
}

func (s *HTTPProjectStore) HasUser(ctx context.Context, buffrID string) (bool, error) {
	var out domain.ProjectUser
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("buffrId", buffrID).
		SetResult(&out).
		Get("/internal/v1/users/{buffrId}")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if err := s.check(resp, err, "get user"); err != nil {
		return false, err
	}
	return out.Status == domain.UserStatusActive, nil
}

func (s *HTTPProjectStore) CreateUser(ctx context.Context, buffrID string, u domain.NewUser) (domain.ProjectUser, error) {
	var out domain.ProjectUser
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(createUserRequest{BuffrID: buffrID, NewUser: u}).
		SetResult(&out).
		Post("/internal/v1/users")
	if err := s.check(resp, err, "create user"); err != nil {
		return domain.ProjectUser{}, err
	}
	out.Project = s.name
	return out, nil
}

func (s *HTTPProjectStore) CreateProperty(ctx context.Context, p domain.NewProperty) (domain.ProjectProperty, error) {
	var out domain.ProjectProperty
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(p).
		SetResult(&out).
		Post("/internal/v1/properties")
	if err := s.check(resp, err, "create property"); err != nil {
		return domain.ProjectProperty{}, err
	}
	out.Project = s.name
	return out, nil
}

func (s *HTTPProjectStore) UpdateUser(ctx context.Context, buffrID string, upd domain.ProfileUpdate) (int, error) {
	var out updatedResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("buffrId", buffrID).
		SetBody(upd).
		SetResult(&out).
		Patch("/internal/v1/users/{buffrId}")
	if err := s.check(resp, err, "update user"); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// check turns a transport error or non-2xx response into an error.
func (s *HTTPProjectStore) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		s.logger.Error("Project API call failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("failed to call project API (%s): %w", op, err)
	}
	if resp.IsError() {
		s.logger.Error("Project API returned error",
			zap.String("op", op),
			zap.Int("status_code", resp.StatusCode()),
		)
		return fmt.Errorf("project API error (%s): status %d", op, resp.StatusCode())
	}
	return nil
}

func (s *HTTPProjectStore) tagProperties(in []domain.ProjectProperty) []domain.ProjectProperty {
	out := make([]domain.ProjectProperty, 0, len(in))
	for _, p := range in {
		p.Project = s.name
		out = append(out, p)
	}
	return out
}
