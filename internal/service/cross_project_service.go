package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/internal/apperr"
	"github.com/thependalorian/buffrhost-sub014/internal/domain"
	"github.com/thependalorian/buffrhost-sub014/internal/notify"
	"github.com/thependalorian/buffrhost-sub014/internal/repository"
)

// CrossProjectService resolves and writes one person's identity across every
// registered project store. Every call re-reads the stores; nothing is cached.
//
// Fan-out writes run project by project with no transaction. A failure stops
// the fan-out; projects already written keep their rows and are only logged.
type CrossProjectService struct {
	projects       *repository.ProjectRegistry
	notifier       notify.Notifier
	logger         *zap.Logger
	defaultCountry string

	newBuffrID func(country string) string
	now        func() time.Time
}

func NewCrossProjectService(projects *repository.ProjectRegistry, notifier notify.Notifier, defaultCountry string, logger *zap.Logger) *CrossProjectService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if strings.TrimSpace(defaultCountry) == "" {
		defaultCountry = domain.DefaultCountry
	}
	return &CrossProjectService{
		projects:       projects,
		notifier:       notifier,
		logger:         logger,
		defaultCountry: strings.ToUpper(strings.TrimSpace(defaultCountry)),
		newBuffrID:     NewBuffrID,
		now:            time.Now,
	}
}

// NewBuffrID returns a fresh Buffr ID, e.g. BFR-NA-3f0c...
func NewBuffrID(country string) string {
	return "BFR-" + domain.NormalizeCountry(country) + "-" + uuid.NewString()
}

// Projects lists the registered project names in order.
func (s *CrossProjectService) Projects() []string {
	return s.projects.Names()
}

func (s *CrossProjectService) country(c string) string {
	if strings.TrimSpace(c) == "" {
		return s.defaultCountry
	}
	return domain.NormalizeCountry(c)
}

// LookupUserRequest is the user-lookup input.
type LookupUserRequest struct {
	Identifier string
	Country    string
}

// LookupUser finds every project's user records for an identifier.
// No match is a successful, empty identity.
func (s *CrossProjectService) LookupUser(ctx context.Context, req LookupUserRequest) (*domain.UnifiedIdentity, error) {
	raw := strings.TrimSpace(req.Identifier)
	if raw == "" {
		return nil, apperr.Validation("identifier is required")
	}
	kind := domain.ClassifyIdentifier(raw)
	identifier := domain.NormalizeIdentifier(kind, raw)
	country := s.country(req.Country)

	records := []domain.ProjectUser{}
	for _, p := range s.projects.All() {
		users, err := p.FindUsers(ctx, identifier, kind, country)
		if err != nil {
			return nil, apperr.Upstream(p.Name(), "user lookup", err)
		}
		records = append(records, users...)
	}
	return domain.NewUnifiedIdentity(identifier, kind, country, records), nil
}

// LookupPropertiesRequest is the property-lookup input.
type LookupPropertiesRequest struct {
	Identifier string
	BuffrID    string
	Country    string
}

// LookupProperties finds properties owned by BuffrID or by whoever the identifier matches.
func (s *CrossProjectService) LookupProperties(ctx context.Context, req LookupPropertiesRequest) (*domain.PropertyOwnership, error) {
	raw := strings.TrimSpace(req.Identifier)
	buffrID := strings.TrimSpace(req.BuffrID)
	if raw == "" || buffrID == "" {
		return nil, apperr.Validation("identifier and buffrId are required")
	}
	kind := domain.ClassifyIdentifier(raw)
	identifier := domain.NormalizeIdentifier(kind, raw)
	country := s.country(req.Country)

	props := []domain.ProjectProperty{}
	for _, p := range s.projects.All() {
		found, err := p.FindProperties(ctx, identifier, kind, buffrID, country)
		if err != nil {
			return nil, apperr.Upstream(p.Name(), "property lookup", err)
		}
		props = append(props, found...)
	}
	out := domain.NewPropertyOwnership(buffrID, props)
	out.Identifier = identifier
	out.Country = country
	return out, nil
}

// UnifiedDashboard collects each project's summary for buffrID.
func (s *CrossProjectService) UnifiedDashboard(ctx context.Context, buffrID string) (*domain.UnifiedDashboard, error) {
	buffrID = strings.TrimSpace(buffrID)
	if buffrID == "" {
		return nil, apperr.Validation("buffrId is required")
	}
	summaries := make([]domain.ProjectSummary, 0, len(s.projects.Names()))
	for _, p := range s.projects.All() {
		sum, err := p.Summary(ctx, buffrID)
		if err != nil {
			return nil, apperr.Upstream(p.Name(), "dashboard summary", err)
		}
		sum.Project = p.Name()
		summaries = append(summaries, sum)
	}
	return domain.NewUnifiedDashboard(buffrID, summaries), nil
}

// PropertyOwner lists buffrID's properties across projects.
func (s *CrossProjectService) PropertyOwner(ctx context.Context, buffrID string) (*domain.PropertyOwnership, error) {
	buffrID = strings.TrimSpace(buffrID)
	if buffrID == "" {
		return nil, apperr.Validation("buffrId is required")
	}
	props := []domain.ProjectProperty{}
	for _, p := range s.projects.All() {
		found, err := p.PropertiesByOwner(ctx, buffrID)
		if err != nil {
			return nil, apperr.Upstream(p.Name(), "owner properties", err)
		}
		props = append(props, found...)
	}
	return domain.NewPropertyOwnership(buffrID, props), nil
}

// CreateUser registers one new Buffr ID in every listed project.
func (s *CrossProjectService) CreateUser(ctx context.Context, in domain.NewUser) (*domain.CreateUserResult, error) {
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}
	stores, err := s.resolve(in.Projects)
	if err != nil {
		return nil, err
	}
	in.Country = domain.NormalizeCountry(in.Country)
	in.NationalID = domain.NormalizeIdentifier(domain.IdentifierNationalID, in.NationalID)
	in.PhoneNumber = domain.NormalizeIdentifier(domain.IdentifierPhone, in.PhoneNumber)
	in.Email = domain.NormalizeIdentifier(domain.IdentifierEmail, in.Email)

	buffrID := s.newBuffrID(in.Country)
	out := &domain.CreateUserResult{BuffrID: buffrID, Results: []domain.ProjectResult[domain.ProjectUser]{}}
	for _, p := range stores {
		u, err := p.CreateUser(ctx, buffrID, in)
		if err != nil {
			s.logPartialWrite("create-user", buffrID, p.Name(), completedProjects(out.Results), err)
			return nil, apperr.Upstream(p.Name(), "create user", err)
		}
		out.Results = append(out.Results, domain.ProjectResult[domain.ProjectUser]{Project: p.Name(), Data: u})
	}

	s.publish(ctx, notify.Event{Type: notify.EventUserCreated, BuffrID: buffrID, Projects: completedProjects(out.Results)})
	return out, nil
}

// CreateProperty registers the same property in every listed project.
func (s *CrossProjectService) CreateProperty(ctx context.Context, in domain.NewProperty) (*domain.CreatePropertyResult, error) {
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}
	stores, err := s.resolve(in.Projects)
	if err != nil {
		return nil, err
	}
	in.Country = domain.NormalizeCountry(in.Country)

	out := &domain.CreatePropertyResult{OwnerBuffrID: in.OwnerBuffrID, Results: []domain.ProjectResult[domain.ProjectProperty]{}}
	for _, p := range stores {
		prop, err := p.CreateProperty(ctx, in)
		if err != nil {
			s.logPartialWrite("create-property", in.OwnerBuffrID, p.Name(), completedProjects(out.Results), err)
			return nil, apperr.Upstream(p.Name(), "create property", err)
		}
		out.Results = append(out.Results, domain.ProjectResult[domain.ProjectProperty]{Project: p.Name(), Data: prop})
	}

	s.publish(ctx, notify.Event{Type: notify.EventPropertyCreated, BuffrID: in.OwnerBuffrID, Projects: completedProjects(out.Results)})
	return out, nil
}

// SyncUserRequest is the sync-user input.
type SyncUserRequest struct {
	PrimaryBuffrID string               `json:"primaryBuffrId"`
	UpdatedData    domain.ProfileUpdate `json:"updatedData"`
}

// SyncUser pushes the set fields of UpdatedData to every project record
// carrying PrimaryBuffrID.
func (s *CrossProjectService) SyncUser(ctx context.Context, req SyncUserRequest) (*domain.SyncResult, error) {
	buffrID := strings.TrimSpace(req.PrimaryBuffrID)
	var missing []string
	if buffrID == "" {
		missing = append(missing, "primaryBuffrId")
	}
	if req.UpdatedData.IsEmpty() {
		missing = append(missing, "updatedData")
	}
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}
	upd := req.UpdatedData
	if upd.Country != "" {
		upd.Country = domain.NormalizeCountry(upd.Country)
	}
	if upd.PhoneNumber != "" {
		upd.PhoneNumber = domain.NormalizeIdentifier(domain.IdentifierPhone, upd.PhoneNumber)
	}
	if upd.Email != "" {
		upd.Email = domain.NormalizeIdentifier(domain.IdentifierEmail, upd.Email)
	}

	out := &domain.SyncResult{
		PrimaryBuffrID: buffrID,
		Fields:         upd.Fields(),
		Updated:        []domain.ProjectResult[int]{},
	}
	for _, p := range s.projects.All() {
		n, err := p.UpdateUser(ctx, buffrID, upd)
		if err != nil {
			s.logPartialWrite("sync-user", buffrID, p.Name(), completedProjects(out.Updated), err)
			return nil, apperr.Upstream(p.Name(), "sync user", err)
		}
		out.Updated = append(out.Updated, domain.ProjectResult[int]{Project: p.Name(), Data: n})
		out.TotalUpdated += n
	}

	var touched []string
	for _, r := range out.Updated {
		if r.Data > 0 {
			touched = append(touched, r.Project)
		}
	}
	s.publish(ctx, notify.Event{Type: notify.EventUserSynced, BuffrID: buffrID, Projects: touched, Fields: out.Fields})
	return out, nil
}

// ValidateAuthRequest is the validate-auth input.
type ValidateAuthRequest struct {
	BuffrID       string `json:"buffrId"`
	TargetProject string `json:"targetProject"`
}

// ValidateAuth reports whether targetProject holds an active user with buffrId.
// An unknown buffrId is simply not valid.
func (s *CrossProjectService) ValidateAuth(ctx context.Context, req ValidateAuthRequest) (*domain.AuthValidation, error) {
	buffrID := strings.TrimSpace(req.BuffrID)
	target := strings.TrimSpace(req.TargetProject)
	var missing []string
	if buffrID == "" {
		missing = append(missing, "buffrId")
	}
	if target == "" {
		missing = append(missing, "targetProject")
	}
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}

	p, ok := s.projects.Get(target)
	if !ok {
		return nil, apperr.Validation("unknown targetProject: %s", target)
	}
	linked, err := p.HasUser(ctx, buffrID)
	if err != nil {
		return nil, apperr.Upstream(p.Name(), "validate auth", err)
	}
	return &domain.AuthValidation{BuffrID: buffrID, TargetProject: p.Name(), IsValid: linked}, nil
}

func (s *CrossProjectService) resolve(names []string) ([]repository.ProjectStore, error) {
	stores, err := s.projects.Resolve(names)
	if err != nil {
		var unknown *repository.UnknownProjectError
		if errors.As(err, &unknown) {
			return nil, apperr.Validation("unknown project: %s", unknown.Name)
		}
		var dup *repository.DuplicateProjectError
		if errors.As(err, &dup) {
			return nil, apperr.Validation("duplicate project: %s", dup.Name)
		}
		return nil, err
	}
	return stores, nil
}

// logPartialWrite records which projects kept a write that the request reports as failed.
func (s *CrossProjectService) logPartialWrite(op, buffrID, failed string, completed []string, err error) {
	if len(completed) == 0 {
		s.logger.Error("Cross-project write failed",
			zap.String("op", op), zap.String("buffr_id", buffrID), zap.String("project", failed), zap.Error(err))
		return
	}
	s.logger.Error("Cross-project write partially applied",
		zap.String("op", op),
		zap.String("buffr_id", buffrID),
		zap.String("failed_project", failed),
		zap.Strings("completed_projects", completed),
		zap.Error(err),
	)
}

func (s *CrossProjectService) publish(ctx context.Context, ev notify.Event) {
	ev.OccurredAt = s.now().UTC()
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish cross-project event",
			zap.String("type", ev.Type), zap.String("buffr_id", ev.BuffrID), zap.Error(err))
	}
}

func completedProjects[T any](results []domain.ProjectResult[T]) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Project)
	}
	return out
}
