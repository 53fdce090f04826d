package domain

import "time"

// ProjectResult is the outcome of one leg of a fan-out.
type ProjectResult[T any] struct {
	Project string `json:"project"`
	Data    T      `json:"data"`
}

// CreateUserResult is returned by create-user.
type CreateUserResult struct {
	BuffrID string                       `json:"buffrId"`
	Results []ProjectResult[ProjectUser] `json:"results"`
}

// CreatePropertyResult is returned by create-property.
type CreatePropertyResult struct {
	OwnerBuffrID string                           `json:"ownerBuffrId"`
	Results      []ProjectResult[ProjectProperty] `json:"results"`
}

// SyncResult is returned by sync-user. Updated holds rows touched per project.
type SyncResult struct {
	PrimaryBuffrID string               `json:"primaryBuffrId"`
	Fields         []string             `json:"fields"`
	Updated        []ProjectResult[int] `json:"updated"`
	TotalUpdated   int                  `json:"totalUpdated"`
}

// AuthValidation is returned by validate-auth.
type AuthValidation struct {
	BuffrID       string `json:"buffrId"`
	TargetProject string `json:"targetProject"`
	IsValid       bool   `json:"isValid"`
}

// ProjectSummary is one project's slice of the unified dashboard.
type ProjectSummary struct {
	Project          string     `json:"project"`
	Linked           bool       `json:"linked"`
	PropertyCount    int        `json:"propertyCount"`
	ActiveProperties int        `json:"activeProperties"`
	LastActivity     *time.Time `json:"lastActivity,omitempty"`
}

// UnifiedDashboard consolidates every project's summary for one Buffr ID.
type UnifiedDashboard struct {
	BuffrID          string           `json:"buffrId"`
	LinkedProjects   int              `json:"linkedProjects"`
	TotalProperties  int              `json:"totalProperties"`
	ActiveProperties int              `json:"activeProperties"`
	Projects         []ProjectSummary `json:"projects"`
}

// NewUnifiedDashboard totals the per-project summaries.
func NewUnifiedDashboard(buffrID string, summaries []ProjectSummary) *UnifiedDashboard {
	d := &UnifiedDashboard{BuffrID: buffrID, Projects: summaries}
	if d.Projects == nil {
		d.Projects = []ProjectSummary{}
	}
	for _, s := range d.Projects {
		if s.Linked {
			d.LinkedProjects++
		}
		d.TotalProperties += s.PropertyCount
		d.ActiveProperties += s.ActiveProperties
	}
	return d
}
