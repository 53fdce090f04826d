package domain

import (
	"strings"
	"time"
)

// ProjectProperty is one property row owned by a Buffr ID in one project.
type ProjectProperty struct {
	Project      string    `json:"project"`
	PropertyID   string    `json:"propertyId" db:"property_id"`
	OwnerBuffrID string    `json:"ownerBuffrId" db:"owner_buffr_id"`
	Name         string    `json:"propertyName" db:"property_name"`
	PropertyType string    `json:"propertyType" db:"property_type"` // hotel / guesthouse / restaurant / lodge ...
	Country      string    `json:"country" db:"country"`
	Address      string    `json:"address,omitempty" db:"address"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// PropertyStatusActive marks a property open for bookings.
const PropertyStatusActive = "active"

// PropertyOwnership pairs an owner with every property found for them.
// Like UnifiedIdentity it is recomputed on each call.
type PropertyOwnership struct {
	BuffrID    string            `json:"buffrId"`
	Identifier string            `json:"identifier,omitempty"`
	Country    string            `json:"country,omitempty"`
	Projects   []string          `json:"projects"`
	Total      int               `json:"total"`
	Properties []ProjectProperty `json:"properties"`
}

// NewPropertyOwnership aggregates properties in the order given.
func NewPropertyOwnership(buffrID string, properties []ProjectProperty) *PropertyOwnership {
	o := &PropertyOwnership{
		BuffrID:    buffrID,
		Projects:   []string{},
		Properties: properties,
	}
	if o.Properties == nil {
		o.Properties = []ProjectProperty{}
	}
	seen := map[string]bool{}
	for _, p := range o.Properties {
		if !seen[p.Project] {
			seen[p.Project] = true
			o.Projects = append(o.Projects, p.Project)
		}
	}
	o.Total = len(o.Properties)
	return o
}

// NewProperty is the create-property payload.
type NewProperty struct {
	OwnerBuffrID string   `json:"ownerBuffrId"`
	PropertyName string   `json:"propertyName"`
	PropertyType string   `json:"propertyType"`
	Country      string   `json:"country"`
	Address      string   `json:"address,omitempty"`
	Projects     []string `json:"projects"`
}

// MissingFields lists the required fields that are absent.
func (p NewProperty) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(p.OwnerBuffrID) == "" {
		missing = append(missing, "ownerBuffrId")
	}
	if strings.TrimSpace(p.PropertyName) == "" {
		missing = append(missing, "propertyName")
	}
	if strings.TrimSpace(p.PropertyType) == "" {
		missing = append(missing, "propertyType")
	}
	if strings.TrimSpace(p.Country) == "" {
		missing = append(missing, "country")
	}
	if len(p.Projects) == 0 {
		missing = append(missing, "projects")
	}
	return missing
}
