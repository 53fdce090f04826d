package domain

import (
	"strings"
	"time"
)

// ProjectUser is one project's user record (table users in each project DB).
// The owning project is the source of truth; this service only reads it back.
type ProjectUser struct {
	Project     string    `json:"project"`
	BuffrID     string    `json:"buffrId" db:"buffr_id"`
	NationalID  string    `json:"nationalId" db:"national_id"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	Email       string    `json:"email" db:"email"`
	FullName    string    `json:"fullName" db:"full_name"`
	Country     string    `json:"country" db:"country"`
	Status      string    `json:"status" db:"status"` // active / suspended / deleted
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// UserStatusActive marks a record that may authenticate in its project.
const UserStatusActive = "active"

// NewUser is the create-user payload fanned out to each listed project.
type NewUser struct {
	NationalID  string   `json:"nationalId"`
	PhoneNumber string   `json:"phoneNumber"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	Country     string   `json:"country"`
	Projects    []string `json:"projects"`
}

// MissingFields lists the required fields that are absent. Presence only.
func (u NewUser) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(u.NationalID) == "" {
		missing = append(missing, "nationalId")
	}
	if strings.TrimSpace(u.PhoneNumber) == "" {
		missing = append(missing, "phoneNumber")
	}
	if strings.TrimSpace(u.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(u.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(u.Country) == "" {
		missing = append(missing, "country")
	}
	if len(u.Projects) == 0 {
		missing = append(missing, "projects")
	}
	return missing
}

// ProfileUpdate carries the fields sync-user pushes to linked records.
// Empty strings mean "leave unchanged".
type ProfileUpdate struct {
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Country     string `json:"country,omitempty"`
	Status      string `json:"status,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.FullName == "" && p.Email == "" && p.PhoneNumber == "" && p.Country == "" && p.Status == ""
}

// Fields lists the names of the fields the update sets.
func (p ProfileUpdate) Fields() []string {
	var f []string
	if p.FullName != "" {
		f = append(f, "fullName")
	}
	if p.Email != "" {
		f = append(f, "email")
	}
	if p.PhoneNumber != "" {
		f = append(f, "phoneNumber")
	}
	if p.Country != "" {
		f = append(f, "country")
	}
	if p.Status != "" {
		f = append(f, "status")
	}
	return f
}
