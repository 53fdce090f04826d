package domain

import "time"

// Permission is an RBAC permission (platform table permissions).
type Permission struct {
	PermissionID string    `json:"id" db:"permission_id"`
	Name         string    `json:"name" db:"name"`         // unique, e.g. "bookings.manage"
	Resource     string    `json:"resource" db:"resource"` // e.g. "bookings", "properties"
	Action       string    `json:"action" db:"action"`     // e.g. "read", "create", "manage"
	Description  string    `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// PermissionFilter narrows a permission listing. Empty fields match all.
type PermissionFilter struct {
	Resource string
	Action   string
}
