package domain

import "time"

// PropertyListing is a row of the platform's own properties table, served by
// the guest-facing listing route.
type PropertyListing struct {
	PropertyID   string    `json:"id" db:"property_id"`
	Name         string    `json:"name" db:"name"`
	PropertyType string    `json:"propertyType" db:"property_type"`
	City         string    `json:"city" db:"city"`
	Country      string    `json:"country" db:"country"`
	Status       string    `json:"status" db:"status"`
	OwnerBuffrID string    `json:"ownerBuffrId,omitempty" db:"owner_buffr_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// ListingFilter narrows a listing page.
type ListingFilter struct {
	Status  string
	Country string
}
