package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUnifiedIdentity_MergesInProjectOrder(t *testing.T) {
	records := []ProjectUser{
		{Project: "buffr-host", BuffrID: "BFR-NA-1"},
		{Project: "buffr-pay", BuffrID: "BFR-NA-1"},
		{Project: "buffr-pay", BuffrID: "BFR-NA-2"},
	}

	id := NewUnifiedIdentity("maria@example.com", IdentifierEmail, "NA", records)

	assert.True(t, id.Found())
	assert.Equal(t, "BFR-NA-1", id.BuffrID)
	assert.Equal(t, []string{"BFR-NA-1", "BFR-NA-2"}, id.BuffrIDs)
	assert.Equal(t, []string{"buffr-host", "buffr-pay"}, id.Projects)
	assert.True(t, id.Conflicting)
}

func TestNewUnifiedIdentity_NoMatches(t *testing.T) {
	id := NewUnifiedIdentity("90010112345", IdentifierNationalID, "NA", nil)

	assert.False(t, id.Found())
	assert.Empty(t, id.BuffrID)
	assert.NotNil(t, id.Records)
	assert.NotNil(t, id.Projects)
	assert.False(t, id.Conflicting)
}

func TestNewUser_MissingFields(t *testing.T) {
	u := NewUser{NationalID: "90010112345", FullName: "Maria Shikongo"}
	assert.Equal(t, []string{"phoneNumber", "email", "country", "projects"}, u.MissingFields())

	full := NewUser{NationalID: "1", PhoneNumber: "2", Email: "e", FullName: "f", Country: "NA", Projects: []string{"buffr-host"}}
	assert.Empty(t, full.MissingFields())
}

func TestProfileUpdate_Fields(t *testing.T) {
	assert.True(t, ProfileUpdate{}.IsEmpty())
	p := ProfileUpdate{Email: "new@example.com", Status: "suspended"}
	assert.False(t, p.IsEmpty())
	assert.Equal(t, []string{"email", "status"}, p.Fields())
}
