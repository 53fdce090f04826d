package domain

// UnifiedIdentity groups the per-project user records believed to be the same
// person. It is rebuilt from the project stores on every request.
//
// Nothing guarantees that one identifier maps to one Buffr ID across projects;
// when records disagree, BuffrIDs lists every distinct value and Conflicting is set.
type UnifiedIdentity struct {
	Identifier  string         `json:"identifier"`
	Kind        IdentifierKind `json:"identifierType"`
	Country     string         `json:"country"`
	BuffrID     string         `json:"buffrId"`
	BuffrIDs    []string       `json:"buffrIds"`
	Conflicting bool           `json:"conflicting"`
	Projects    []string       `json:"projects"`
	Records     []ProjectUser  `json:"records"`
}

// NewUnifiedIdentity merges records, in project order, into one identity.
// The first record's Buffr ID becomes the primary one.
func NewUnifiedIdentity(identifier string, kind IdentifierKind, country string, records []ProjectUser) *UnifiedIdentity {
	id := &UnifiedIdentity{
		Identifier: identifier,
		Kind:       kind,
		Country:    country,
		BuffrIDs:   []string{},
		Projects:   []string{},
		Records:    records,
	}
	if id.Records == nil {
		id.Records = []ProjectUser{}
	}

	seenID := map[string]bool{}
	seenProject := map[string]bool{}
	for _, r := range id.Records {
		if r.BuffrID != "" && !seenID[r.BuffrID] {
			seenID[r.BuffrID] = true
			id.BuffrIDs = append(id.BuffrIDs, r.BuffrID)
		}
		if !seenProject[r.Project] {
			seenProject[r.Project] = true
			id.Projects = append(id.Projects, r.Project)
		}
	}
	if len(id.BuffrIDs) > 0 {
		id.BuffrID = id.BuffrIDs[0]
	}
	id.Conflicting = len(id.BuffrIDs) > 1
	return id
}

// Found reports whether any project matched.
func (u *UnifiedIdentity) Found() bool {
	return len(u.Records) > 0
}
