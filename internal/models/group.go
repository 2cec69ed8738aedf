package models

// Group represents a set of users who share expenses.
// All expenses and settlements are scoped to exactly one group, and a single
// group's ledger is assumed to be in one currency.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g. "Roommates", "Ski Trip").
	Name string `json:"name"`

	// Members is the list of user IDs belonging to this group.
	Members []string `json:"members"`

	// CreatedBy is the user ID of the group's creator.
	CreatedBy string `json:"created_by"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// HasMember reports whether the given user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
