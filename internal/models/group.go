package models

// EmergencyGroup is a set of households that pool their shared batches.
// Membership can change at any time, so access checks always read the
// current membership.
type EmergencyGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Nordre gate").
	Name string

	// HouseholdIDs lists the member households.
	HouseholdIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Household represents the people sharing one physical inventory.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Name is the display name of the household.
	Name string

	// MemberCount counts users plus non-user dependents. Never negative.
	MemberCount int

	// EmergencyGroupID is the group the household currently belongs to,
	// or "" when it belongs to none.
	EmergencyGroupID string
}

// InGroup reports whether the household currently belongs to groupID.
func (h Household) InGroup(groupID string) bool {
	return groupID != "" && h.EmergencyGroupID == groupID
}
