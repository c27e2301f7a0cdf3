package models

// AccountProfile is the resolved identity document for a signed-in account.
// A provider's family code is generated once at account creation and never
// changes; members join an existing family by presenting a valid code.
type AccountProfile struct {
	UID          string `json:"uid"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"` // provider or member
	ProfileColor string `json:"profileColor,omitempty"`
	FamilyCode   string `json:"familyCode"`
}

// IsProvider reports whether the profile belongs to the family's provider
// account.
func (p *AccountProfile) IsProvider() bool {
	return p.Role == RoleProvider
}
