package domain

import "time"

// User is a member of exactly one organization. Accounts are created
// either during onboarding (the founding admin) or by redeeming an invite.
type User struct {
	ID             string
	Email          string
	Name           string
	PasswordHash   string
	OrganizationID string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
