package domain

import "time"

// InviteTTL is the fixed lifetime of an invite. Invites are not renewable;
// expiry is the only time-based invalidation.
const InviteTTL = 7 * 24 * time.Hour

// Invite is an offer to join an organization at a given role. The raw
// token is an opaque bearer credential handed to the recipient; only its
// SHA-256 fingerprint is persisted. OrganizationName and InviterName are
// denormalized at creation time so the invite email and acceptance page
// render correctly even if the inviter or organization record changes
// later.
type Invite struct {
	ID               string
	Email            string
	Role             string
	TokenHash        string
	OrganizationID   string
	OrganizationName string
	InviterName      string
	CreatedBy        string
	ExpiresAt        time.Time
	RedeemedAt       *time.Time
	RedeemedBy       string // Empty until redeemed
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether the invite is past its TTL at the given instant.
func (i Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Redeemed reports whether the invite has already been used. Invites are
// single-use: redemption stamps RedeemedAt and later validations reject
// the token.
func (i Invite) Redeemed() bool {
	return i.RedeemedAt != nil
}
