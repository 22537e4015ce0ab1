package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/carbonpath/csrd/internal/domain"
)

type invitesRepo struct {
	q dbtx
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	now := fmtTime(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invites (
			id, email, role, token_hash, organization_id, organization_name,
			inviter_name, created_by, expires_at, redeemed_at, redeemed_by,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?)`,
		inv.ID, inv.Email, inv.Role, inv.TokenHash, inv.OrganizationID,
		inv.OrganizationName, inv.InviterName, inv.CreatedBy,
		fmtTime(inv.ExpiresAt), now, now,
	)
	return err
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, role, token_hash, organization_id, organization_name,
		       inviter_name, created_by, expires_at, redeemed_at, redeemed_by,
		       created_at, updated_at
		FROM invites
		WHERE token_hash = ?`,
		hash,
	)
	return scanInvite(row)
}

func (r *invitesRepo) MarkInviteRedeemed(ctx context.Context, inviteID string, redeemedByUserID string) error {
	now := fmtTime(time.Now())
	_, err := r.q.ExecContext(ctx, `
		UPDATE invites
		SET redeemed_at = ?, redeemed_by = ?, updated_at = ?
		WHERE id = ?`,
		now, mapStringNull(redeemedByUserID), now, inviteID,
	)
	return err
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM invites
		WHERE redeemed_at IS NULL AND expires_at < ?`,
		fmtTime(time.Now()),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvite(row rowScanner) (domain.Invite, error) {
	var (
		inv                             domain.Invite
		expiresAt, createdAt, updatedAt string
		redeemedAt, redeemedBy          sql.NullString
	)
	err := row.Scan(
		&inv.ID, &inv.Email, &inv.Role, &inv.TokenHash, &inv.OrganizationID,
		&inv.OrganizationName, &inv.InviterName, &inv.CreatedBy,
		&expiresAt, &redeemedAt, &redeemedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}

	inv.ExpiresAt = parseTime(expiresAt)
	inv.RedeemedAt = parseTimePtr(redeemedAt)
	inv.RedeemedBy = mapNullString(redeemedBy)
	inv.CreatedAt = parseTime(createdAt)
	inv.UpdatedAt = parseTime(updatedAt)
	return inv, nil
}
