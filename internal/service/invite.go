package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/mailer"
	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/pkg/cryptox"
	"github.com/carbonpath/csrd/pkg/idx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

var (
	ErrInvalidInviteRequest   = errors.New("email and role are required")
	ErrInvalidRole            = errors.New("invalid role")
	ErrMissingToken           = errors.New("token is required")
	ErrInviteNotFound         = errors.New("invite not found")
	ErrInviteExpired          = errors.New("invite has expired")
	ErrInviteRedeemed         = errors.New("invite has already been redeemed")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

// InviteConfig carries every extern dependency of the invite flow so the
// service has zero reads of ambient state.
type InviteConfig struct {
	SiteBaseURL string

	// TTL of new invites. Zero means domain.InviteTTL (7 days).
	TTL time.Duration

	// FallbackAllowed lets Validate answer with a synthetic invite when
	// the store itself is unavailable (dev convenience). A clean
	// not-found never triggers the fallback. In prod this must be false
	// so an outage fails closed.
	FallbackAllowed bool
}

type InviteService struct {
	Store  store.Store
	Mailer mailer.Mailer
	Config InviteConfig
}

// GenerateInviteToken mints an opaque invite token and its expiry.
// Pure: the caller supplies the clock.
func GenerateInviteToken(now time.Time, ttl time.Duration) (string, time.Time) {
	if ttl <= 0 {
		ttl = domain.InviteTTL
	}
	return uuid.NewString(), now.Add(ttl)
}

// fallbackInvite is the synthetic record Validate returns when the store
// is down and the fallback is enabled. Deliberately not redeemable: it
// carries no organization id, so Redeem rejects it.
func fallbackInvite(now time.Time) domain.Invite {
	return domain.Invite{
		ID:               "invite-fallback",
		Email:            "you@example.com",
		Role:             domain.RoleContributor,
		OrganizationName: "Demo Organization",
		InviterName:      "Demo Admin",
		ExpiresAt:        now.Add(domain.InviteTTL),
		CreatedAt:        now,
	}
}

// Issue creates an invite on behalf of inviter and emails the recipient.
// The raw token is returned to the caller; only its fingerprint is stored.
//
// Issuance is best effort past validation: if the insert fails the error
// is logged and swallowed, the token is still handed out, and the email
// still goes. A broken database must not block inviting teammates; at
// worst the link 404s later.
func (s *InviteService) Issue(
	ctx context.Context,
	email string,
	role string,
	inviter domain.User,
) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if email == "" || role == "" {
		log.Warn("invite issuance missing required fields")
		return "", ErrInvalidInviteRequest
	}
	if !domain.ValidRole(role) {
		log.Warn("invite issuance with unknown role", slog.String("role", role))
		return "", ErrInvalidRole
	}

	// 2. Resolve the organization name for the email and the denormalized
	// invite columns. Best effort: an unreachable store degrades to a
	// generic name instead of failing the issuance.
	orgName := "your organization"
	org, err := s.Store.Organizations().GetOrganizationByID(ctx, inviter.OrganizationID)
	if err != nil {
		log.Error("failed to resolve organization for invite",
			slog.String("organization_id", inviter.OrganizationID),
			slog.Any("error", err),
		)
	} else {
		orgName = org.Name
	}

	// 3. Mint the token and fingerprint it.
	now := time.Now()
	token, expiresAt := GenerateInviteToken(now, s.Config.TTL)
	fingerprint := cryptox.FingerprintToken(token)

	invite := domain.Invite{
		ID:               idx.New().String(),
		Email:            email,
		Role:             role,
		TokenHash:        fingerprint,
		OrganizationID:   inviter.OrganizationID,
		OrganizationName: orgName,
		InviterName:      inviter.Name,
		CreatedBy:        inviter.ID,
		ExpiresAt:        expiresAt,
	}

	// 4. Persist, best effort.
	if err := s.Store.Invites().CreateInvite(ctx, invite); err != nil {
		log.Error("failed to store invite, continuing anyway",
			slog.String("invite_id", invite.ID),
			slog.String("email", email),
			slog.Any("error", err),
		)
	} else {
		log.Debug("invite created",
			slog.String("invite_id", invite.ID),
			slog.String("email", email),
			slog.String("role", role),
			slog.Time("expires_at", expiresAt),
		)
	}

	// 5. Send the email. The mailer never reports failure to us.
	subject, html, err := mailer.RenderInvite(s.Config.SiteBaseURL, token, mailer.InviteEmail{
		InviterName:      inviter.Name,
		OrganizationName: orgName,
		Role:             role,
	})
	if err != nil {
		log.Error("failed to render invite email", slog.Any("error", err))
	} else {
		s.Mailer.Send(ctx, email, subject, html)
	}

	return token, nil
}

// Validate resolves an invite token to its record.
//
// Error order is fixed: missing token, then lookup, then expiry, then
// redemption. A clean not-found is ErrInviteNotFound; a store failure is
// either the configured fallback record or the raw error, never a 404 in
// disguise.
func (s *InviteService) Validate(ctx context.Context, token string) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	invite, err := s.lookup(ctx, token)
	if err == nil {
		return invite, nil
	}

	switch {
	case errors.Is(err, ErrMissingToken),
		errors.Is(err, ErrInviteNotFound),
		errors.Is(err, ErrInviteExpired),
		errors.Is(err, ErrInviteRedeemed):
		return domain.Invite{}, err
	}

	// Store unavailable.
	if s.Config.FallbackAllowed {
		log.Warn("invite store unavailable, serving fallback invite",
			slog.Any("error", err),
		)
		return fallbackInvite(time.Now()), nil
	}

	log.Error("invite store unavailable", slog.Any("error", err))
	return domain.Invite{}, err
}

// lookup is the strict validation path shared by Validate and Redeem.
func (s *InviteService) lookup(ctx context.Context, token string) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.Invite{}, ErrMissingToken
	}

	fingerprint := cryptox.FingerprintToken(token)
	invite, err := s.Store.Invites().GetInviteByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("validation attempted with unknown invite token")
			return domain.Invite{}, ErrInviteNotFound
		}
		return domain.Invite{}, err
	}

	if invite.Expired(time.Now()) {
		log.Warn("validation attempted with expired invite",
			slog.String("invite_id", invite.ID),
			slog.Time("expires_at", invite.ExpiresAt),
		)
		return domain.Invite{}, ErrInviteExpired
	}

	if invite.Redeemed() {
		log.Warn("validation attempted with redeemed invite",
			slog.String("invite_id", invite.ID),
		)
		return domain.Invite{}, ErrInviteRedeemed
	}

	return invite, nil
}

// Redeem turns a valid invite into a user account and burns the token.
// User creation and the redeemed_at stamp commit in one transaction, so
// a token can never mint two accounts.
func (s *InviteService) Redeem(
	ctx context.Context,
	token string,
	name string,
	password string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if name == "" || password == "" {
		log.Warn("invite redemption missing required fields")
		return domain.User{}, ErrInvalidInviteRequest
	}

	// Strict lookup: no fallback here, a synthetic invite cannot create
	// a real account.
	invite, err := s.lookup(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	if invite.OrganizationID == "" {
		return domain.User{}, ErrInviteNotFound
	}

	// Reject duplicate accounts up front for a clean error. The unique
	// index on users.email still backstops races.
	_, err = s.Store.Users().GetUserByEmail(ctx, invite.Email)
	if err == nil {
		log.Warn("invite redemption for already-registered email",
			slog.String("invite_id", invite.ID),
		)
		return domain.User{}, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.User{}, err
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	newUser := domain.User{
		ID:             idx.New().String(),
		Email:          invite.Email,
		Name:           name,
		PasswordHash:   passwordHash,
		OrganizationID: invite.OrganizationID,
		Role:           invite.Role,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, newUser); err != nil {
			log.Error("failed to create user from invite",
				slog.String("invite_id", invite.ID),
				slog.Any("error", err),
			)
			return err
		}
		if err := tx.Invites().MarkInviteRedeemed(ctx, invite.ID, newUser.ID); err != nil {
			log.Error("failed to mark invite redeemed",
				slog.String("invite_id", invite.ID),
				slog.String("user_id", newUser.ID),
				slog.Any("error", err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered via invite",
		slog.String("user_id", newUser.ID),
		slog.String("invite_id", invite.ID),
		slog.String("organization_id", invite.OrganizationID),
		slog.String("role", invite.Role),
	)

	return newUser, nil
}
