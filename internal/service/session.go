package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/pkg/cryptox"
	"github.com/carbonpath/csrd/pkg/jwtx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// SessionService exchanges email+password for a signed access token.
type SessionService struct {
	Store      store.Store
	KeyManager *jwtx.KeyManager
	Issuer     string
	TokenTTL   time.Duration
}

// Login verifies credentials and mints an EdDSA-signed access token
// carrying the user's organization, role, and scopes. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *SessionService) Login(
	ctx context.Context,
	email string,
	password string,
) (token string, user domain.User, err error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return "", domain.User{}, ErrInvalidCredentials
	}

	user, err = s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempt for unknown email")
			return "", domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return "", domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login attempt with wrong password",
			slog.String("user_id", user.ID),
		)
		return "", domain.User{}, ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(
		user.ID,
		user.OrganizationID,
		user.Role,
		domain.ScopesForRole(user.Role),
		ttl,
		s.Issuer,
		user.Email,
		user.Name,
		time.Now(),
	)

	token, err = s.KeyManager.GetSigner().Sign(claims)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("session created",
		slog.String("user_id", user.ID),
		slog.String("organization_id", user.OrganizationID),
		slog.String("role", user.Role),
	)

	return token, user, nil
}
