package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/pkg/cryptox"
	"github.com/carbonpath/csrd/pkg/idx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

var ErrInvalidOnboardingRequest = errors.New("invalid onboarding request")

// OnboardingData is the signup form: the organization profile plus the
// founding admin's account details.
type OnboardingData struct {
	OrganizationName string
	Sector           string
	Country          string
	EmployeeCount    int
	ReportingYear    int

	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// OnboardingService creates an organization together with its first
// admin user. Every later account in the org comes through an invite.
type OnboardingService struct {
	Store store.Store
}

// Onboard creates the organization and its admin atomically and returns
// both records.
func (s *OnboardingService) Onboard(
	ctx context.Context,
	data OnboardingData,
) (domain.Organization, domain.User, error) {
	log := slogx.FromContext(ctx)

	if data.OrganizationName == "" || data.AdminEmail == "" ||
		data.AdminName == "" || data.AdminPassword == "" {
		log.Warn("onboarding missing required fields")
		return domain.Organization{}, domain.User{}, ErrInvalidOnboardingRequest
	}

	_, err := s.Store.Users().GetUserByEmail(ctx, data.AdminEmail)
	if err == nil {
		log.Warn("onboarding attempted with already-registered email")
		return domain.Organization{}, domain.User{}, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.Organization{}, domain.User{}, err
	}

	passwordHash, err := cryptox.HashPassword(data.AdminPassword)
	if err != nil {
		log.Error("failed to hash admin password", slog.Any("error", err))
		return domain.Organization{}, domain.User{}, err
	}

	org := domain.Organization{
		ID:            idx.New().String(),
		Name:          data.OrganizationName,
		Sector:        data.Sector,
		Country:       data.Country,
		EmployeeCount: data.EmployeeCount,
		ReportingYear: data.ReportingYear,
	}
	admin := domain.User{
		ID:             idx.New().String(),
		Email:          data.AdminEmail,
		Name:           data.AdminName,
		PasswordHash:   passwordHash,
		OrganizationID: org.ID,
		Role:           domain.RoleAdmin,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			log.Error("failed to create organization", slog.Any("error", err))
			return err
		}
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			log.Error("failed to create admin user", slog.Any("error", err))
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Organization{}, domain.User{}, err
	}

	log.Info("organization onboarded",
		slog.String("organization_id", org.ID),
		slog.String("admin_user_id", admin.ID),
	)

	return org, admin, nil
}
