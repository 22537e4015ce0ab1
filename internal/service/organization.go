package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/pkg/slogx"
)

var ErrOrganizationNotFound = errors.New("organization not found")

// OrganizationService serves and updates the organization profile.
// Callers are always scoped to their own organization by the handlers.
type OrganizationService struct {
	Store store.Store
}

func (s *OrganizationService) Get(ctx context.Context, id string) (domain.Organization, error) {
	org, err := s.Store.Organizations().GetOrganizationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Organization{}, ErrOrganizationNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch organization", slog.Any("error", err))
		return domain.Organization{}, err
	}
	return org, nil
}

// UpdateProfile replaces the mutable profile fields. Zero-valued fields
// in upd are kept from the stored record, so partial updates work.
func (s *OrganizationService) UpdateProfile(
	ctx context.Context,
	id string,
	upd domain.Organization,
) (domain.Organization, error) {
	log := slogx.FromContext(ctx)

	org, err := s.Get(ctx, id)
	if err != nil {
		return domain.Organization{}, err
	}

	if upd.Name != "" {
		org.Name = upd.Name
	}
	if upd.Sector != "" {
		org.Sector = upd.Sector
	}
	if upd.Country != "" {
		org.Country = upd.Country
	}
	if upd.EmployeeCount > 0 {
		org.EmployeeCount = upd.EmployeeCount
	}
	if upd.ReportingYear > 0 {
		org.ReportingYear = upd.ReportingYear
	}

	if err := s.Store.Organizations().UpdateOrganization(ctx, org); err != nil {
		log.Error("failed to update organization",
			slog.String("organization_id", id),
			slog.Any("error", err),
		)
		return domain.Organization{}, err
	}

	log.Debug("organization updated", slog.String("organization_id", id))
	return org, nil
}
