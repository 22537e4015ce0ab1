package sqlite

import (
	"context"
	"time"

	"github.com/carbonpath/csrd/internal/domain"
)

type organizationsRepo struct {
	q dbtx
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	now := fmtTime(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO organizations (
			id, name, sector, country, employee_count, reporting_year,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Sector, o.Country, o.EmployeeCount, o.ReportingYear,
		now, now,
	)
	return err
}

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, sector, country, employee_count, reporting_year,
		       created_at, updated_at
		FROM organizations
		WHERE id = ?`,
		id,
	)

	var (
		o                    domain.Organization
		createdAt, updatedAt string
	)
	err := row.Scan(
		&o.ID, &o.Name, &o.Sector, &o.Country, &o.EmployeeCount,
		&o.ReportingYear, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}

	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	return o, nil
}

func (r *organizationsRepo) UpdateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE organizations
		SET name = ?, sector = ?, country = ?, employee_count = ?,
		    reporting_year = ?, updated_at = ?
		WHERE id = ?`,
		o.Name, o.Sector, o.Country, o.EmployeeCount, o.ReportingYear,
		fmtTime(time.Now()), o.ID,
	)
	return err
}
