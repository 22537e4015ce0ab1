package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/carbonpath/csrd/internal/domain"
)

type reportsRepo struct {
	q dbtx
}

func (r *reportsRepo) CreateReport(ctx context.Context, rep domain.Report) error {
	now := fmtTime(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO reports (
			id, organization_id, assessment_id, year, title, status,
			published_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		rep.ID, rep.OrganizationID, rep.AssessmentID, rep.Year, rep.Title,
		rep.Status, now, now,
	)
	return err
}

func (r *reportsRepo) GetReportByID(ctx context.Context, id string) (domain.Report, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, organization_id, assessment_id, year, title, status,
		       published_at, created_at, updated_at
		FROM reports
		WHERE id = ?`,
		id,
	)

	var (
		rep                  domain.Report
		publishedAt          sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&rep.ID, &rep.OrganizationID, &rep.AssessmentID, &rep.Year,
		&rep.Title, &rep.Status, &publishedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Report{}, mapNotFound(err)
	}

	rep.PublishedAt = parseTimePtr(publishedAt)
	rep.CreatedAt = parseTime(createdAt)
	rep.UpdatedAt = parseTime(updatedAt)
	return rep, nil
}

func (r *reportsRepo) CreateSection(ctx context.Context, s domain.Section) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO report_sections (
			id, report_id, topic_code, heading, body, position, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ReportID, s.TopicCode, s.Heading, s.Body, s.Position,
		fmtTime(time.Now()),
	)
	return err
}

func (r *reportsRepo) ListSections(ctx context.Context, reportID string) ([]domain.Section, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, report_id, topic_code, heading, body, position, updated_at
		FROM report_sections
		WHERE report_id = ?
		ORDER BY position`,
		reportID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var (
			s         domain.Section
			updatedAt string
		)
		if err := rows.Scan(&s.ID, &s.ReportID, &s.TopicCode, &s.Heading, &s.Body, &s.Position, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt = parseTime(updatedAt)
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *reportsRepo) GetSectionByID(ctx context.Context, reportID, sectionID string) (domain.Section, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, report_id, topic_code, heading, body, position, updated_at
		FROM report_sections
		WHERE report_id = ? AND id = ?`,
		reportID, sectionID,
	)

	var (
		s         domain.Section
		updatedAt string
	)
	err := row.Scan(&s.ID, &s.ReportID, &s.TopicCode, &s.Heading, &s.Body, &s.Position, &updatedAt)
	if err != nil {
		return domain.Section{}, mapNotFound(err)
	}

	s.UpdatedAt = parseTime(updatedAt)
	return s, nil
}

func (r *reportsRepo) UpdateSectionBody(ctx context.Context, sectionID, body string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE report_sections
		SET body = ?, updated_at = ?
		WHERE id = ?`,
		body, fmtTime(time.Now()), sectionID,
	)
	return err
}

func (r *reportsRepo) PublishReport(ctx context.Context, id string) error {
	now := fmtTime(time.Now())
	_, err := r.q.ExecContext(ctx, `
		UPDATE reports
		SET status = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		domain.ReportPublished, now, now, id,
	)
	return err
}
