package sqlite

import (
	"context"
	"time"

	"github.com/carbonpath/csrd/internal/domain"
)

type assessmentsRepo struct {
	q dbtx
}

func (r *assessmentsRepo) CreateAssessment(ctx context.Context, a domain.Assessment) error {
	now := fmtTime(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO assessments (
			id, organization_id, year, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.OrganizationID, a.Year, a.Status, now, now,
	)
	return err
}

func (r *assessmentsRepo) GetAssessmentByID(ctx context.Context, id string) (domain.Assessment, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, organization_id, year, status, created_at, updated_at
		FROM assessments
		WHERE id = ?`,
		id,
	)

	var (
		a                    domain.Assessment
		createdAt, updatedAt string
	)
	err := row.Scan(&a.ID, &a.OrganizationID, &a.Year, &a.Status, &createdAt, &updatedAt)
	if err != nil {
		return domain.Assessment{}, mapNotFound(err)
	}

	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return a, nil
}

func (r *assessmentsRepo) UpsertScore(ctx context.Context, s domain.TopicScore) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO assessment_scores (
			assessment_id, topic_code, impact_score, financial_score, updated_at
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (assessment_id, topic_code) DO UPDATE SET
			impact_score = excluded.impact_score,
			financial_score = excluded.financial_score,
			updated_at = excluded.updated_at`,
		s.AssessmentID, s.TopicCode, s.ImpactScore, s.FinancialScore,
		fmtTime(time.Now()),
	)
	return err
}

func (r *assessmentsRepo) ListScores(ctx context.Context, assessmentID string) ([]domain.TopicScore, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT assessment_id, topic_code, impact_score, financial_score, updated_at
		FROM assessment_scores
		WHERE assessment_id = ?
		ORDER BY topic_code`,
		assessmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []domain.TopicScore
	for rows.Next() {
		var (
			s         domain.TopicScore
			updatedAt string
		)
		if err := rows.Scan(&s.AssessmentID, &s.TopicCode, &s.ImpactScore, &s.FinancialScore, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt = parseTime(updatedAt)
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (r *assessmentsRepo) CompleteAssessment(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE assessments
		SET status = ?, updated_at = ?
		WHERE id = ?`,
		domain.AssessmentCompleted, fmtTime(time.Now()), id,
	)
	return err
}

func (r *assessmentsRepo) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT code, name, description
		FROM topics
		ORDER BY code`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.Code, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *assessmentsRepo) GetTopicByCode(ctx context.Context, code string) (domain.Topic, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT code, name, description
		FROM topics
		WHERE code = ?`,
		code,
	)

	var t domain.Topic
	if err := row.Scan(&t.Code, &t.Name, &t.Description); err != nil {
		return domain.Topic{}, mapNotFound(err)
	}
	return t, nil
}
