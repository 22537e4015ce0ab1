package domain

import "time"

// Assessment statuses.
const (
	AssessmentDraft     = "draft"
	AssessmentCompleted = "completed"
)

// Score bounds for impact and financial materiality ratings.
const (
	ScoreMin = 1
	ScoreMax = 5
)

// MaterialityThreshold is the score at or above which a topic counts as
// material on either the impact or the financial axis (double materiality:
// one axis is enough).
const MaterialityThreshold = 3

// Topic is an ESRS disclosure topic (E1..E5, S1..S4, G1). The catalog is
// seeded by migrations and read-only at runtime.
type Topic struct {
	Code        string
	Name        string
	Description string
}

// Assessment is one materiality-assessment run for an organization and
// reporting year. Scores can only change while the assessment is a draft;
// completing it freezes the result so reports can be built on it.
type Assessment struct {
	ID             string
	OrganizationID string
	Year           int
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Completed reports whether the assessment has been frozen.
func (a Assessment) Completed() bool {
	return a.Status == AssessmentCompleted
}

// TopicScore is the double-materiality rating of one topic within an
// assessment. Both axes are rated 1-5.
type TopicScore struct {
	AssessmentID   string
	TopicCode      string
	ImpactScore    int
	FinancialScore int
	UpdatedAt      time.Time
}

// Material reports whether either materiality axis meets the threshold.
func (s TopicScore) Material() bool {
	return s.ImpactScore >= MaterialityThreshold || s.FinancialScore >= MaterialityThreshold
}
