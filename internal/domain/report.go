package domain

import "time"

// Report statuses.
const (
	ReportDraft     = "draft"
	ReportPublished = "published"
)

// Report is a CSRD disclosure document built from a completed materiality
// assessment. Creating a report seeds one section per material topic;
// publishing freezes all sections.
type Report struct {
	ID             string
	OrganizationID string
	AssessmentID   string
	Year           int
	Title          string
	Status         string
	PublishedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Published reports whether the report has been frozen.
func (r Report) Published() bool {
	return r.Status == ReportPublished
}

// Section is one topic chapter of a report. Body starts empty and is
// filled by the author or by the suggestion service.
type Section struct {
	ID        string
	ReportID  string
	TopicCode string
	Heading   string
	Body      string
	Position  int
	UpdatedAt time.Time
}
