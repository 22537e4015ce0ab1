package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/pkg/idx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrReportPublished   = errors.New("report is published and read-only")
	ErrSectionNotFound   = errors.New("report section not found")
	ErrNoMaterialTopics  = errors.New("assessment has no material topics")
	ErrAssessmentNotDone = errors.New("assessment must be completed first")
)

// ReportWithSections is a report plus its ordered sections.
type ReportWithSections struct {
	Report   domain.Report
	Sections []domain.Section
}

// ReportService builds CSRD disclosure reports on top of completed
// materiality assessments.
type ReportService struct {
	Store   store.Store
	Suggest *SuggestService
}

// Create opens a draft report for the given completed assessment, seeded
// with one empty section per material topic in catalog order.
func (s *ReportService) Create(
	ctx context.Context,
	orgID string,
	assessmentID string,
	title string,
) (ReportWithSections, error) {
	log := slogx.FromContext(ctx)

	a, err := s.Store.Assessments().GetAssessmentByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ReportWithSections{}, ErrAssessmentNotFound
		}
		log.Error("failed to fetch assessment", slog.Any("error", err))
		return ReportWithSections{}, err
	}
	if a.OrganizationID != orgID {
		return ReportWithSections{}, ErrAssessmentNotFound
	}
	if !a.Completed() {
		return ReportWithSections{}, ErrAssessmentNotDone
	}

	scores, err := s.Store.Assessments().ListScores(ctx, assessmentID)
	if err != nil {
		log.Error("failed to list scores", slog.Any("error", err))
		return ReportWithSections{}, err
	}
	material := materialTopics(scores)
	if len(material) == 0 {
		return ReportWithSections{}, ErrNoMaterialTopics
	}

	if title == "" {
		title = fmt.Sprintf("CSRD Sustainability Statement %d", a.Year)
	}

	rep := domain.Report{
		ID:             idx.New().String(),
		OrganizationID: orgID,
		AssessmentID:   assessmentID,
		Year:           a.Year,
		Title:          title,
		Status:         domain.ReportDraft,
	}

	var sections []domain.Section
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Reports().CreateReport(ctx, rep); err != nil {
			log.Error("failed to create report", slog.Any("error", err))
			return err
		}
		for pos, code := range material {
			topic, err := tx.Assessments().GetTopicByCode(ctx, code)
			if err != nil {
				log.Error("failed to fetch topic for section",
					slog.String("topic_code", code),
					slog.Any("error", err),
				)
				return err
			}
			sec := domain.Section{
				ID:        idx.New().String(),
				ReportID:  rep.ID,
				TopicCode: code,
				Heading:   fmt.Sprintf("%s: %s", topic.Code, topic.Name),
				Position:  pos + 1,
			}
			if err := tx.Reports().CreateSection(ctx, sec); err != nil {
				log.Error("failed to create section",
					slog.String("topic_code", code),
					slog.Any("error", err),
				)
				return err
			}
			sections = append(sections, sec)
		}
		return nil
	})
	if err != nil {
		return ReportWithSections{}, err
	}

	log.Info("report created",
		slog.String("report_id", rep.ID),
		slog.String("assessment_id", assessmentID),
		slog.Int("sections", len(sections)),
	)
	return ReportWithSections{Report: rep, Sections: sections}, nil
}

// get fetches a report and enforces organization ownership.
func (s *ReportService) get(ctx context.Context, id, orgID string) (domain.Report, error) {
	rep, err := s.Store.Reports().GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Report{}, ErrReportNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch report", slog.Any("error", err))
		return domain.Report{}, err
	}
	if rep.OrganizationID != orgID {
		return domain.Report{}, ErrReportNotFound
	}
	return rep, nil
}

// Get returns a report with its sections.
func (s *ReportService) Get(ctx context.Context, id, orgID string) (ReportWithSections, error) {
	rep, err := s.get(ctx, id, orgID)
	if err != nil {
		return ReportWithSections{}, err
	}

	sections, err := s.Store.Reports().ListSections(ctx, id)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list sections", slog.Any("error", err))
		return ReportWithSections{}, err
	}

	return ReportWithSections{Report: rep, Sections: sections}, nil
}

// UpdateSection replaces a section body on a draft report.
func (s *ReportService) UpdateSection(
	ctx context.Context,
	reportID string,
	sectionID string,
	orgID string,
	body string,
) (domain.Section, error) {
	log := slogx.FromContext(ctx)

	rep, err := s.get(ctx, reportID, orgID)
	if err != nil {
		return domain.Section{}, err
	}
	if rep.Published() {
		return domain.Section{}, ErrReportPublished
	}

	sec, err := s.Store.Reports().GetSectionByID(ctx, reportID, sectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Section{}, ErrSectionNotFound
		}
		log.Error("failed to fetch section", slog.Any("error", err))
		return domain.Section{}, err
	}

	if err := s.Store.Reports().UpdateSectionBody(ctx, sectionID, body); err != nil {
		log.Error("failed to update section",
			slog.String("section_id", sectionID),
			slog.Any("error", err),
		)
		return domain.Section{}, err
	}

	sec.Body = body
	log.Debug("section updated",
		slog.String("report_id", reportID),
		slog.String("section_id", sectionID),
	)
	return sec, nil
}

// SuggestSection fills a draft section with generated text for its topic.
func (s *ReportService) SuggestSection(
	ctx context.Context,
	reportID string,
	sectionID string,
	orgID string,
) (domain.Section, error) {
	rep, err := s.get(ctx, reportID, orgID)
	if err != nil {
		return domain.Section{}, err
	}
	if rep.Published() {
		return domain.Section{}, ErrReportPublished
	}

	sec, err := s.Store.Reports().GetSectionByID(ctx, reportID, sectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Section{}, ErrSectionNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch section", slog.Any("error", err))
		return domain.Section{}, err
	}

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, rep.OrganizationID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to fetch organization", slog.Any("error", err))
		return domain.Section{}, err
	}

	body := s.Suggest.SectionText(sec.TopicCode, org.Name, rep.Year)
	return s.UpdateSection(ctx, reportID, sectionID, orgID, body)
}

// Publish freezes a draft report. Published reports reject edits.
func (s *ReportService) Publish(ctx context.Context, id, orgID string) (domain.Report, error) {
	log := slogx.FromContext(ctx)

	rep, err := s.get(ctx, id, orgID)
	if err != nil {
		return domain.Report{}, err
	}
	if rep.Published() {
		return domain.Report{}, ErrReportPublished
	}

	if err := s.Store.Reports().PublishReport(ctx, id); err != nil {
		log.Error("failed to publish report",
			slog.String("report_id", id),
			slog.Any("error", err),
		)
		return domain.Report{}, err
	}

	rep.Status = domain.ReportPublished
	log.Info("report published", slog.String("report_id", id))
	return rep, nil
}
