package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carbonpath/csrd/internal/domain"
)

// completedAssessment seeds a completed assessment with E1 and S1
// material and E3 immaterial.
func completedAssessment(t *testing.T, svc *AssessmentService, orgID string) domain.Assessment {
	t.Helper()
	ctx := context.Background()

	a, err := svc.Start(ctx, orgID, 2025)
	require.NoError(t, err)

	require.NoError(t, svc.SubmitScores(ctx, a.ID, orgID, []ScoreInput{
		{TopicCode: "E1", ImpactScore: 5, FinancialScore: 5},
		{TopicCode: "E3", ImpactScore: 1, FinancialScore: 2},
		{TopicCode: "S1", ImpactScore: 2, FinancialScore: 4},
	}))

	completed, err := svc.Complete(ctx, a.ID, orgID)
	require.NoError(t, err)
	return completed
}

func TestCreateReportSeedsMaterialSections(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org, _ := seedOrgAndAdmin(t, st)

	assessments := &AssessmentService{Store: st}
	a := completedAssessment(t, assessments, org.ID)

	svc := &ReportService{Store: st, Suggest: &SuggestService{}}

	rep, err := svc.Create(ctx, org.ID, a.ID, "")
	require.NoError(t, err)
	require.Equal(t, domain.ReportDraft, rep.Report.Status)
	require.Equal(t, "CSRD Sustainability Statement 2025", rep.Report.Title)

	// One section per material topic, in catalog order, bodies empty.
	require.Len(t, rep.Sections, 2)
	require.Equal(t, "E1", rep.Sections[0].TopicCode)
	require.Equal(t, "E1: Climate Change", rep.Sections[0].Heading)
	require.Equal(t, "S1", rep.Sections[1].TopicCode)
	require.Empty(t, rep.Sections[0].Body)
	require.Equal(t, 1, rep.Sections[0].Position)
	require.Equal(t, 2, rep.Sections[1].Position)
}

func TestCreateReportPreconditions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org, _ := seedOrgAndAdmin(t, st)

	assessments := &AssessmentService{Store: st}
	svc := &ReportService{Store: st, Suggest: &SuggestService{}}

	_, err := svc.Create(ctx, org.ID, "missing-assessment", "")
	require.ErrorIs(t, err, ErrAssessmentNotFound)

	// Draft assessments cannot back a report.
	draft, err := assessments.Start(ctx, org.ID, 2025)
	require.NoError(t, err)
	_, err = svc.Create(ctx, org.ID, draft.ID, "")
	require.ErrorIs(t, err, ErrAssessmentNotDone)

	// Completed but with nothing material.
	immaterial, err := assessments.Start(ctx, org.ID, 2026)
	require.NoError(t, err)
	require.NoError(t, assessments.SubmitScores(ctx, immaterial.ID, org.ID, []ScoreInput{
		{TopicCode: "E2", ImpactScore: 1, FinancialScore: 1},
	}))
	_, err = assessments.Complete(ctx, immaterial.ID, org.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, org.ID, immaterial.ID, "")
	require.ErrorIs(t, err, ErrNoMaterialTopics)
}

func TestSectionEditingAndSuggestion(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org, _ := seedOrgAndAdmin(t, st)

	assessments := &AssessmentService{Store: st}
	a := completedAssessment(t, assessments, org.ID)

	svc := &ReportService{Store: st, Suggest: &SuggestService{}}
	rep, err := svc.Create(ctx, org.ID, a.ID, "Annual Statement")
	require.NoError(t, err)

	sec := rep.Sections[0]

	updated, err := svc.UpdateSection(ctx, rep.Report.ID, sec.ID, org.ID, "Our climate disclosures.")
	require.NoError(t, err)
	require.Equal(t, "Our climate disclosures.", updated.Body)

	// Suggestion fills the section with topic text mentioning the org.
	suggested, err := svc.SuggestSection(ctx, rep.Report.ID, rep.Sections[1].ID, org.ID)
	require.NoError(t, err)
	require.Contains(t, suggested.Body, org.Name)
	require.Contains(t, suggested.Body, "2025")

	got, err := svc.Get(ctx, rep.Report.ID, org.ID)
	require.NoError(t, err)
	require.Equal(t, "Our climate disclosures.", got.Sections[0].Body)
	require.Equal(t, suggested.Body, got.Sections[1].Body)

	_, err = svc.UpdateSection(ctx, rep.Report.ID, "missing-section", org.ID, "x")
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestPublishFreezesReport(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org, _ := seedOrgAndAdmin(t, st)

	assessments := &AssessmentService{Store: st}
	a := completedAssessment(t, assessments, org.ID)

	svc := &ReportService{Store: st, Suggest: &SuggestService{}}
	rep, err := svc.Create(ctx, org.ID, a.ID, "")
	require.NoError(t, err)

	published, err := svc.Publish(ctx, rep.Report.ID, org.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReportPublished, published.Status)

	got, err := svc.Get(ctx, rep.Report.ID, org.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Report.PublishedAt)

	_, err = svc.UpdateSection(ctx, rep.Report.ID, rep.Sections[0].ID, org.ID, "too late")
	require.ErrorIs(t, err, ErrReportPublished)

	_, err = svc.SuggestSection(ctx, rep.Report.ID, rep.Sections[0].ID, org.ID)
	require.ErrorIs(t, err, ErrReportPublished)

	_, err = svc.Publish(ctx, rep.Report.ID, org.ID)
	require.ErrorIs(t, err, ErrReportPublished)
}

func TestReportScopedToOrganization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org, _ := seedOrgAndAdmin(t, st)

	assessments := &AssessmentService{Store: st}
	a := completedAssessment(t, assessments, org.ID)

	svc := &ReportService{Store: st, Suggest: &SuggestService{}}
	rep, err := svc.Create(ctx, org.ID, a.ID, "")
	require.NoError(t, err)

	_, err = svc.Get(ctx, rep.Report.ID, "other-org")
	require.ErrorIs(t, err, ErrReportNotFound)

	_, err = svc.Create(ctx, "other-org", a.ID, "")
	require.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestSuggestServiceText(t *testing.T) {
	svc := &SuggestService{}

	for _, code := range []string{"E1", "E2", "E3", "E4", "E5", "S1", "S2", "S3", "S4", "G1"} {
		text := svc.SectionText(code, "Acme GmbH", 2025)
		require.Contains(t, text, "Acme GmbH", "topic %s", code)
		require.Contains(t, text, "2025", "topic %s", code)
	}

	// Deterministic output.
	require.Equal(t,
		svc.SectionText("E1", "Acme GmbH", 2025),
		svc.SectionText("E1", "Acme GmbH", 2025),
	)

	// Unknown topics get the generic paragraph instead of an error.
	generic := svc.SectionText("Z9", "Acme GmbH", 2025)
	require.Contains(t, generic, "Acme GmbH")
	require.Contains(t, generic, "2025")
}
