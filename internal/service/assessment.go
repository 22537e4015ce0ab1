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
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrAssessmentCompleted  = errors.New("assessment is completed and read-only")
	ErrAssessmentIncomplete = errors.New("assessment has no scores yet")
	ErrInvalidScore         = errors.New("scores must be between 1 and 5")
	ErrUnknownTopic         = errors.New("unknown topic code")
)

// ScoreInput is one topic rating from the assessment wizard.
type ScoreInput struct {
	TopicCode      string
	ImpactScore    int
	FinancialScore int
}

// AssessmentResult is an assessment with its scores and the derived
// material topic set.
type AssessmentResult struct {
	Assessment     domain.Assessment
	Scores         []domain.TopicScore
	MaterialTopics []string
}

// AssessmentService runs the double-materiality assessment wizard.
type AssessmentService struct {
	Store store.Store
}

// Start opens a draft assessment for the organization and reporting year.
func (s *AssessmentService) Start(ctx context.Context, orgID string, year int) (domain.Assessment, error) {
	log := slogx.FromContext(ctx)

	a := domain.Assessment{
		ID:             idx.New().String(),
		OrganizationID: orgID,
		Year:           year,
		Status:         domain.AssessmentDraft,
	}
	if err := s.Store.Assessments().CreateAssessment(ctx, a); err != nil {
		log.Error("failed to create assessment", slog.Any("error", err))
		return domain.Assessment{}, err
	}

	log.Info("assessment started",
		slog.String("assessment_id", a.ID),
		slog.String("organization_id", orgID),
		slog.Int("year", year),
	)
	return a, nil
}

// get fetches an assessment and enforces organization ownership. A hit
// belonging to another org reads as not found.
func (s *AssessmentService) get(ctx context.Context, id, orgID string) (domain.Assessment, error) {
	a, err := s.Store.Assessments().GetAssessmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Assessment{}, ErrAssessmentNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch assessment", slog.Any("error", err))
		return domain.Assessment{}, err
	}
	if a.OrganizationID != orgID {
		return domain.Assessment{}, ErrAssessmentNotFound
	}
	return a, nil
}

// SubmitScores upserts topic ratings on a draft assessment. All scores
// are validated before any write happens, and the batch commits in one
// transaction.
func (s *AssessmentService) SubmitScores(
	ctx context.Context,
	id string,
	orgID string,
	scores []ScoreInput,
) error {
	log := slogx.FromContext(ctx)

	a, err := s.get(ctx, id, orgID)
	if err != nil {
		return err
	}
	if a.Completed() {
		log.Warn("score submission on completed assessment",
			slog.String("assessment_id", id),
		)
		return ErrAssessmentCompleted
	}

	for _, in := range scores {
		if in.ImpactScore < domain.ScoreMin || in.ImpactScore > domain.ScoreMax ||
			in.FinancialScore < domain.ScoreMin || in.FinancialScore > domain.ScoreMax {
			return fmt.Errorf("%w: topic %s", ErrInvalidScore, in.TopicCode)
		}
		if _, err := s.Store.Assessments().GetTopicByCode(ctx, in.TopicCode); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownTopic, in.TopicCode)
			}
			log.Error("failed to fetch topic", slog.Any("error", err))
			return err
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, in := range scores {
			score := domain.TopicScore{
				AssessmentID:   id,
				TopicCode:      in.TopicCode,
				ImpactScore:    in.ImpactScore,
				FinancialScore: in.FinancialScore,
			}
			if err := tx.Assessments().UpsertScore(ctx, score); err != nil {
				log.Error("failed to upsert score",
					slog.String("assessment_id", id),
					slog.String("topic_code", in.TopicCode),
					slog.Any("error", err),
				)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug("scores submitted",
		slog.String("assessment_id", id),
		slog.Int("count", len(scores)),
	)
	return nil
}

// Get returns the assessment with its scores and computed material
// topics.
func (s *AssessmentService) Get(ctx context.Context, id, orgID string) (AssessmentResult, error) {
	a, err := s.get(ctx, id, orgID)
	if err != nil {
		return AssessmentResult{}, err
	}

	scores, err := s.Store.Assessments().ListScores(ctx, id)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list scores", slog.Any("error", err))
		return AssessmentResult{}, err
	}

	return AssessmentResult{
		Assessment:     a,
		Scores:         scores,
		MaterialTopics: materialTopics(scores),
	}, nil
}

// Complete freezes the assessment. At least one score must exist, and a
// completed assessment rejects a second call.
func (s *AssessmentService) Complete(ctx context.Context, id, orgID string) (domain.Assessment, error) {
	log := slogx.FromContext(ctx)

	a, err := s.get(ctx, id, orgID)
	if err != nil {
		return domain.Assessment{}, err
	}
	if a.Completed() {
		return domain.Assessment{}, ErrAssessmentCompleted
	}

	scores, err := s.Store.Assessments().ListScores(ctx, id)
	if err != nil {
		log.Error("failed to list scores", slog.Any("error", err))
		return domain.Assessment{}, err
	}
	if len(scores) == 0 {
		return domain.Assessment{}, ErrAssessmentIncomplete
	}

	if err := s.Store.Assessments().CompleteAssessment(ctx, id); err != nil {
		log.Error("failed to complete assessment",
			slog.String("assessment_id", id),
			slog.Any("error", err),
		)
		return domain.Assessment{}, err
	}

	a.Status = domain.AssessmentCompleted
	log.Info("assessment completed",
		slog.String("assessment_id", id),
		slog.Int("material_topics", len(materialTopics(scores))),
	)
	return a, nil
}

// Topics returns the seeded ESRS topic catalog.
func (s *AssessmentService) Topics(ctx context.Context) ([]domain.Topic, error) {
	topics, err := s.Store.Assessments().ListTopics(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list topics", slog.Any("error", err))
		return nil, err
	}
	return topics, nil
}

func materialTopics(scores []domain.TopicScore) []string {
	var codes []string
	for _, sc := range scores {
		if sc.Material() {
			codes = append(codes, sc.TopicCode)
		}
	}
	return codes
}
