package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/pkg/httpx"
	"github.com/carbonpath/csrd/pkg/jwtx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

type AssessmentHandler struct {
	AssessmentService *service.AssessmentService
}

func orgFromClaims(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok || claims.OrgID == "" {
		return "", false
	}
	return claims.OrgID, true
}

// HandleStart godoc
//
//	@Summary		Start a materiality assessment
//	@Description	Opens a draft double-materiality assessment for the caller's organization and the given reporting year.
//	@Tags			Assessments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StartAssessmentRequest	true	"Reporting year"
//	@Success		200		{object}	AssessmentResponse		"Draft assessment"
//	@Failure		400		{object}	ErrorResponse			"Invalid year"
//	@Failure		500		{object}	ErrorResponse			"Unexpected failure"
//	@Router			/v1/assessments [post].
func (h *AssessmentHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	var req StartAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}
	if req.Year < 2024 || req.Year > 2100 {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("A valid reporting year is required"))
		return
	}

	a, err := h.AssessmentService.Start(ctx, orgID, req.Year)
	if err != nil {
		log.Error("failed to start assessment", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to start assessment"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AssessmentResponse{
		ID:             a.ID,
		OrganizationID: a.OrganizationID,
		Year:           a.Year,
		Status:         a.Status,
	})
}

// HandleSubmitScores godoc
//
//	@Summary		Submit topic scores
//	@Description	Upserts per-topic impact and financial materiality ratings (1-5) on a draft assessment.
//	@Tags			Assessments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Assessment ID"
//	@Param			request	body		SubmitScoresRequest	true	"Topic ratings"
//	@Success		200		{object}	AssessmentResponse	"Assessment with scores and material topics"
//	@Failure		400		{object}	ErrorResponse		"Invalid score or unknown topic"
//	@Failure		404		{object}	ErrorResponse		"Assessment not found"
//	@Failure		409		{object}	ErrorResponse		"Assessment is completed"
//	@Failure		500		{object}	ErrorResponse		"Unexpected failure"
//	@Router			/v1/assessments/{id}/scores [put].
func (h *AssessmentHandler) HandleSubmitScores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}
	id := r.PathValue("id")

	var req SubmitScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}
	if len(req.Scores) == 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("At least one score is required"))
		return
	}

	scores := make([]service.ScoreInput, 0, len(req.Scores))
	for _, s := range req.Scores {
		scores = append(scores, service.ScoreInput{
			TopicCode:      s.TopicCode,
			ImpactScore:    s.ImpactScore,
			FinancialScore: s.FinancialScore,
		})
	}

	if err := h.AssessmentService.SubmitScores(ctx, id, orgID, scores); err != nil {
		switch {
		case errors.Is(err, service.ErrAssessmentNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Assessment not found"))
		case errors.Is(err, service.ErrAssessmentCompleted):
			httpx.WriteJSON(w, http.StatusConflict, errorResponse("Assessment is completed and read-only"))
		case errors.Is(err, service.ErrInvalidScore):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Scores must be between 1 and 5"))
		case errors.Is(err, service.ErrUnknownTopic):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Unknown topic code"))
		default:
			log.Error("failed to submit scores", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to submit scores"))
		}
		return
	}

	h.writeAssessment(w, r, id, orgID)
}

// HandleGet godoc
//
//	@Summary		Get an assessment
//	@Description	Returns the assessment with its scores and the computed material topic set (material iff either axis is at least 3).
//	@Tags			Assessments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string				true	"Assessment ID"
//	@Success		200	{object}	AssessmentResponse	"Assessment with scores and material topics"
//	@Failure		404	{object}	ErrorResponse		"Assessment not found"
//	@Failure		500	{object}	ErrorResponse		"Unexpected failure"
//	@Router			/v1/assessments/{id} [get].
func (h *AssessmentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}
	h.writeAssessment(w, r, r.PathValue("id"), orgID)
}

// HandleComplete godoc
//
//	@Summary		Complete an assessment
//	@Description	Freezes a draft assessment. Requires at least one submitted score; completed assessments reject further edits.
//	@Tags			Assessments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string				true	"Assessment ID"
//	@Success		200	{object}	AssessmentResponse	"Completed assessment"
//	@Failure		400	{object}	ErrorResponse		"No scores submitted yet"
//	@Failure		404	{object}	ErrorResponse		"Assessment not found"
//	@Failure		409	{object}	ErrorResponse		"Already completed"
//	@Failure		500	{object}	ErrorResponse		"Unexpected failure"
//	@Router			/v1/assessments/{id}/complete [post].
func (h *AssessmentHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}
	id := r.PathValue("id")

	if _, err := h.AssessmentService.Complete(ctx, id, orgID); err != nil {
		switch {
		case errors.Is(err, service.ErrAssessmentNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Assessment not found"))
		case errors.Is(err, service.ErrAssessmentCompleted):
			httpx.WriteJSON(w, http.StatusConflict, errorResponse("Assessment is already completed"))
		case errors.Is(err, service.ErrAssessmentIncomplete):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Submit at least one score before completing"))
		default:
			log.Error("failed to complete assessment", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to complete assessment"))
		}
		return
	}

	h.writeAssessment(w, r, id, orgID)
}

// HandleListTopics godoc
//
//	@Summary		List ESRS topics
//	@Description	Returns the seeded ESRS topic catalog (E1-E5, S1-S4, G1).
//	@Tags			Assessments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		TopicResponse	"Topic catalog"
//	@Failure		500	{object}	ErrorResponse	"Unexpected failure"
//	@Router			/v1/topics [get].
func (h *AssessmentHandler) HandleListTopics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	topics, err := h.AssessmentService.Topics(ctx)
	if err != nil {
		log.Error("failed to list topics", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to list topics"))
		return
	}

	resp := make([]TopicResponse, 0, len(topics))
	for _, t := range topics {
		resp = append(resp, TopicResponse{Code: t.Code, Name: t.Name, Description: t.Description})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *AssessmentHandler) writeAssessment(w http.ResponseWriter, r *http.Request, id, orgID string) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	res, err := h.AssessmentService.Get(ctx, id, orgID)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Assessment not found"))
			return
		}
		log.Error("failed to fetch assessment", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to fetch assessment"))
		return
	}

	resp := AssessmentResponse{
		ID:             res.Assessment.ID,
		OrganizationID: res.Assessment.OrganizationID,
		Year:           res.Assessment.Year,
		Status:         res.Assessment.Status,
		MaterialTopics: res.MaterialTopics,
	}
	for _, s := range res.Scores {
		resp.Scores = append(resp.Scores, ScoreEntry{
			TopicCode:      s.TopicCode,
			ImpactScore:    s.ImpactScore,
			FinancialScore: s.FinancialScore,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
