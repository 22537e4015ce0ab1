package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/pkg/httpx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

type ReportHandler struct {
	ReportService *service.ReportService
}

// HandleCreate godoc
//
//	@Summary		Create a report
//	@Description	Opens a draft report over a completed assessment, seeded with one section per material topic.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateReportRequest	true	"Assessment id and optional title"
//	@Success		200		{object}	ReportResponse		"Draft report with seeded sections"
//	@Failure		400		{object}	ErrorResponse		"Assessment not completed or has no material topics"
//	@Failure		404		{object}	ErrorResponse		"Assessment not found"
//	@Failure		500		{object}	ErrorResponse		"Unexpected failure"
//	@Router			/v1/reports [post].
func (h *ReportHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}
	if req.AssessmentID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Assessment id is required"))
		return
	}

	rep, err := h.ReportService.Create(ctx, orgID, req.AssessmentID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssessmentNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Assessment not found"))
		case errors.Is(err, service.ErrAssessmentNotDone):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Assessment must be completed first"))
		case errors.Is(err, service.ErrNoMaterialTopics):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Assessment has no material topics"))
		default:
			log.Error("failed to create report", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to create report"))
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReportResponse(rep))
}

// HandleGet godoc
//
//	@Summary		Get a report
//	@Description	Returns the report with its sections in position order.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string			true	"Report ID"
//	@Success		200	{object}	ReportResponse	"Report with sections"
//	@Failure		404	{object}	ErrorResponse	"Report not found"
//	@Failure		500	{object}	ErrorResponse	"Unexpected failure"
//	@Router			/v1/reports/{id} [get].
func (h *ReportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	rep, err := h.ReportService.Get(ctx, r.PathValue("id"), orgID)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Report not found"))
			return
		}
		log.Error("failed to fetch report", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to fetch report"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReportResponse(rep))
}

// HandleUpdateSection godoc
//
//	@Summary		Edit a report section
//	@Description	Replaces the body of one section on a draft report. Published reports are read-only.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string					true	"Report ID"
//	@Param			sectionID	path		string					true	"Section ID"
//	@Param			request		body		UpdateSectionRequest	true	"New body"
//	@Success		200			{object}	SectionResponse			"Updated section"
//	@Failure		404			{object}	ErrorResponse			"Report or section not found"
//	@Failure		409			{object}	ErrorResponse			"Report is published"
//	@Failure		500			{object}	ErrorResponse			"Unexpected failure"
//	@Router			/v1/reports/{id}/sections/{sectionID} [put].
func (h *ReportHandler) HandleUpdateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	var req UpdateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}

	sec, err := h.ReportService.UpdateSection(ctx, r.PathValue("id"), r.PathValue("sectionID"), orgID, req.Body)
	if err != nil {
		h.writeSectionError(w, log, err, "failed to update section")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSectionResponse(sec))
}

// HandleSuggestSection godoc
//
//	@Summary		Generate section text
//	@Description	Fills a draft section with generated disclosure text for its ESRS topic.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id			path		string			true	"Report ID"
//	@Param			sectionID	path		string			true	"Section ID"
//	@Success		200			{object}	SectionResponse	"Section with generated body"
//	@Failure		404			{object}	ErrorResponse	"Report or section not found"
//	@Failure		409			{object}	ErrorResponse	"Report is published"
//	@Failure		500			{object}	ErrorResponse	"Unexpected failure"
//	@Router			/v1/reports/{id}/sections/{sectionID}/suggest [post].
func (h *ReportHandler) HandleSuggestSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	sec, err := h.ReportService.SuggestSection(ctx, r.PathValue("id"), r.PathValue("sectionID"), orgID)
	if err != nil {
		h.writeSectionError(w, log, err, "failed to suggest section text")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSectionResponse(sec))
}

// HandlePublish godoc
//
//	@Summary		Publish a report
//	@Description	Freezes a draft report. Published reports reject section edits.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string			true	"Report ID"
//	@Success		200	{object}	ReportResponse	"Published report"
//	@Failure		404	{object}	ErrorResponse	"Report not found"
//	@Failure		409	{object}	ErrorResponse	"Already published"
//	@Failure		500	{object}	ErrorResponse	"Unexpected failure"
//	@Router			/v1/reports/{id}/publish [post].
func (h *ReportHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, ok := orgFromClaims(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}
	id := r.PathValue("id")

	if _, err := h.ReportService.Publish(ctx, id, orgID); err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Report not found"))
		case errors.Is(err, service.ErrReportPublished):
			httpx.WriteJSON(w, http.StatusConflict, errorResponse("Report is already published"))
		default:
			log.Error("failed to publish report", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to publish report"))
		}
		return
	}

	rep, err := h.ReportService.Get(ctx, id, orgID)
	if err != nil {
		log.Error("failed to fetch published report", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to fetch report"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReportResponse(rep))
}

func (h *ReportHandler) writeSectionError(w http.ResponseWriter, log *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Report not found"))
	case errors.Is(err, service.ErrSectionNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Section not found"))
	case errors.Is(err, service.ErrReportPublished):
		httpx.WriteJSON(w, http.StatusConflict, errorResponse("Report is published and read-only"))
	default:
		log.Error(msg, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to update section"))
	}
}
