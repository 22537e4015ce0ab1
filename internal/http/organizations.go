package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/pkg/httpx"
	"github.com/carbonpath/csrd/pkg/jwtx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

type OrganizationHandler struct {
	OrganizationService *service.OrganizationService
}

// callerOrgID resolves the caller's organization and enforces that the
// path id matches it. Cross-org access reads as not found.
func callerOrgID(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok || claims.OrgID == "" {
		return "", false
	}
	return claims.OrgID, r.PathValue("id") == claims.OrgID
}

// HandleGet godoc
//
//	@Summary		Get organization profile
//	@Description	Returns the caller's organization profile. Callers can only read their own organization.
//	@Tags			Organizations
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"Organization ID"
//	@Success		200	{object}	OrganizationResponse	"Profile"
//	@Failure		404	{object}	ErrorResponse			"Not found"
//	@Failure		500	{object}	ErrorResponse			"Unexpected failure"
//	@Router			/v1/organizations/{id} [get].
func (h *OrganizationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, match := callerOrgID(r)
	if orgID == "" || !match {
		httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Organization not found"))
		return
	}

	org, err := h.OrganizationService.Get(ctx, orgID)
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Organization not found"))
			return
		}
		log.Error("failed to fetch organization", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to fetch organization"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toOrganizationResponse(org))
}

// HandleUpdate godoc
//
//	@Summary		Update organization profile
//	@Description	Partially updates the caller's organization profile. Empty fields are left unchanged. Admin-only.
//	@Tags			Organizations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Organization ID"
//	@Param			request	body		UpdateOrganizationRequest	true	"Profile fields to change"
//	@Success		200		{object}	OrganizationResponse		"Updated profile"
//	@Failure		404		{object}	ErrorResponse				"Not found"
//	@Failure		500		{object}	ErrorResponse				"Unexpected failure"
//	@Router			/v1/organizations/{id} [patch].
func (h *OrganizationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID, match := callerOrgID(r)
	if orgID == "" || !match {
		httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Organization not found"))
		return
	}

	var req UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}

	org, err := h.OrganizationService.UpdateProfile(ctx, orgID, domain.Organization{
		Name:          req.Name,
		Sector:        req.Sector,
		Country:       req.Country,
		EmployeeCount: req.EmployeeCount,
		ReportingYear: req.ReportingYear,
	})
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Organization not found"))
			return
		}
		log.Error("failed to update organization", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to update organization"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toOrganizationResponse(org))
}
