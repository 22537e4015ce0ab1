package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/pkg/httpx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

type OnboardingHandler struct {
	OnboardingService *service.OnboardingService
}

// ServeHTTP godoc
//
//	@Summary		Onboard an organization
//	@Description	Creates an organization together with its founding admin account. Every later member joins through an invite.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		OnboardingRequest	true	"Organization profile plus admin account"
//	@Success		200		{object}	OnboardingResponse	"organization, user"
//	@Failure		400		{object}	ErrorResponse		"Missing required fields"
//	@Failure		409		{object}	ErrorResponse		"Email already registered"
//	@Failure		500		{object}	ErrorResponse		"Unexpected failure"
//	@Router			/v1/onboarding [post].
func (h *OnboardingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}

	org, user, err := h.OnboardingService.Onboard(ctx, service.OnboardingData{
		OrganizationName: req.OrganizationName,
		Sector:           req.Sector,
		Country:          req.Country,
		EmployeeCount:    req.EmployeeCount,
		ReportingYear:    req.ReportingYear,
		AdminEmail:       req.AdminEmail,
		AdminName:        req.AdminName,
		AdminPassword:    req.AdminPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOnboardingRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Organization name, admin email, name, and password are required"))
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			httpx.WriteJSON(w, http.StatusConflict, errorResponse("Email already registered"))
		default:
			log.Error("failed to onboard organization", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to onboard organization"))
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, OnboardingResponse{
		Organization: toOrganizationResponse(org),
		User:         toUserResponse(user),
	})
}
