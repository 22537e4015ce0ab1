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

type InviteCreateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Invite a teammate
//	@Description	Creates an invite for the caller's organization and emails the recipient an accept link. Returns the raw invite token to the issuer. Admin-only.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateInviteRequest		true	"Invite form"
//	@Success		200		{object}	CreateInviteResponse	"success, message, inviteToken"
//	@Failure		400		{object}	ErrorResponse			"Missing email or role"
//	@Failure		401		{object}	ErrorResponse			"Authentication required"
//	@Failure		500		{object}	ErrorResponse			"Unexpected failure"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}

	if req.Email == "" || req.Role == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Email and role are required"))
		return
	}

	claims, ok := ctx.Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok || claims.Subject == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	inviter := domain.User{
		ID:             claims.Subject,
		Email:          claims.Email,
		Name:           claims.Name,
		OrganizationID: claims.OrgID,
		Role:           claims.Role,
	}

	token, err := h.InviteService.Issue(ctx, req.Email, req.Role, inviter)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Email and role are required"))
		case errors.Is(err, service.ErrInvalidRole):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid role"))
		default:
			log.Error("failed to create invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to create invite"))
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, CreateInviteResponse{
		Success:     true,
		Message:     "Invitation sent",
		InviteToken: token,
	})
}
