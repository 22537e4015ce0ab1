package http

import (
	"errors"
	"net/http"

	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/pkg/httpx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

type InviteValidateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Validate an invite token
//	@Description	Resolves an invite token to its record so the acceptance page can render the organization, inviter, and role. Public.
//	@Tags			Invites
//	@Produce		json
//	@Param			token	query		string					true	"Invite token"
//	@Success		200		{object}	ValidateInviteResponse	"invite"
//	@Failure		400		{object}	ErrorResponse			"Token missing, expired, or already redeemed"
//	@Failure		404		{object}	ErrorResponse			"Unknown token"
//	@Failure		500		{object}	ErrorResponse			"Unexpected failure"
//	@Router			/v1/invites/validate [get].
func (h *InviteValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")

	invite, err := h.InviteService.Validate(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Token is required"))
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Invitation not found"))
		case errors.Is(err, service.ErrInviteExpired):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invitation has expired"))
		case errors.Is(err, service.ErrInviteRedeemed):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invitation has already been used"))
		default:
			log.Error("failed to validate invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to validate invite"))
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, ValidateInviteResponse{Invite: toInviteRecord(invite)})
}
