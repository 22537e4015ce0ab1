package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/pkg/httpx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

type InviteAcceptHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Accept an invite
//	@Description	Redeems an invite token into a new account in the invited organization at the invited role. The token is single-use. Public.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AcceptInviteRequest		true	"Token plus new account details"
//	@Success		200		{object}	AcceptInviteResponse	"userId, email"
//	@Failure		400		{object}	ErrorResponse			"Token missing, expired, redeemed, or fields missing"
//	@Failure		404		{object}	ErrorResponse			"Unknown token"
//	@Failure		409		{object}	ErrorResponse			"Email already registered"
//	@Failure		500		{object}	ErrorResponse			"Unexpected failure"
//	@Router			/v1/invites/accept [post].
func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}

	user, err := h.InviteService.Redeem(ctx, req.Token, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Token is required"))
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Name and password are required"))
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse("Invitation not found"))
		case errors.Is(err, service.ErrInviteExpired):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invitation has expired"))
		case errors.Is(err, service.ErrInviteRedeemed):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invitation has already been used"))
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			httpx.WriteJSON(w, http.StatusConflict, errorResponse("Email already registered"))
		default:
			log.Error("failed to accept invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to accept invite"))
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AcceptInviteResponse{
		Success: true,
		UserID:  user.ID,
		Email:   user.Email,
	})
}
