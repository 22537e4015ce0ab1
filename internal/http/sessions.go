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

type SessionHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Exchanges email and password for a short-lived EdDSA-signed access token.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateSessionRequest	true	"Credentials"
//	@Success		200		{object}	CreateSessionResponse	"accessToken, tokenType, expiresIn, user"
//	@Failure		401		{object}	ErrorResponse			"Invalid email or password"
//	@Failure		500		{object}	ErrorResponse			"Unexpected failure"
//	@Router			/v1/sessions [post].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}

	token, user, err := h.SessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Invalid email or password"))
			return
		}
		log.Error("failed to create session", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to create session"))
		return
	}

	ttl := h.SessionService.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, CreateSessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		User:        toUserResponse(user),
	})
}
