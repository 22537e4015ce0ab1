package http

import (
	"net/http"

	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/pkg/httpx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

type UserInfoHandler struct {
	Store store.Store
}

// ServeHTTP godoc
//
//	@Summary		Get the authenticated user
//	@Description	Returns the profile of the caller identified by the bearer token.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse	"userId, email, name, organizationId, role"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	ErrorResponse	"Unexpected failure"
//	@Router			/v1/userinfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	user, err := h.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse("Failed to load user"))
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
