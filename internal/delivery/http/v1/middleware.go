package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/api/internal/models"
	"github.com/taskhub/api/internal/services"
)

const (
	userIDCtxKey = "user_id"
	userCtxKey   = "user"
)

// HandleAuthMiddleware resolves the acting user from the bearer token
// and rejects the request before any task handler runs. Both token
// verification and the user lookup must succeed.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Warn().Msg("authorization header required")
		abort(c, newUnauthorizedError("authorization token is required"))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		h.logger.Warn().Msg("invalid authorization header")
		abort(c, newUnauthorizedError("authorization token is required"))
		return
	}

	userID, err := h.auth.ParseToken(parts[1])
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError("invalid or expired token"))
		return
	}

	user, err := h.users.GetByID(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			h.logger.Warn().
				Int64("user_id", userID).
				Msg("token user not found")
			abort(c, newUnauthorizedError("invalid or expired token"))
			return
		}

		h.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to resolve token user")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Set(userIDCtxKey, user.ID)
	c.Set(userCtxKey, *user)
	c.Next()
}

func userIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(userIDCtxKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

func userFromContext(c *gin.Context) (models.PublicUser, bool) {
	value, exists := c.Get(userCtxKey)
	if !exists {
		return models.PublicUser{}, false
	}
	user, ok := value.(models.PublicUser)
	return user, ok
}
