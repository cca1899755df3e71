package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snapfeed/internal/core/auth"
	userEntity "snapfeed/internal/core/user"
	userPort "snapfeed/internal/ports/user"
)

const currentUserKey = "currentUser"

// JWTAuth validates the Authorization bearer token, loads the subject
// user and stores it in the request's gin context. Handlers read it
// once via CurrentUser and pass it into services explicitly; nothing
// downstream touches the context for identity.
func JWTAuth(tokens *auth.TokenService, users userPort.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(c)
			return
		}

		username, err := tokens.Validate(token)
		if err != nil {
			unauthorized(c)
			return
		}

		u, err := users.FindByUsername(c.Request.Context(), username)
		if err != nil {
			// Subject may have been removed since the token was issued.
			unauthorized(c)
			return
		}

		// Best-effort activity tracking; a failed update never fails
		// the request.
		if err := users.TouchLastActivity(c.Request.Context(), u.ID, time.Now().UTC()); err != nil {
			logger.Warn("could not update last_activity", zap.Uint64("user", u.ID), zap.Error(err))
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user resolved by JWTAuth for this request.
func CurrentUser(c *gin.Context) (*userEntity.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	u, ok := v.(*userEntity.User)
	return u, ok
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
}
