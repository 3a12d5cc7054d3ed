package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/service"
	"github.com/Rsgr172026/KanbanMate/internal/util"
)

// AuthMiddleware is the access guard on every task route. It turns the
// session cookie back into a user identity and attaches it to the
// request context. A valid token whose user no longer exists is
// rejected: the token alone is not an identity.
func AuthMiddleware(users service.UserStore, jwtSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			c.Abort()
			return
		}

		userID, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			logger.Debug("Session token rejected", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, token failed"})
			c.Abort()
			return
		}

		u, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			logger.Error("Failed to resolve session user",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		if u == nil {
			logger.Warn("Session token references a missing user",
				zap.String("user_id", userID),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			c.Abort()
			return
		}

		// The hash stays in the repository layer.
		u.PasswordHash = ""
		c.Set("user", u)
		c.Set("user_id", u.ID)

		c.Next()
	}
}
