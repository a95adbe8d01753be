package middleware

import (
	"net/http"
	"strings"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// AuthMiddleware requires a valid bearer token and stores the caller's
// session in the gin context.
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := tokens.ParseAccessToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(sessionKey, models.Session{UserID: claims.UserID, Email: claims.Email})
		c.Next()
	}
}

// GetSession returns the authenticated caller, if any.
func GetSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	sess, ok := v.(models.Session)
	return sess, ok && sess.UserID != ""
}

func GetUserID(c *gin.Context) string {
	sess, _ := GetSession(c)
	return sess.UserID
}
