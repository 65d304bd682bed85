package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
)

const CtxFirebaseUID = "firebase_uid"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type SessionStatus interface {
	Status() domain.Status
}

// RequireSessionToken only admits callers holding a valid Firebase ID token
// for the uid the dashboard session is signed in as.
func RequireSessionToken(verifier TokenVerifier, session SessionStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			return
		}

		uid, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		if current := session.Status().UID(); current == "" || current != uid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "token does not belong to the session user"})
			return
		}

		c.Set(CtxFirebaseUID, uid)
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
