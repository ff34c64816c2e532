package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rmoretti/auditrail/internal/core/model"
	"github.com/rmoretti/auditrail/internal/core/usecase"
	log "github.com/sirupsen/logrus"
)

// Authenticated extracts and validates the bearer token, attaching the
// resulting principal to the request context.
func Authenticated(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}

		claims, valid, err := ValidateToken(token, secretKey)
		if err != nil || !valid {
			log.WithError(err).Warn("token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid access token"})
			return
		}

		principal := usecase.Principal{Email: claims.Subject, Roles: claims.Roles}
		c.Request = c.Request.WithContext(usecase.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// RequireRole rejects authenticated callers lacking the given authority.
// Role failures are distinguishable from missing authentication.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := usecase.PrincipalFrom(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": model.ErrUnauthenticated.Error()})
			return
		}
		if !principal.HasRole(role) {
			log.WithField("email", principal.Email).Warn("caller lacks required role")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": model.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", model.ErrUnauthenticated
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", model.ErrUnauthenticated
	}
	return parts[1], nil
}
