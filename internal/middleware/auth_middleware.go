package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/auth"
	"github.com/yigit/openhacks/internal/pkg/logger"
)

// Context keys set by the identity middleware
const (
	ContextUserID      = "userID"
	ContextCurrentUser = "currentUser"
)

// TokenVerifier validates identity provider tokens
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Principal, error)
}

// AuthMiddleware resolves the caller from the bearer token
type AuthMiddleware struct {
	verifier TokenVerifier
	identity services.IdentityService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, identity services.IdentityService) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		identity: identity,
	}
}

// tokenFromRequest reads the Authorization header, falling back to the token query
// parameter which browsers need for websocket upgrades
func tokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("token")
	}
	token, err := auth.ExtractBearerToken(strings.Trim(header, "\"'"))
	if err != nil {
		return ""
	}
	return token
}

func (m *AuthMiddleware) resolve(c *gin.Context, token string) (*models.User, error) {
	principal, err := m.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	return m.identity.Resolve(c.Request.Context(), principal)
}

// RequireIdentity rejects requests without a valid identity token
func (m *AuthMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			HandleAPIError(c, apperrors.ErrUnauthenticated)
			return
		}

		user, err := m.resolve(c, token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextCurrentUser, user)
		c.Next()
	}
}

// OptionalIdentity resolves the caller when a token is present. Invalid tokens are
// treated as anonymous.
func (m *AuthMiddleware) OptionalIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			user, err := m.resolve(c, token)
			if err == nil {
				c.Set(ContextUserID, user.ID)
				c.Set(ContextCurrentUser, user)
			} else {
				logger.Debug().Err(err).Msg("Ignoring invalid optional identity")
			}
		}
		c.Next()
	}
}

// GetUserID returns the resolved caller id, or "" for anonymous requests
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetCurrentUser returns the resolved caller, or nil for anonymous requests
func GetCurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextCurrentUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
