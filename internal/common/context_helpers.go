// File: internal/common/context_helpers.go
package common

import (
	"strings"

	"charity_marketplace_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractToken returns the token carried by an Authorization header value.
// A literal "Bearer " prefix is removed; any other value is returned unchanged.
func ExtractToken(header string) string {
	return strings.TrimPrefix(header, BearerPrefix)
}

// GetTokenFromContext returns the token that authenticated the request, if any.
func GetTokenFromContext(c *gin.Context) string {
	if val, exists := c.Get(AccessTokenKey); exists {
		if token, ok := val.(string); ok {
			return token
		}
	}
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		return ""
	}
	return ExtractToken(header)
}

// SetIdentity attaches the identity to the Gin context and to the request context.
func SetIdentity(c *gin.Context, identity *shared.Identity) {
	c.Set(IdentityKey, identity)
	c.Set(UserIDKey, identity.UserID)
	c.Set(UserEmailKey, identity.Email)
	c.Set(UserTypeKey, identity.UserType)
	c.Request = c.Request.WithContext(shared.WithIdentity(c.Request.Context(), identity))
}

// GetIdentityFromContext returns the identity attached by the authentication middleware.
func GetIdentityFromContext(c *gin.Context) (*shared.Identity, bool) {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := val.(*shared.Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// GetUserIDFromContext retrieves the user ID from the Gin context.
// Returns uuid.Nil if not found or not a UUID.
func GetUserIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

// GetUserTypeFromContext retrieves the user type from the Gin context.
func GetUserTypeFromContext(c *gin.Context) shared.UserType {
	val, exists := c.Get(UserTypeKey)
	if !exists {
		return ""
	}
	userType, ok := val.(shared.UserType)
	if !ok {
		return ""
	}
	return userType
}
