package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes organization accounts from regular donors/buyers.
type UserType string

const (
	UserTypeOrganization UserType = "organization"
	UserTypeCommon       UserType = "common"
)

// IsOrganization reports whether t is exactly the organization type.
func (t UserType) IsOrganization() bool {
	return t == UserTypeOrganization
}

// Identity is the verified caller derived from an access token.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	UserType UserType  `json:"user_type"`
}

// TokenResponse represents the response containing an access token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// UserDataForToken is an interface to abstract the user data needed for token generation.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() string
	GetUserType() UserType
}

// TokenVerifier turns a raw access token into an Identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// TokenService defines the interface for JWT operations.
type TokenService interface {
	TokenVerifier
	GenerateAccessToken(userData UserDataForToken) (string, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
}
