// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// BearerPrefix is stripped from the Authorization header, case-sensitive.
	BearerPrefix = "Bearer "
	// IdentityKey holds the *shared.Identity produced by the token verifier.
	IdentityKey = "identity"
	// UserIDKey is the context key for storing the authenticated user's ID
	UserIDKey = "userID"
	// UserEmailKey is the context key for storing the authenticated user's email
	UserEmailKey = "userEmail"
	// UserTypeKey is the context key for storing the authenticated user's type
	UserTypeKey = "userType"
	// AccessTokenKey holds the raw token that authenticated the request.
	AccessTokenKey = "accessToken"
	// LoggerKey holds the request scoped *zap.Logger.
	LoggerKey = "logger"
	// RequestIDKey holds the X-Request-ID value.
	RequestIDKey = "requestID"
)
