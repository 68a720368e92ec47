// File: internal/middleware/auth.go
package middleware

import (
	"charity_marketplace_backend/internal/auth"
	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/platform/metrics"
	"charity_marketplace_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticate resolves the caller's identity from the Authorization header.
//
// A missing or empty header is rejected without calling the verifier. A literal
// "Bearer " prefix is stripped; without it the whole header value is used as the
// token. Any verifier failure yields the same 401 body; the reason is only logged.
func Authenticate(verifier shared.TokenVerifier, m *metrics.Metrics, logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		authHeader := c.GetHeader(common.AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing", zap.String("path", c.Request.URL.Path))
			m.AuthRejected(metrics.OutcomeMissingToken)
			common.RespondWithError(c, common.ErrAccessTokenRequired)
			return
		}

		token := common.ExtractToken(authHeader)
		identity, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger.Info("Token verification failed",
				zap.String("reason", string(auth.ReasonOf(err))),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			m.AuthRejected(metrics.OutcomeInvalidToken)
			common.RespondWithError(c, common.ErrInvalidToken)
			return
		}

		c.Set(common.AccessTokenKey, token)
		common.SetIdentity(c, identity)

		logger.Debug("User authenticated successfully",
			zap.String("userID", identity.UserID.String()),
			zap.String("userType", string(identity.UserType)),
		)
		c.Next()
	}
}

// RequireOrganization lets the request through only when the identity attached by
// Authenticate has user type "organization". It must be registered after Authenticate;
// a request without an identity is refused like any other non-organization caller.
func RequireOrganization(m *metrics.Metrics, logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("OrganizationMiddleware")
	return func(c *gin.Context) {
		identity, ok := common.GetIdentityFromContext(c)
		if !ok || !identity.UserType.IsOrganization() {
			fields := []zap.Field{zap.String("path", c.Request.URL.Path)}
			if ok {
				fields = append(fields,
					zap.String("userID", identity.UserID.String()),
					zap.String("userType", string(identity.UserType)),
				)
			} else {
				fields = append(fields, zap.Bool("identity_missing", true))
			}
			logger.Info("Organization access denied", fields...)
			m.AuthRejected(metrics.OutcomeForbidden)
			common.RespondWithError(c, common.ErrOrganizationOnly)
			return
		}
		c.Next()
	}
}
