// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charity_marketplace_backend/internal/config"
	"charity_marketplace_backend/internal/platform/metrics"
	"charity_marketplace_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWTService issues and verifies HS256 access tokens.
type JWTService struct {
	cfg       *config.Config
	blocklist TokenBlocklistService
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

var _ shared.TokenService = (*JWTService)(nil)

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, blocklist TokenBlocklistService, m *metrics.Metrics, logger *zap.Logger) *JWTService {
	return &JWTService{
		cfg:       cfg,
		blocklist: blocklist,
		metrics:   m,
		logger:    logger.Named("JWTService"),
		now:       time.Now,
	}
}

func (s *JWTService) GenerateAccessToken(userData shared.UserDataForToken) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(s.cfg.JWTAccessTokenExpiry)

	claims := &Claims{
		UserID:   userData.GetID(),
		Email:    userData.GetEmail(),
		UserType: userData.GetUserType(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.JWTIssuer,
			Subject:   userData.GetID().String(),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	s.metrics.TokenIssued()
	return tokenString, expirationTime, nil
}

// VerifyToken validates tokenString and returns the identity it carries.
// Every rejection is a *VerificationError.
func (s *JWTService) VerifyToken(ctx context.Context, tokenString string) (*shared.Identity, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blocklist.IsBlocklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("checking token blocklist: %w", err)
	}
	if revoked {
		return nil, &VerificationError{Reason: ReasonRevoked}
	}

	return &shared.Identity{
		UserID:   claims.UserID,
		Email:    claims.Email,
		UserType: claims.UserType,
	}, nil
}

// RevokeToken blocklists the token's JTI until the token expires.
func (s *JWTService) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if err := s.blocklist.AddToBlocklist(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoking token %s: %w", claims.ID, err)
	}
	s.logger.Info("Access token revoked", zap.String("jti", claims.ID), zap.String("userID", claims.UserID.String()))
	return nil
}

func (s *JWTService) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.cfg.JWTIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}
	if claims.UserID == uuid.Nil || claims.ID == "" || claims.UserType == "" {
		return nil, &VerificationError{Reason: ReasonInvalidClaims, Err: errors.New("missing user_id, jti or user_type")}
	}
	return claims, nil
}
