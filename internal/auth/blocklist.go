// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"time"

	"charity_marketplace_backend/internal/config"

	"github.com/patrickmn/go-cache"
)

// TokenBlocklistService defines the interface for a JWT blocklist.
type TokenBlocklistService interface {
	// AddToBlocklist adds a token's JTI (JWT ID) to the blocklist until expiresAt.
	AddToBlocklist(ctx context.Context, jti string, expiresAt time.Time) error
	// IsBlocklisted checks if a token's JTI is in the blocklist.
	IsBlocklisted(ctx context.Context, jti string) (bool, error)
}

// InMemoryBlocklistService keeps revoked JTIs in a go-cache, which is safe for
// concurrent use and drops entries once the token would have expired anyway.
type InMemoryBlocklistService struct {
	cache *cache.Cache
}

var _ TokenBlocklistService = (*InMemoryBlocklistService)(nil)

// NewInMemoryBlocklistService creates a new in-memory blocklist service.
func NewInMemoryBlocklistService(cfg *config.Config) *InMemoryBlocklistService {
	cleanup := cfg.TokenBlocklistCleanupTime
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &InMemoryBlocklistService{
		cache: cache.New(cfg.JWTAccessTokenExpiry, cleanup),
	}
}

// AddToBlocklist adds a token JTI to the in-memory cache.
func (s *InMemoryBlocklistService) AddToBlocklist(_ context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; the parser rejects it without our help.
		return nil
	}
	s.cache.Set(jti, struct{}{}, ttl)
	return nil
}

// IsBlocklisted checks if a token JTI exists in the in-memory cache.
func (s *InMemoryBlocklistService) IsBlocklisted(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}
