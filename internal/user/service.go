package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = common.ErrUnauthorized.WithDetails("Invalid email or password.")

// Service defines the user-related business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, *shared.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*User, *shared.TokenResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*User, error)
	ListOrganizations(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo         Repository
	tokenService shared.TokenService
	logger       *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, tokenService shared.TokenService, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:         repo,
		tokenService: tokenService,
		logger:       logger.Named("UserService"),
	}
}

// Register creates a new account and signs an access token for it.
func (s *ServiceImplementation) Register(ctx context.Context, req RegisterRequest) (*User, *shared.TokenResponse, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	if len(req.Password) > common.MaxPasswordBytes {
		return nil, nil, common.ErrPasswordTooLong
	}

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, nil, err
	}

	dbUser := &User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(req.Name),
		UserType:     req.UserType,
	}
	if req.UserType.IsOrganization() {
		dbUser.OrganizationName = optionalString(strings.TrimSpace(req.OrganizationName))
		dbUser.OrganizationDescription = optionalString(req.OrganizationDescription)
		dbUser.WebsiteURL = optionalString(req.WebsiteURL)
	}

	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Warn("Failed to create user in repository", zap.Error(err), zap.String("email", req.Email))
		return nil, nil, err
	}

	tokenResponse, err := s.issueToken(dbUser)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User registered successfully",
		zap.String("userID", dbUser.ID.String()),
		zap.String("userType", string(dbUser.UserType)),
	)
	return dbUser, tokenResponse, nil
}

// Login checks the credentials and signs a new access token.
// Unknown emails and wrong passwords produce the same error.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*User, *shared.TokenResponse, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, nil, errInvalidCredentials
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err))
		return nil, nil, err
	}

	if !common.CheckPasswordHash(password, dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, nil, errInvalidCredentials
	}

	now := time.Now().UTC()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Not critical for authentication.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	tokenResponse, err := s.issueToken(dbUser)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User logged in successfully", zap.String("userID", dbUser.ID.String()))
	return dbUser, tokenResponse, nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return dbUser, nil
}

// GetOrganization returns the account only if it is an organization.
func (s *ServiceImplementation) GetOrganization(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !dbUser.IsOrganization() {
		return nil, common.ErrNotFound.WithDetails("Organization not found.")
	}
	return dbUser, nil
}

func (s *ServiceImplementation) ListOrganizations(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error) {
	return s.repo.ListByType(ctx, shared.UserTypeOrganization, page, pageSize)
}

func (s *ServiceImplementation) issueToken(dbUser *User) (*shared.TokenResponse, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &shared.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
