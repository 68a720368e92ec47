package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) ListByType(ctx context.Context, userType shared.UserType, page, pageSize int) ([]User, *common.Pagination, error) {
	args := m.Called(ctx, userType, page, pageSize)
	var users []User
	if args.Get(0) != nil {
		users = args.Get(0).([]User)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return users, pagination, args.Error(2)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) VerifyToken(ctx context.Context, token string) (*shared.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Identity), args.Error(1)
}

func (m *MockTokenService) GenerateAccessToken(userData shared.UserDataForToken) (string, time.Time, error) {
	args := m.Called(userData)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) RevokeToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func newTestService() (*ServiceImplementation, *MockUserRepository, *MockTokenService) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenService)
	return NewService(repo, tokens, zap.NewNop()), repo, tokens
}

func TestService_Register_Organization(t *testing.T) {
	svc, repo, tokens := newTestService()
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	repo.On("FindByEmail", ctx, "org@example.com").Return(nil, common.ErrNotFound.WithDetails("User not found with this email."))
	repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.UserType == shared.UserTypeOrganization &&
			u.OrganizationName != nil && *u.OrganizationName == "Helping Hands" &&
			u.PasswordHash != "" && u.PasswordHash != "supersecret"
	})).Return(nil)
	tokens.On("GenerateAccessToken", mock.AnythingOfType("*user.User")).Return("signed.jwt.token", expiresAt, nil)

	created, token, err := svc.Register(ctx, RegisterRequest{
		Email:            "org@example.com",
		Password:         "supersecret",
		Name:             "Alex",
		UserType:         shared.UserTypeOrganization,
		OrganizationName: "Helping Hands",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, common.CheckPasswordHash("supersecret", created.PasswordHash))
	assert.Equal(t, "signed.jwt.token", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, expiresAt, token.ExpiresAt)
	repo.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestService_Register_CommonIgnoresOrganizationFields(t *testing.T) {
	svc, repo, tokens := newTestService()
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "donor@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.UserType == shared.UserTypeCommon && u.OrganizationName == nil
	})).Return(nil)
	tokens.On("GenerateAccessToken", mock.Anything).Return("t", time.Now(), nil)

	_, _, err := svc.Register(ctx, RegisterRequest{
		Email:            "donor@example.com",
		Password:         "supersecret",
		Name:             "Sam",
		UserType:         shared.UserTypeCommon,
		OrganizationName: "ignored",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "taken@example.com").Return(&User{Email: "taken@example.com"}, nil)

	_, _, err := svc.Register(ctx, RegisterRequest{Email: "taken@example.com", Password: "supersecret", Name: "x", UserType: shared.UserTypeCommon})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	hash, err := common.HashPassword("supersecret")
	require.NoError(t, err)
	existing := &User{BaseModel: common.BaseModel{ID: uuid.New()}, Email: "donor@example.com", PasswordHash: hash, UserType: shared.UserTypeCommon}

	t.Run("success", func(t *testing.T) {
		svc, repo, tokens := newTestService()
		ctx := context.Background()
		repo.On("FindByEmail", ctx, "donor@example.com").Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)
		tokens.On("GenerateAccessToken", existing).Return("signed", time.Now(), nil)

		got, token, err := svc.Login(ctx, "donor@example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, got.ID)
		assert.NotNil(t, got.LastLoginAt)
		assert.Equal(t, "signed", token.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo, tokens := newTestService()
		ctx := context.Background()
		repo.On("FindByEmail", ctx, "donor@example.com").Return(existing, nil)

		_, _, err := svc.Login(ctx, "donor@example.com", "nope")
		assert.Equal(t, errInvalidCredentials, err)
		tokens.AssertNotCalled(t, "GenerateAccessToken", mock.Anything)
	})

	t.Run("unknown email gives the same error", func(t *testing.T) {
		svc, repo, _ := newTestService()
		ctx := context.Background()
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, common.ErrNotFound)

		_, _, err := svc.Login(ctx, "ghost@example.com", "supersecret")
		assert.Equal(t, errInvalidCredentials, err)
	})
}

func TestService_GetOrganization(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	orgID, donorID := uuid.New(), uuid.New()

	repo.On("FindByID", ctx, orgID).Return(&User{BaseModel: common.BaseModel{ID: orgID}, UserType: shared.UserTypeOrganization}, nil)
	repo.On("FindByID", ctx, donorID).Return(&User{BaseModel: common.BaseModel{ID: donorID}, UserType: shared.UserTypeCommon}, nil)

	org, err := svc.GetOrganization(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, orgID, org.ID)

	_, err = svc.GetOrganization(ctx, donorID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
