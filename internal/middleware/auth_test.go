package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"charity_marketplace_backend/internal/auth"
	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/platform/metrics"
	"charity_marketplace_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	bodyMissingToken = `{"success":false,"message":"Access token required"}`
	bodyInvalidToken = `{"success":false,"message":"Invalid or expired token"}`
	bodyOrgOnly      = `{"success":false,"message":"Access denied. Only organizations can perform this action."}`
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyToken(ctx context.Context, token string) (*shared.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Identity), args.Error(1)
}

type pipeline struct {
	router   *gin.Engine
	verifier *MockVerifier
	metrics  *metrics.Metrics
	// seen is the identity observed by the final handler, nil if it never ran.
	seen *shared.Identity
	// seenInRequest is the identity read back from the request context.
	seenInRequest *shared.Identity
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	p := &pipeline{verifier: new(MockVerifier), metrics: metrics.New()}
	logger := zap.NewNop()

	handler := func(c *gin.Context) {
		p.seen, _ = common.GetIdentityFromContext(c)
		p.seenInRequest, _ = shared.IdentityFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"success": true})
	}

	p.router = gin.New()
	authMW := Authenticate(p.verifier, p.metrics, logger)
	orgMW := RequireOrganization(p.metrics, logger)
	p.router.GET("/protected", authMW, handler)
	p.router.POST("/products", authMW, orgMW, handler)
	p.router.POST("/org-only-misconfigured", orgMW, handler)
	return p
}

func (p *pipeline) do(method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)
	return w
}

func orgIdentity() *shared.Identity {
	return &shared.Identity{UserID: uuid.New(), Email: "org@example.com", UserType: shared.UserTypeOrganization}
}

func commonIdentity() *shared.Identity {
	return &shared.Identity{UserID: uuid.New(), Email: "donor@example.com", UserType: shared.UserTypeCommon}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	p := newPipeline(t)

	w := p.do(http.MethodGet, "/protected", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, bodyMissingToken, w.Body.String())
	p.verifier.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
	assert.Nil(t, p.seen)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.AuthRejectionsTotal.WithLabelValues(metrics.OutcomeMissingToken)))
}

func TestAuthenticate_EmptyHeaderCountsAsMissing(t *testing.T) {
	p := newPipeline(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header["Authorization"] = []string{""}
	w := httptest.NewRecorder()

	p.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, bodyMissingToken, w.Body.String())
	p.verifier.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
}

func TestAuthenticate_ValidTokenAttachesIdentityUnmodified(t *testing.T) {
	p := newPipeline(t)
	identity := orgIdentity()
	want := *identity
	p.verifier.On("VerifyToken", mock.Anything, "good.jwt.token").Return(identity, nil).Once()

	w := p.do(http.MethodGet, "/protected", "Bearer good.jwt.token")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, p.seen)
	assert.Same(t, identity, p.seen)
	assert.Equal(t, want, *p.seen)
	assert.Same(t, identity, p.seenInRequest)
	p.verifier.AssertExpectations(t)
}

func TestAuthenticate_HeaderWithoutBearerPrefixIsForwardedWhole(t *testing.T) {
	p := newPipeline(t)
	p.verifier.On("VerifyToken", mock.Anything, "abc123").Return(nil, &auth.VerificationError{Reason: auth.ReasonMalformed}).Once()

	w := p.do(http.MethodGet, "/protected", "abc123")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, bodyInvalidToken, w.Body.String())
	p.verifier.AssertExpectations(t)
}

func TestAuthenticate_PrefixIsCaseSensitive(t *testing.T) {
	p := newPipeline(t)
	p.verifier.On("VerifyToken", mock.Anything, "bearer abc").Return(nil, &auth.VerificationError{Reason: auth.ReasonMalformed}).Once()

	w := p.do(http.MethodGet, "/protected", "bearer abc")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	p.verifier.AssertExpectations(t)
}

func TestAuthenticate_VerifierFailuresShareOneBody(t *testing.T) {
	reasons := []auth.VerificationReason{
		auth.ReasonMalformed,
		auth.ReasonExpired,
		auth.ReasonInvalidSignature,
		auth.ReasonRevoked,
		auth.ReasonInvalidClaims,
	}
	for _, reason := range reasons {
		t.Run(string(reason), func(t *testing.T) {
			p := newPipeline(t)
			verr := &auth.VerificationError{Reason: reason, Err: errors.New("kid=secret-marker")}
			p.verifier.On("VerifyToken", mock.Anything, "tok").Return(nil, verr).Once()

			w := p.do(http.MethodGet, "/protected", "Bearer tok")

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, bodyInvalidToken, w.Body.String())
			assert.NotContains(t, w.Body.String(), "secret-marker")
			assert.NotContains(t, w.Body.String(), verr.Error())
			assert.Nil(t, p.seen)
			assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.AuthRejectionsTotal.WithLabelValues(metrics.OutcomeInvalidToken)))
		})
	}
}

func TestAuthenticate_VerifierCalledOncePerRequest(t *testing.T) {
	p := newPipeline(t)
	p.verifier.On("VerifyToken", mock.Anything, "tok").Return(orgIdentity(), nil)

	p.do(http.MethodPost, "/products", "Bearer tok")

	p.verifier.AssertNumberOfCalls(t, "VerifyToken", 1)
}

func TestAuthenticate_PassesRequestContext(t *testing.T) {
	p := newPipeline(t)
	type ctxKey struct{}
	p.verifier.On("VerifyToken", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Value(ctxKey{}) == "marker"
	}), "tok").Return(orgIdentity(), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "marker"))
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	p.verifier.AssertExpectations(t)
}

// Scenario: organization user creates a product.
func TestPipeline_OrganizationAllowed(t *testing.T) {
	p := newPipeline(t)
	identity := orgIdentity()
	p.verifier.On("VerifyToken", mock.Anything, "org-token").Return(identity, nil)

	w := p.do(http.MethodPost, "/products", "Bearer org-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, identity, p.seen)
}

// Scenario: regular user is refused by the organization check.
func TestPipeline_CommonUserForbidden(t *testing.T) {
	p := newPipeline(t)
	p.verifier.On("VerifyToken", mock.Anything, "user-token").Return(commonIdentity(), nil)

	w := p.do(http.MethodPost, "/products", "Bearer user-token")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, bodyOrgOnly, w.Body.String())
	assert.Nil(t, p.seen)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.AuthRejectionsTotal.WithLabelValues(metrics.OutcomeForbidden)))
}

func TestPipeline_UnknownUserTypeForbidden(t *testing.T) {
	for _, userType := range []shared.UserType{"admin", "Organization", "organization ", ""} {
		p := newPipeline(t)
		p.verifier.On("VerifyToken", mock.Anything, "tok").Return(&shared.Identity{UserID: uuid.New(), UserType: userType}, nil)

		w := p.do(http.MethodPost, "/products", "Bearer tok")

		assert.Equal(t, http.StatusForbidden, w.Code, "user type %q", userType)
		assert.JSONEq(t, bodyOrgOnly, w.Body.String())
	}
}

// Scenario: expired token never reaches the organization check.
func TestPipeline_ExpiredTokenStopsBeforeOrganizationCheck(t *testing.T) {
	p := newPipeline(t)
	p.verifier.On("VerifyToken", mock.Anything, "expired").Return(nil, &auth.VerificationError{Reason: auth.ReasonExpired})

	w := p.do(http.MethodPost, "/products", "Bearer expired")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, bodyInvalidToken, w.Body.String())
	assert.Zero(t, testutil.ToFloat64(p.metrics.AuthRejectionsTotal.WithLabelValues(metrics.OutcomeForbidden)))
}

// Scenario: no header at all on an organization route.
func TestPipeline_MissingHeaderOnOrganizationRoute(t *testing.T) {
	p := newPipeline(t)

	w := p.do(http.MethodPost, "/products", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, bodyMissingToken, w.Body.String())
	p.verifier.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
}

func TestRequireOrganization_WithoutIdentityIsForbidden(t *testing.T) {
	p := newPipeline(t)

	w := p.do(http.MethodPost, "/org-only-misconfigured", "Bearer whatever")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, bodyOrgOnly, w.Body.String())
	p.verifier.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
}

func TestMiddlewareLoggerNames(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	router := gin.New()
	router.GET("/protected", Authenticate(new(MockVerifier), nil, logger), func(c *gin.Context) {})
	router.GET("/org-only", RequireOrganization(nil, logger), func(c *gin.Context) {})

	for _, path := range []string{"/protected", "/org-only"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "AuthMiddleware", entries[0].LoggerName)
	assert.Equal(t, "OrganizationMiddleware", entries[1].LoggerName)
}
