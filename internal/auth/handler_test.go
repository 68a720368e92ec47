package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"charity_marketplace_backend/internal/auth"
	"charity_marketplace_backend/internal/config"
	"charity_marketplace_backend/internal/middleware"
	"charity_marketplace_backend/internal/platform/database"
	"charity_marketplace_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type sessionData struct {
	User struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		UserType string `json:"user_type"`
	} `json:"user"`
	Token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	} `json:"token"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	db, err := database.NewSQLite(":memory:", logger)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, &user.User{}))

	cfg := &config.Config{
		JWTSecretKey:              "0123456789abcdef0123456789abcdef",
		JWTAccessTokenExpiry:      time.Hour,
		JWTIssuer:                 "charity-test",
		TokenBlocklistCleanupTime: time.Minute,
	}
	tokenService := auth.NewJWTService(cfg, auth.NewInMemoryBlocklistService(cfg), nil, logger)
	userService := user.NewService(user.NewGORMRepository(db), tokenService, logger)
	handler := auth.NewHandler(userService, tokenService, logger)

	router := gin.New()
	api := router.Group("/api/v1")
	passThrough := func(c *gin.Context) { c.Next() }
	handler.RegisterRoutes(api, middleware.Authenticate(tokenService, nil, logger), passThrough)
	return router
}

func doJSON(router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func register(t *testing.T, router *gin.Engine, payload map[string]any) sessionData {
	t.Helper()
	w, env := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data sessionData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestAuthHandler_RegisterLoginMeLogout(t *testing.T) {
	router := setupRouter(t)

	registered := register(t, router, map[string]any{
		"email":             "helping@hands.org",
		"password":          "supersecret",
		"name":              "Helping Hands",
		"user_type":         "organization",
		"organization_name": "Helping Hands Foundation",
	})
	assert.Equal(t, "organization", registered.User.UserType)
	assert.Equal(t, "Bearer", registered.Token.TokenType)
	assert.NotEmpty(t, registered.Token.AccessToken)

	w, env := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "helping@hands.org",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var loggedIn sessionData
	require.NoError(t, json.Unmarshal(env.Data, &loggedIn))
	token := loggedIn.Token.AccessToken

	w, env = doJSON(router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"email":"helping@hands.org"`)
	assert.NotContains(t, string(env.Data), "password")

	w, _ = doJSON(router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(router, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", env.Message)

	// The token from registration is a different JTI and stays valid.
	w, _ = doJSON(router, http.MethodGet, "/api/v1/auth/me", registered.Token.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	router := setupRouter(t)

	cases := []struct {
		name    string
		payload map[string]any
		status  int
	}{
		{"malformed email", map[string]any{"email": "nope", "password": "supersecret", "name": "n", "user_type": "common"}, http.StatusUnprocessableEntity},
		{"short password", map[string]any{"email": "a@b.co", "password": "short", "name": "n", "user_type": "common"}, http.StatusUnprocessableEntity},
		{"unknown user type", map[string]any{"email": "a@b.co", "password": "supersecret", "name": "n", "user_type": "admin"}, http.StatusUnprocessableEntity},
		{"organization without name", map[string]any{"email": "a@b.co", "password": "supersecret", "name": "n", "user_type": "organization"}, http.StatusUnprocessableEntity},
		{"password over 72 bytes", map[string]any{"email": "a@b.co", "password": strings.Repeat("é", 60), "name": "n", "user_type": "common"}, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", tc.payload)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.False(t, env.Success)
			assert.Equal(t, "VALIDATION_ERROR", env.Code)
		})
	}
}

func TestAuthHandler_DuplicateEmail(t *testing.T) {
	router := setupRouter(t)
	payload := map[string]any{"email": "donor@example.com", "password": "supersecret", "name": "Donor", "user_type": "common"}
	register(t, router, payload)

	w, env := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", payload)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Code)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	router := setupRouter(t)
	register(t, router, map[string]any{"email": "donor@example.com", "password": "supersecret", "name": "Donor", "user_type": "common"})

	wrong, wrongEnv := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "donor@example.com", "password": "incorrect"})
	unknown, unknownEnv := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "ghost@example.com", "password": "incorrect"})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongEnv, unknownEnv)
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	router := setupRouter(t)

	w, env := doJSON(router, http.MethodGet, "/api/v1/auth/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token required", env.Message)
}
