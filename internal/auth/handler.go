// File: internal/auth/handler.go
package auth

import (
	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/shared"
	"charity_marketplace_backend/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService  user.Service
	tokenService shared.TokenService
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(userService user.Service, tokenService shared.TokenService, logger *zap.Logger) *Handler {
	return &Handler{
		userService:  userService,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
// Credential endpoints go through rateLimitMW; session endpoints through authMW.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, rateLimitMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", rateLimitMW, h.register)
		authGroup.POST("/login", rateLimitMW, h.login)
		authGroup.GET("/me", authMW, h.me)
		authGroup.POST("/logout", authMW, h.logout)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Register: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	usr, tokenResponse, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	response := gin.H{
		"user":  user.ToUserResponse(usr),
		"token": tokenResponse,
	}
	common.RespondCreated(c, "User registered successfully.", response)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	loggedInUser, tokenResponse, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	response := gin.H{
		"user":  user.ToUserResponse(loggedInUser),
		"token": tokenResponse,
	}
	common.RespondOK(c, "Login successful.", response)
}

func (h *Handler) me(c *gin.Context) {
	identity, ok := common.GetIdentityFromContext(c)
	if !ok {
		h.logger.Error("Identity not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInvalidToken)
		return
	}
	usr, err := h.userService.GetUserByID(c.Request.Context(), identity.UserID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", user.ToUserResponse(usr))
}

func (h *Handler) logout(c *gin.Context) {
	token := common.GetTokenFromContext(c)
	if err := h.tokenService.RevokeToken(c.Request.Context(), token); err != nil {
		if ReasonOf(err) != "" {
			common.RespondWithError(c, common.ErrInvalidToken)
			return
		}
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Logged out successfully.", nil)
}
