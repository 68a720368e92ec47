// File: internal/user/handler.go
package user

import (
	"charity_marketplace_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the public organization directory.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the public organization routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	orgGroup := router.Group("/organizations")
	{
		orgGroup.GET("", h.listOrganizations)
		orgGroup.GET("/:id", h.getOrganization)
	}
}

func (h *Handler) listOrganizations(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	orgs, pagination, err := h.service.ListOrganizations(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		responses = append(responses, ToOrganizationResponse(&orgs[i]))
	}
	common.RespondPaginated(c, "Organizations retrieved successfully.", responses, pagination)
}

func (h *Handler) getOrganization(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid organization ID format."))
		return
	}
	org, err := h.service.GetOrganization(c.Request.Context(), orgID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Organization retrieved successfully.", ToOrganizationResponse(org))
}
