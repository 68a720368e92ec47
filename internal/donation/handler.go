package donation

import (
	"charity_marketplace_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the donation routes.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new donation handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the donation routes. Any authenticated user may donate;
// only organizations see what they received. The summary is public.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, orgMW gin.HandlerFunc) {
	donationGroup := router.Group("/donations", authMW)
	{
		donationGroup.POST("", h.donate)
		donationGroup.GET("/mine", h.listMine)
		donationGroup.GET("/received", orgMW, h.listReceived)
	}
	router.GET("/organizations/:id/donations/summary", h.summary)
}

func (h *Handler) donate(c *gin.Context) {
	donorID := common.GetUserIDFromContext(c)

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Donate: Invalid request body", zap.Error(err), zap.String("donorID", donorID.String()))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	d, err := h.service.Donate(c.Request.Context(), donorID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Donation recorded successfully.", ToDonorView(d))
}

func (h *Handler) listMine(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	donations, pagination, err := h.service.ListDonorDonations(c.Request.Context(), common.GetUserIDFromContext(c), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]DonationResponse, 0, len(donations))
	for i := range donations {
		responses = append(responses, ToDonorView(&donations[i]))
	}
	common.RespondPaginated(c, "Donations retrieved successfully.", responses, pagination)
}

func (h *Handler) listReceived(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	donations, pagination, err := h.service.ListReceivedDonations(c.Request.Context(), common.GetUserIDFromContext(c), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]DonationResponse, 0, len(donations))
	for i := range donations {
		responses = append(responses, ToRecipientView(&donations[i]))
	}
	common.RespondPaginated(c, "Donations retrieved successfully.", responses, pagination)
}

func (h *Handler) summary(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid organization ID format."))
		return
	}
	summary, err := h.service.GetSummary(c.Request.Context(), orgID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Donation summary retrieved successfully.", summary)
}
