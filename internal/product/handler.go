// File: internal/product/handler.go
package product

import (
	"net/http"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/filestorage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// imageFormField is the multipart field carrying a product image.
const imageFormField = "image"

// Handler struct holds dependencies for product handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new product handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the product routes. Writes require authMW followed by orgMW.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, orgMW gin.HandlerFunc) {
	productGroup := router.Group("/products")
	{
		productGroup.GET("", h.listProducts)
		productGroup.GET("/mine", authMW, orgMW, h.listMyProducts)
		productGroup.GET("/:id", h.getProduct)

		orgGroup := productGroup.Group("", authMW, orgMW)
		{
			orgGroup.POST("", h.createProduct)
			orgGroup.PUT("/:id", h.updateProduct)
			orgGroup.DELETE("/:id", h.deleteProduct)
			orgGroup.POST("/:id/image", h.uploadImage)
		}
	}
}

func (h *Handler) listProducts(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	products, pagination, err := h.service.ListProducts(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Products retrieved successfully.", ToProductResponses(products), pagination)
}

func (h *Handler) listMyProducts(c *gin.Context) {
	orgID := common.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)
	products, pagination, err := h.service.ListOrganizationProducts(c.Request.Context(), orgID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Products retrieved successfully.", ToProductResponses(products), pagination)
}

func (h *Handler) getProduct(c *gin.Context) {
	found, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Product retrieved successfully.", ToProductResponse(found))
}

func (h *Handler) createProduct(c *gin.Context) {
	orgID := common.GetUserIDFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create product: Invalid request body", zap.Error(err), zap.String("organizationID", orgID.String()))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	created, err := h.service.CreateProduct(c.Request.Context(), orgID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Product created successfully.", ToProductResponse(created))
}

func (h *Handler) updateProduct(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}
	orgID := common.GetUserIDFromContext(c)

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update product: Invalid request body", zap.Error(err), zap.String("productID", productID.String()))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	updated, err := h.service.UpdateProduct(c.Request.Context(), productID, orgID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Product updated successfully.", ToProductResponse(updated))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(c.Request.Context(), productID, common.GetUserIDFromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) uploadImage(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	// Leave room for the multipart envelope around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, filestorage.MaxImageSize+1<<20)
	image, err := c.FormFile(imageFormField)
	if err != nil {
		h.logger.Warn("Upload product image: missing or unreadable file", zap.Error(err), zap.String("productID", productID.String()))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("A file in the 'image' form field is required and must not exceed 5 MiB."))
		return
	}

	updated, err := h.service.SetProductImage(c.Request.Context(), productID, common.GetUserIDFromContext(c), image)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Product image updated successfully.", ToProductResponse(updated))
}

func parseProductID(c *gin.Context) (uuid.UUID, bool) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid product ID format."))
		return uuid.Nil, false
	}
	return productID, true
}
