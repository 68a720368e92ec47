// File: internal/product/service.go
package product

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/config"
	"charity_marketplace_backend/internal/notification"
	"charity_marketplace_backend/internal/platform/crypto"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const (
	imageSubDir      = "products"
	slugSuffixBytes  = 3
	maxSlugAttempts  = 5
	fallbackSlugBase = "product"
)

// ImageStore persists product images.
type ImageStore interface {
	SaveImage(fileHeader *multipart.FileHeader, subDir string) (string, error)
	DeleteFile(relativePath string) error
}

// Service defines the interface for product business logic.
type Service interface {
	CreateProduct(ctx context.Context, orgID uuid.UUID, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, idOrSlug string) (*Product, error)
	ListProducts(ctx context.Context, page, pageSize int) ([]Product, *common.Pagination, error)
	ListOrganizationProducts(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]Product, *common.Pagination, error)
	UpdateProduct(ctx context.Context, id, orgID uuid.UUID, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id, orgID uuid.UUID) error
	SetProductImage(ctx context.Context, id, orgID uuid.UUID, image *multipart.FileHeader) (*Product, error)

	// ExpireProducts is run by the expiry job. It returns how many products were expired.
	ExpireProducts(ctx context.Context) (int, error)
}

// ServiceImplementation implements the product Service interface.
type ServiceImplementation struct {
	repo                Repository
	images              ImageStore
	notificationService notification.Service
	cfg                 *config.Config
	logger              *zap.Logger
	now                 func() time.Time
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new product service.
func NewService(
	repo Repository,
	images ImageStore,
	notificationService notification.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:                repo,
		images:              images,
		notificationService: notificationService,
		cfg:                 cfg,
		logger:              logger.Named("ProductService"),
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

func (s *ServiceImplementation) CreateProduct(ctx context.Context, orgID uuid.UUID, req CreateProductRequest) (*Product, error) {
	productSlug, err := s.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	newProduct := &Product{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Slug:           productSlug,
		Description:    req.Description,
		PriceCents:     *req.PriceCents,
		Category:       normalizeCategory(req.Category),
		Status:         StatusActive,
		ExpiresAt:      s.expiryFrom(s.now()),
	}
	if req.Stock != nil {
		newProduct.Stock = *req.Stock
	}

	if err := s.repo.Create(ctx, newProduct); err != nil {
		s.logger.Error("Failed to create product in repository", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, newProduct.ID)
	if err != nil {
		s.logger.Error("Failed to reload created product", zap.String("productID", newProduct.ID.String()), zap.Error(err))
		return newProduct, nil
	}

	s.logger.Info("Product created successfully",
		zap.String("productID", created.ID.String()),
		zap.String("organizationID", orgID.String()),
		zap.String("slug", created.Slug),
	)
	return created, nil
}

// GetProduct looks a product up by UUID or slug. Only listed products are
// visible; everything else is reported as not found.
func (s *ServiceImplementation) GetProduct(ctx context.Context, idOrSlug string) (*Product, error) {
	var (
		found *Product
		err   error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		found, err = s.repo.FindByID(ctx, id)
	} else {
		found, err = s.repo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if !found.IsListed(s.now()) {
		return nil, common.ErrNotFound.WithDetails("Product not found.")
	}
	return found, nil
}

func (s *ServiceImplementation) ListProducts(ctx context.Context, page, pageSize int) ([]Product, *common.Pagination, error) {
	products, pagination, err := s.repo.ListActive(ctx, s.now(), page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve products.")
	}
	return products, pagination, nil
}

func (s *ServiceImplementation) ListOrganizationProducts(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]Product, *common.Pagination, error) {
	products, pagination, err := s.repo.ListByOrganization(ctx, orgID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list organization products", zap.Error(err), zap.String("organizationID", orgID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve products.")
	}
	return products, pagination, nil
}

func (s *ServiceImplementation) UpdateProduct(ctx context.Context, id, orgID uuid.UUID, req UpdateProductRequest) (*Product, error) {
	existing, err := s.ownedProduct(ctx, id, orgID, "update")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.PriceCents != nil {
		existing.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		existing.Stock = *req.Stock
	}
	if req.Category != nil {
		existing.Category = normalizeCategory(req.Category)
	}
	if req.Status != nil {
		// Reactivating an expired product starts a fresh lifespan.
		if *req.Status == StatusActive && existing.Status == StatusExpired {
			existing.ExpiresAt = s.expiryFrom(s.now())
		}
		existing.Status = *req.Status
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("Failed to update product in repository", zap.Error(err), zap.String("productID", id.String()))
		return nil, err
	}

	s.logger.Info("Product updated successfully", zap.String("productID", id.String()))
	return existing, nil
}

func (s *ServiceImplementation) DeleteProduct(ctx context.Context, id, orgID uuid.UUID) error {
	existing, err := s.ownedProduct(ctx, id, orgID, "delete")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", zap.Error(err), zap.String("productID", id.String()))
		return err
	}
	if existing.ImagePath != nil {
		s.removeImage(*existing.ImagePath)
	}
	s.logger.Info("Product deleted successfully", zap.String("productID", id.String()), zap.String("organizationID", orgID.String()))
	return nil
}

// SetProductImage stores image and points the product at it. The previous
// image file, if any, is removed once the product row is updated.
func (s *ServiceImplementation) SetProductImage(ctx context.Context, id, orgID uuid.UUID, image *multipart.FileHeader) (*Product, error) {
	existing, err := s.ownedProduct(ctx, id, orgID, "change the image of")
	if err != nil {
		return nil, err
	}

	relativePath, err := s.images.SaveImage(image, imageSubDir)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to store product image", zap.Error(err), zap.String("productID", id.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not store image.")
	}

	previous := existing.ImagePath
	existing.ImagePath = &relativePath
	if err := s.repo.Update(ctx, existing); err != nil {
		s.removeImage(relativePath)
		return nil, err
	}
	if previous != nil && *previous != relativePath {
		s.removeImage(*previous)
	}

	s.logger.Info("Product image updated", zap.String("productID", id.String()), zap.String("path", relativePath))
	return existing, nil
}

// ExpireProducts moves every active product past its expires_at to expired and
// notifies the owning organizations.
func (s *ServiceImplementation) ExpireProducts(ctx context.Context) (int, error) {
	now := s.now()
	expirable, err := s.repo.FindExpirable(ctx, now)
	if err != nil {
		s.logger.Error("Failed to find expirable products", zap.Error(err))
		return 0, err
	}
	if len(expirable) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(expirable))
	for _, p := range expirable {
		ids = append(ids, p.ID)
	}
	expiredIDs, err := s.repo.MarkExpired(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to mark products as expired", zap.Error(err), zap.Int("count", len(ids)))
		return 0, err
	}

	expired := make(map[uuid.UUID]struct{}, len(expiredIDs))
	for _, id := range expiredIDs {
		expired[id] = struct{}{}
	}
	if s.notificationService != nil {
		for i := range expirable {
			p := &expirable[i]
			if _, ok := expired[p.ID]; !ok {
				// Changed by its owner since it was selected.
				continue
			}
			message := fmt.Sprintf("Your product '%s' has expired and is no longer listed.", p.Name)
			if _, errNotif := s.notificationService.CreateNotification(ctx, p.OrganizationID, notification.ProductExpired, message, &p.ID); errNotif != nil {
				s.logger.Error("Failed to send product expiry notification",
					zap.Error(errNotif),
					zap.String("productID", p.ID.String()),
					zap.String("organizationID", p.OrganizationID.String()),
				)
			}
		}
	}

	s.logger.Info("Expired products", zap.Int("count", len(expiredIDs)))
	return len(expiredIDs), nil
}

func (s *ServiceImplementation) ownedProduct(ctx context.Context, id, orgID uuid.UUID, action string) (*Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.IsOwnedBy(orgID) {
		s.logger.Warn("Organization attempted to modify a product it does not own",
			zap.String("productID", id.String()),
			zap.String("organizationID", orgID.String()),
			zap.String("ownerID", existing.OrganizationID.String()),
		)
		return nil, common.ErrForbidden.WithDetails(fmt.Sprintf("You do not have permission to %s this product.", action))
	}
	return existing, nil
}

// uniqueSlug derives a URL slug from name and appends a random suffix while it
// collides with an existing product.
func (s *ServiceImplementation) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = fallbackSlugBase
	}

	candidate := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		suffix, err := crypto.RandomHex(slugSuffixBytes)
		if err != nil {
			return "", fmt.Errorf("generating slug suffix: %w", err)
		}
		candidate = base + "-" + suffix
	}
	return "", common.ErrConflict.WithDetails("Could not generate a unique slug for this product.")
}

func (s *ServiceImplementation) expiryFrom(t time.Time) time.Time {
	return t.AddDate(0, 0, s.cfg.DefaultProductLifespanDays)
}

func (s *ServiceImplementation) removeImage(relativePath string) {
	if s.images == nil {
		return
	}
	if err := s.images.DeleteFile(relativePath); err != nil {
		s.logger.Warn("Failed to delete product image", zap.Error(err), zap.String("path", relativePath))
	}
}

func normalizeCategory(category *string) *string {
	if category == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*category))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
