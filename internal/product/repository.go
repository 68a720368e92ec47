// File: internal/product/repository.go
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charity_marketplace_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for product data operations.
type Repository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, now time.Time, page, pageSize int) ([]Product, *common.Pagination, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]Product, *common.Pagination, error)
	FindExpirable(ctx context.Context, now time.Time) ([]Product, error)
	MarkExpired(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM product repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("A product with this slug already exists.")
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return r.findOne(ctx, "products.id = ?", id)
}

func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.findOne(ctx, "products.slug = ?", slug)
}

func (r *gormRepository) findOne(ctx context.Context, query string, arg interface{}) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).Preload("Organization").First(&product, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Product not found.")
		}
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product slug: %w", err)
	}
	return count > 0, nil
}

// Update saves all columns of product. Associations are never written.
func (r *gormRepository) Update(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("A product with this slug already exists.")
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Product not found.")
	}
	return nil
}

// ListActive returns the public catalogue: active, unexpired products, newest first.
func (r *gormRepository) ListActive(ctx context.Context, now time.Time, page, pageSize int) ([]Product, *common.Pagination, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("products.status = ? AND products.expires_at > ?", StatusActive, now)
	}
	return r.list(ctx, scope, page, pageSize)
}

// ListByOrganization returns every product of one organization regardless of status.
func (r *gormRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]Product, *common.Pagination, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("products.organization_id = ?", orgID)
	}
	return r.list(ctx, scope, page, pageSize)
}

func (r *gormRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, pageSize int) ([]Product, *common.Pagination, error) {
	var totalItems int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Scopes(scope).Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count products: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)

	var products []Product
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Organization").
		Order("products.created_at DESC").
		Limit(pagination.PageSize).
		Offset(common.Offset(pagination.CurrentPage, pagination.PageSize)).
		Find(&products).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, pagination, nil
}

// FindExpirable retrieves active products whose expires_at is not after now.
func (r *gormRepository) FindExpirable(ctx context.Context, now time.Time) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", StatusActive, now).
		Find(&products).Error
	return products, err
}

// MarkExpired moves the given products to expired and returns the ids it changed.
// Products that are no longer active are left alone and not returned.
func (r *gormRepository) MarkExpired(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	expired := make([]uuid.UUID, 0, len(ids))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			result := tx.Model(&Product{}).
				Where("id = ? AND status = ?", id, StatusActive).
				Update("status", StatusExpired)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 1 {
				expired = append(expired, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expire products: %w", err)
	}
	return expired, nil
}
