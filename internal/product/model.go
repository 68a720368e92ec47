// File: internal/product/model.go
package product

import (
	"time"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/filestorage"
	"charity_marketplace_backend/internal/user"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusInactive ProductStatus = "inactive"
	StatusExpired  ProductStatus = "expired"
)

// Product is an item an organization sells to raise funds.
type Product struct {
	common.BaseModel
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Organization   *user.User    `gorm:"foreignKey:OrganizationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name           string        `gorm:"type:varchar(200);not null"`
	Slug           string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description    string        `gorm:"type:text;not null;default:''"`
	PriceCents     int64         `gorm:"not null;default:0"`
	Stock          int           `gorm:"not null;default:0"`
	Category       *string       `gorm:"type:varchar(100);index"`
	ImagePath      *string       `gorm:"type:text"` // Relative to IMAGE_STORAGE_PATH
	Status         ProductStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	ExpiresAt      time.Time     `gorm:"not null;index"`
}

func (Product) TableName() string {
	return "products"
}

// IsOwnedBy reports whether orgID owns the product.
func (p *Product) IsOwnedBy(orgID uuid.UUID) bool {
	return p.OrganizationID == orgID
}

// IsListed reports whether the product shows up in the public catalogue at now.
func (p *Product) IsListed(now time.Time) bool {
	return p.Status == StatusActive && p.ExpiresAt.After(now)
}

// --- DTOs for API ---

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=200"`
	Description string  `json:"description" binding:"omitempty,max=5000"`
	PriceCents  *int64  `json:"price_cents" binding:"required,gte=0"`
	Stock       *int    `json:"stock,omitempty" binding:"omitempty,gte=0"`
	Category    *string `json:"category,omitempty" binding:"omitempty,max=100"`
}

// UpdateProductRequest applies only the fields that are present. Owners may switch
// between active and inactive; expired is set by the expiry job only.
type UpdateProductRequest struct {
	Name        *string        `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	Description *string        `json:"description,omitempty" binding:"omitempty,max=5000"`
	PriceCents  *int64         `json:"price_cents,omitempty" binding:"omitempty,gte=0"`
	Stock       *int           `json:"stock,omitempty" binding:"omitempty,gte=0"`
	Category    *string        `json:"category,omitempty" binding:"omitempty,max=100"`
	Status      *ProductStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
}

type ProductResponse struct {
	ID             uuid.UUID                  `json:"id"`
	OrganizationID uuid.UUID                  `json:"organization_id"`
	Organization   *user.OrganizationResponse `json:"organization,omitempty"`
	Name           string                     `json:"name"`
	Slug           string                     `json:"slug"`
	Description    string                     `json:"description"`
	PriceCents     int64                      `json:"price_cents"`
	Stock          int                        `json:"stock"`
	Category       *string                    `json:"category,omitempty"`
	ImageURL       *string                    `json:"image_url,omitempty"`
	Status         ProductStatus              `json:"status"`
	ExpiresAt      time.Time                  `json:"expires_at"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

func ToProductResponse(p *Product) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		PriceCents:     p.PriceCents,
		Stock:          p.Stock,
		Category:       p.Category,
		Status:         p.Status,
		ExpiresAt:      p.ExpiresAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Organization != nil {
		org := user.ToOrganizationResponse(p.Organization)
		resp.Organization = &org
	}
	if p.ImagePath != nil && *p.ImagePath != "" {
		url := filestorage.PublicURL(*p.ImagePath)
		resp.ImageURL = &url
	}
	return resp
}

func ToProductResponses(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}
