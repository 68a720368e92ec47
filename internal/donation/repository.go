package donation

import (
	"context"
	"fmt"

	"charity_marketplace_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for donation data operations.
type Repository interface {
	Create(ctx context.Context, donation *Donation) error
	ListByDonor(ctx context.Context, donorID uuid.UUID, page, pageSize int) ([]Donation, *common.Pagination, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]Donation, *common.Pagination, error)
	TotalsByOrganization(ctx context.Context, orgID uuid.UUID) ([]CurrencyTotal, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM donation repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, donation *Donation) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(donation).Error; err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

func (r *gormRepository) ListByDonor(ctx context.Context, donorID uuid.UUID, page, pageSize int) ([]Donation, *common.Pagination, error) {
	return r.list(ctx, "donor_id = ?", donorID, "Organization", page, pageSize)
}

func (r *gormRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]Donation, *common.Pagination, error) {
	return r.list(ctx, "organization_id = ?", orgID, "Donor", page, pageSize)
}

func (r *gormRepository) list(ctx context.Context, where string, id uuid.UUID, preload string, page, pageSize int) ([]Donation, *common.Pagination, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Donation{}).Where(where, id).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count donations: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)

	var donations []Donation
	err := r.db.WithContext(ctx).
		Preload(preload).
		Where(where, id).
		Order("created_at DESC").
		Limit(pagination.PageSize).
		Offset(common.Offset(pagination.CurrentPage, pagination.PageSize)).
		Find(&donations).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, pagination, nil
}

// TotalsByOrganization sums the organization's donations per currency.
func (r *gormRepository) TotalsByOrganization(ctx context.Context, orgID uuid.UUID) ([]CurrencyTotal, error) {
	var totals []CurrencyTotal
	err := r.db.WithContext(ctx).Model(&Donation{}).
		Select("currency, SUM(amount_cents) AS amount_cents, COUNT(*) AS count").
		Where("organization_id = ?", orgID).
		Group("currency").
		Order("currency").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to total donations: %w", err)
	}
	return totals, nil
}
