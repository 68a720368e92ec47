package donation

import (
	"time"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/user"

	"github.com/google/uuid"
)

// DefaultCurrency is used when a donation request names no currency.
const DefaultCurrency = "USD"

// Donation is a one-off gift from any user to an organization.
type Donation struct {
	common.BaseModel
	DonorID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Donor          *user.User `gorm:"foreignKey:DonorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Organization   *user.User `gorm:"foreignKey:OrganizationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AmountCents    int64      `gorm:"not null"`
	Currency       string     `gorm:"type:varchar(3);not null;default:'USD'"`
	Message        *string    `gorm:"type:text"`
	IsAnonymous    bool       `gorm:"not null;default:false"`
}

func (Donation) TableName() string {
	return "donations"
}

// --- DTOs for API ---

type CreateDonationRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	AmountCents    int64     `json:"amount_cents" binding:"required,gt=0"`
	Currency       string    `json:"currency,omitempty" binding:"omitempty,alpha,len=3"`
	Message        *string   `json:"message,omitempty" binding:"omitempty,max=1000"`
	IsAnonymous    bool      `json:"is_anonymous"`
}

// DonorSummary identifies the donor to the receiving organization.
type DonorSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type DonationResponse struct {
	ID             uuid.UUID                  `json:"id"`
	OrganizationID uuid.UUID                  `json:"organization_id"`
	Organization   *user.OrganizationResponse `json:"organization,omitempty"`
	Donor          *DonorSummary              `json:"donor,omitempty"`
	AmountCents    int64                      `json:"amount_cents"`
	Currency       string                     `json:"currency"`
	Message        *string                    `json:"message,omitempty"`
	IsAnonymous    bool                       `json:"is_anonymous"`
	CreatedAt      time.Time                  `json:"created_at"`
}

// ToDonorView renders a donation for the donor who made it.
func ToDonorView(d *Donation) DonationResponse {
	resp := baseResponse(d)
	if d.Organization != nil {
		org := user.ToOrganizationResponse(d.Organization)
		resp.Organization = &org
	}
	return resp
}

// ToRecipientView renders a donation for the receiving organization. Donor
// details are left out of anonymous donations.
func ToRecipientView(d *Donation) DonationResponse {
	resp := baseResponse(d)
	if !d.IsAnonymous && d.Donor != nil {
		resp.Donor = &DonorSummary{ID: d.Donor.ID, Name: d.Donor.Name}
	}
	return resp
}

func baseResponse(d *Donation) DonationResponse {
	return DonationResponse{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		AmountCents:    d.AmountCents,
		Currency:       d.Currency,
		Message:        d.Message,
		IsAnonymous:    d.IsAnonymous,
		CreatedAt:      d.CreatedAt,
	}
}

// CurrencyTotal is the sum of donations in one currency.
type CurrencyTotal struct {
	Currency    string `json:"currency"`
	AmountCents int64  `json:"amount_cents"`
	Count       int64  `json:"count"`
}

// Summary is the public donation total of one organization.
type Summary struct {
	OrganizationID uuid.UUID       `json:"organization_id"`
	DonationCount  int64           `json:"donation_count"`
	Totals         []CurrencyTotal `json:"totals"`
}
