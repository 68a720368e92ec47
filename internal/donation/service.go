package donation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/notification"
	"charity_marketplace_backend/internal/platform/metrics"
	"charity_marketplace_backend/internal/user"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var currencyValidator = validator.New()

// Service defines donation business logic.
type Service interface {
	Donate(ctx context.Context, donorID uuid.UUID, req CreateDonationRequest) (*Donation, error)
	ListDonorDonations(ctx context.Context, donorID uuid.UUID, page, pageSize int) ([]Donation, *common.Pagination, error)
	ListReceivedDonations(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]Donation, *common.Pagination, error)
	GetSummary(ctx context.Context, orgID uuid.UUID) (*Summary, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo                Repository
	userService         user.Service
	notificationService notification.Service
	metrics             *metrics.Metrics
	logger              *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new donation service.
func NewService(
	repo Repository,
	userService user.Service,
	notificationService notification.Service,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:                repo,
		userService:         userService,
		notificationService: notificationService,
		metrics:             m,
		logger:              logger.Named("DonationService"),
	}
}

// Donate records a donation from donorID to the organization named in req.
func (s *ServiceImplementation) Donate(ctx context.Context, donorID uuid.UUID, req CreateDonationRequest) (*Donation, error) {
	if donorID == req.OrganizationID {
		return nil, common.ErrBadRequest.WithDetails("You cannot donate to your own organization.")
	}

	org, err := s.userService.GetOrganization(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrBadRequest.WithDetails("The target organization does not exist.")
		}
		return nil, err
	}

	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	d := &Donation{
		DonorID:        donorID,
		OrganizationID: org.ID,
		AmountCents:    req.AmountCents,
		Currency:       currency,
		Message:        req.Message,
		IsAnonymous:    req.IsAnonymous,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("Failed to create donation", zap.Error(err), zap.String("donorID", donorID.String()))
		return nil, err
	}
	d.Organization = org
	s.metrics.DonationRecorded(d.Currency, d.AmountCents)

	s.logger.Info("Donation recorded",
		zap.String("donationID", d.ID.String()),
		zap.String("organizationID", org.ID.String()),
		zap.Int64("amountCents", d.AmountCents),
		zap.String("currency", d.Currency),
	)

	s.notifyOrganization(ctx, d)
	return d, nil
}

func (s *ServiceImplementation) ListDonorDonations(ctx context.Context, donorID uuid.UUID, page, pageSize int) ([]Donation, *common.Pagination, error) {
	donations, pagination, err := s.repo.ListByDonor(ctx, donorID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list donor donations", zap.Error(err), zap.String("donorID", donorID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve donations.")
	}
	return donations, pagination, nil
}

func (s *ServiceImplementation) ListReceivedDonations(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]Donation, *common.Pagination, error) {
	donations, pagination, err := s.repo.ListByOrganization(ctx, orgID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list received donations", zap.Error(err), zap.String("organizationID", orgID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve donations.")
	}
	return donations, pagination, nil
}

// GetSummary returns the public totals of an organization.
func (s *ServiceImplementation) GetSummary(ctx context.Context, orgID uuid.UUID) (*Summary, error) {
	if _, err := s.userService.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	totals, err := s.repo.TotalsByOrganization(ctx, orgID)
	if err != nil {
		s.logger.Error("Failed to total donations", zap.Error(err), zap.String("organizationID", orgID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not compute donation summary.")
	}

	summary := &Summary{OrganizationID: orgID, Totals: make([]CurrencyTotal, 0, len(totals))}
	for _, t := range totals {
		summary.DonationCount += t.Count
		summary.Totals = append(summary.Totals, t)
	}
	return summary, nil
}

func (s *ServiceImplementation) notifyOrganization(ctx context.Context, d *Donation) {
	if s.notificationService == nil {
		return
	}
	from := "an anonymous donor"
	if !d.IsAnonymous {
		if donor, err := s.userService.GetUserByID(ctx, d.DonorID); err == nil {
			from = donor.Name
		}
	}
	message := fmt.Sprintf("You received a donation of %s %s from %s.", FormatAmount(d.AmountCents), d.Currency, from)
	if _, err := s.notificationService.CreateNotification(ctx, d.OrganizationID, notification.DonationReceived, message, &d.ID); err != nil {
		s.logger.Error("Failed to send donation notification",
			zap.Error(err),
			zap.String("donationID", d.ID.String()),
			zap.String("organizationID", d.OrganizationID.String()),
		)
	}
}

// normalizeCurrency uppercases code and checks it against ISO 4217. Empty means DefaultCurrency.
func normalizeCurrency(code string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(code))
	if currency == "" {
		return DefaultCurrency, nil
	}
	if err := currencyValidator.Var(currency, "iso4217"); err != nil {
		return "", common.NewValidationAPIError(map[string]string{
			"currency": "The currency field must be an ISO 4217 code.",
		})
	}
	return currency, nil
}

// FormatAmount renders minor units with two decimals, e.g. 2550 as "25.50".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
