package service

import (
	"context"
	"errors"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OfferService interface {
	CreateOffer(ctx context.Context, req *models.CreateOfferRequest) (*models.Offer, error)
	ListOffers(ctx context.Context, activeOnly bool) ([]*models.Offer, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	// Apply validates code against subtotal and returns the offer with the discount it grants.
	Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*models.Offer, decimal.Decimal, error)
}

type offerService struct {
	repo repository.OfferRepository
	now  func() time.Time
}

func NewOfferService(repo repository.OfferRepository) OfferService {
	return &offerService{repo: repo, now: time.Now}
}

func (s *offerService) CreateOffer(ctx context.Context, req *models.CreateOfferRequest) (*models.Offer, error) {

	if req.Type == models.OfferTypePercentage && req.Value > 100 {
		return nil, appErrors.AddValidationError("value", "percentage cannot exceed 100")
	}

	offer := &models.Offer{
		Code:           normalizeCode(req.Code),
		Description:    utils.Sanitize(req.Description),
		Type:           req.Type,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		Active:         true,
	}

	if err := s.repo.CreateOffer(ctx, offer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.DuplicateEntryError("Offer code already exists")
		}
		return nil, appErrors.DatabaseError("Failed to create offer").WithError(err)
	}

	return offer, nil
}

func (s *offerService) ListOffers(ctx context.Context, activeOnly bool) ([]*models.Offer, error) {

	var at *time.Time
	if activeOnly {
		now := s.now()
		at = &now
	}

	offers, err := s.repo.ListOffers(ctx, at)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch offers").WithError(err)
	}

	return offers, nil
}

func (s *offerService) Deactivate(ctx context.Context, id primitive.ObjectID) error {

	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.NotFoundError("Offer not found")
		}
		return appErrors.DatabaseError("Failed to deactivate offer").WithError(err)
	}

	return nil
}

func (s *offerService) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*models.Offer, decimal.Decimal, error) {

	offer, err := s.repo.GetOfferByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, decimal.Zero, appErrors.NotFoundError("Offer not found")
		}
		return nil, decimal.Zero, appErrors.DatabaseError("Failed to fetch offer").WithError(err)
	}

	now := s.now()

	switch {
	case !offer.Active:
		return nil, decimal.Zero, appErrors.ValidationError("Offer is no longer active")
	case now.Before(offer.ValidFrom):
		return nil, decimal.Zero, appErrors.ValidationError("Offer has not started yet")
	case now.After(offer.ValidUntil):
		return nil, decimal.Zero, appErrors.ValidationError("Offer has expired")
	}

	minimum := decimal.NewFromFloat(offer.MinOrderAmount)
	if subtotal.LessThan(minimum) {
		return nil, decimal.Zero, appErrors.ValidationError("Order total is below the offer minimum").
			WithDetail("Minimum order amount is " + minimum.StringFixed(2))
	}

	return offer, discountFor(offer, subtotal), nil
}

// discountFor never exceeds the subtotal or the offer's cap.
func discountFor(offer *models.Offer, subtotal decimal.Decimal) decimal.Decimal {

	var discount decimal.Decimal

	switch offer.Type {
	case models.OfferTypePercentage:
		discount = subtotal.Mul(decimal.NewFromFloat(offer.Value)).Div(decimal.NewFromInt(100))
	case models.OfferTypeFlat:
		discount = decimal.NewFromFloat(offer.Value)
	}

	if offer.MaxDiscount > 0 {
		discount = decimal.Min(discount, decimal.NewFromFloat(offer.MaxDiscount))
	}

	return decimal.Min(discount, subtotal).Round(2)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
