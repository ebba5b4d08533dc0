package service_test

import (
	"context"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func runningOffer(offerType models.OfferType, value float64) *models.Offer {
	return &models.Offer{
		Code:       "FRESH10",
		Type:       offerType,
		Value:      value,
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
		Active:     true,
	}
}

func TestOfferService_Apply(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		offer    func() *models.Offer
		subtotal string
		want     string
		wantCode string
	}{
		{
			name:     "Percentage",
			offer:    func() *models.Offer { return runningOffer(models.OfferTypePercentage, 10) },
			subtotal: "455.50",
			want:     "45.55",
		},
		{
			name: "Percentage capped",
			offer: func() *models.Offer {
				o := runningOffer(models.OfferTypePercentage, 50)
				o.MaxDiscount = 100
				return o
			},
			subtotal: "1000",
			want:     "100",
		},
		{
			name:     "Flat never exceeds subtotal",
			offer:    func() *models.Offer { return runningOffer(models.OfferTypeFlat, 500) },
			subtotal: "320",
			want:     "320",
		},
		{
			name: "Below minimum",
			offer: func() *models.Offer {
				o := runningOffer(models.OfferTypeFlat, 50)
				o.MinOrderAmount = 499
				return o
			},
			subtotal: "498.99",
			wantCode: appErrors.ErrCodeValidation,
		},
		{
			name: "Expired",
			offer: func() *models.Offer {
				o := runningOffer(models.OfferTypeFlat, 50)
				o.ValidUntil = time.Now().Add(-time.Minute)
				return o
			},
			subtotal: "600",
			wantCode: appErrors.ErrCodeValidation,
		},
		{
			name: "Inactive",
			offer: func() *models.Offer {
				o := runningOffer(models.OfferTypeFlat, 50)
				o.Active = false
				return o
			},
			subtotal: "600",
			wantCode: appErrors.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			repo := new(mocks.OfferRepository)
			repo.On("GetOfferByCode", ctx, "FRESH10").Return(tt.offer(), nil)
			svc := service.NewOfferService(repo)

			// Act
			_, discount, err := svc.Apply(ctx, " fresh10 ", decimal.RequireFromString(tt.subtotal))

			// Assert
			if tt.wantCode != "" {
				requireAppCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(discount), "got %s", discount)
		})
	}

	t.Run("Unknown code", func(t *testing.T) {
		// Arrange
		repo := new(mocks.OfferRepository)
		repo.On("GetOfferByCode", ctx, "NOPE").Return(nil, repository.ErrNotFound)
		svc := service.NewOfferService(repo)

		// Act
		_, _, err := svc.Apply(ctx, "nope", decimal.NewFromInt(100))

		// Assert
		requireAppCode(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestOfferService_CreateOffer(t *testing.T) {
	ctx := context.Background()
	from := time.Now()

	t.Run("Code stored upper-cased", func(t *testing.T) {
		// Arrange
		repo := new(mocks.OfferRepository)
		repo.On("CreateOffer", ctx, mock.MatchedBy(func(o *models.Offer) bool { return o.Code == "MONSOON" && o.Active })).Return(nil)
		svc := service.NewOfferService(repo)

		// Act
		offer, err := svc.CreateOffer(ctx, &models.CreateOfferRequest{
			Code: "monsoon", Type: models.OfferTypeFlat, Value: 40, ValidFrom: from, ValidUntil: from.Add(time.Hour),
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "MONSOON", offer.Code)
		repo.AssertExpectations(t)
	})

	t.Run("Percentage over 100 rejected", func(t *testing.T) {
		// Arrange
		repo := new(mocks.OfferRepository)
		svc := service.NewOfferService(repo)

		// Act
		_, err := svc.CreateOffer(ctx, &models.CreateOfferRequest{
			Code: "HUGE", Type: models.OfferTypePercentage, Value: 120, ValidFrom: from, ValidUntil: from.Add(time.Hour),
		})

		// Assert
		requireAppCode(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Duplicate code", func(t *testing.T) {
		// Arrange
		repo := new(mocks.OfferRepository)
		repo.On("CreateOffer", ctx, mock.Anything).Return(repository.ErrDuplicate)
		svc := service.NewOfferService(repo)

		// Act
		_, err := svc.CreateOffer(ctx, &models.CreateOfferRequest{
			Code: "DUP", Type: models.OfferTypeFlat, Value: 10, ValidFrom: from, ValidUntil: from.Add(time.Hour),
		})

		// Assert
		requireAppCode(t, err, appErrors.ErrCodeDuplicateEntry)
	})
}
