package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubTelegram struct {
	enabled bool
	err     error
	sent    []string
}

func (s *stubTelegram) Enabled() bool { return s.enabled }

func (s *stubTelegram) SendMessage(_ context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

type stubEmail struct {
	err  error
	sent []*models.EmailNotificationRequest
}

func (s *stubEmail) Send(_ context.Context, req *models.EmailNotificationRequest) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, req)
	return nil
}

func (s *stubEmail) GetSendGridClient() *sendgrid.Client { return nil }

func sampleOrder() *models.Order {
	return &models.Order{
		ID: primitive.NewObjectID(),
		Items: []models.OrderItem{
			{Name: "Rohu", Quantity: 1.5, Unit: units.Kilogram, UnitPrice: 320, LineTotal: 480},
			{Name: "Crab", Quantity: 2, Unit: units.Piece, UnitPrice: 120, LineTotal: 240},
		},
		ShippingAddress: models.Address{Name: "Ananya", Phone: "9876543210", Line1: "12 Park Street", City: "Kolkata", Pincode: "700016"},
		Subtotal:        720,
		Discount:        72,
		DeliveryFee:     30,
		Total:           678,
		OfferCode:       "FRESH10",
		PaymentMethod:   models.PaymentMethodCOD,
	}
}

func expectRecorded(repo *mocks.NotificationRepository, channel models.NotificationChannel, status models.NotificationStatus) {
	id := primitive.NewObjectID()
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool { return n.Channel == channel })).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Notification).ID = id }).
		Return(nil).Once()
	repo.On("UpdateStatus", mock.Anything, id, status, mock.AnythingOfType("string")).Return(nil).Once()
}

func TestOrderSummary(t *testing.T) {
	// Arrange
	order := sampleOrder()

	// Act
	text := service.OrderSummary(order)

	// Assert
	assert.Contains(t, text, "Order #"+service.OrderRef(order.ID))
	assert.Contains(t, text, "Ananya (9876543210)")
	assert.Contains(t, text, "12 Park Street, Kolkata 700016")
	assert.Contains(t, text, "- Rohu: 1.5kg = ₹480.00")
	assert.Contains(t, text, "- Crab: 2 pieces = ₹240.00")
	assert.Contains(t, text, "Discount (FRESH10): -₹72.00")
	assert.Contains(t, text, "Total: ₹678.00")
	assert.True(t, strings.HasSuffix(text, "Payment: COD"))
}

func TestNotificationService_NotifyOrderPlaced(t *testing.T) {
	ctx := context.Background()

	t.Run("Both channels delivered and recorded", func(t *testing.T) {
		// Arrange
		repo := new(mocks.NotificationRepository)
		expectRecorded(repo, models.ChannelTelegram, models.StatusSent)
		expectRecorded(repo, models.ChannelEmail, models.StatusSent)
		tg := &stubTelegram{enabled: true}
		email := &stubEmail{}
		svc := service.NewNotificationService(repo, tg, email, service.NotificationConfig{ShopEmail: "shop@example.com", TelegramChat: "-1001"})

		// Act
		err := svc.NotifyOrderPlaced(ctx, sampleOrder())

		// Assert
		require.NoError(t, err)
		assert.Len(t, tg.sent, 1)
		require.Len(t, email.sent, 1)
		assert.Equal(t, "shop@example.com", email.sent[0].To)
		assert.True(t, strings.HasPrefix(email.sent[0].Subject, "New order #"))
		repo.AssertExpectations(t)
	})

	t.Run("Telegram failure is recorded and email still goes out", func(t *testing.T) {
		// Arrange
		repo := new(mocks.NotificationRepository)
		expectRecorded(repo, models.ChannelTelegram, models.StatusFailed)
		expectRecorded(repo, models.ChannelEmail, models.StatusSent)
		tg := &stubTelegram{enabled: true, err: errors.New("bot blocked")}
		email := &stubEmail{}
		svc := service.NewNotificationService(repo, tg, email, service.NotificationConfig{ShopEmail: "shop@example.com"})

		// Act
		err := svc.NotifyOrderPlaced(ctx, sampleOrder())

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bot blocked")
		assert.Len(t, email.sent, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Unconfigured channels are skipped", func(t *testing.T) {
		// Arrange
		repo := new(mocks.NotificationRepository)
		svc := service.NewNotificationService(repo, &stubTelegram{}, &stubEmail{}, service.NotificationConfig{})

		// Act
		err := svc.NotifyOrderPlaced(ctx, sampleOrder())

		// Assert
		require.NoError(t, err)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_SendEmail(t *testing.T) {
	ctx := context.Background()
	req := &models.EmailNotificationRequest{To: "owner@example.com", Subject: "Test", Content: "Hello"}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo := new(mocks.NotificationRepository)
		expectRecorded(repo, models.ChannelEmail, models.StatusSent)
		svc := service.NewNotificationService(repo, nil, &stubEmail{}, service.NotificationConfig{})

		// Act
		note, err := svc.SendEmail(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.StatusSent, note.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Provider error", func(t *testing.T) {
		// Arrange
		repo := new(mocks.NotificationRepository)
		expectRecorded(repo, models.ChannelEmail, models.StatusFailed)
		svc := service.NewNotificationService(repo, nil, &stubEmail{err: errors.New("401")}, service.NotificationConfig{})

		// Act
		_, err := svc.SendEmail(ctx, req)

		// Assert
		requireAppCode(t, err, appErrors.ErrCodeThirdPartyError)
	})
}
