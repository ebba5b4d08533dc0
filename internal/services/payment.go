package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/stripe"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const paymentProvider = "stripe"

type PaymentService interface {
	// StartPayment opens a Stripe payment intent for an online order.
	StartPayment(ctx context.Context, order *models.Order) (*models.Payment, error)
	CreatePayment(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Payment, error)
	GetPayment(ctx context.Context, userID, id primitive.ObjectID) (*models.Payment, error)
	ListPayments(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Payment, int64, error)
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error)
}

type paymentService struct {
	repo         repository.PaymentRepository
	orders       repository.OrderRepository
	stripeClient stripe.Client
	currency     string
}

func NewPaymentService(repo repository.PaymentRepository, orders repository.OrderRepository, stripeClient stripe.Client, currency string) PaymentService {
	return &paymentService{repo: repo, orders: orders, stripeClient: stripeClient, currency: currency}
}

func (s *paymentService) StartPayment(ctx context.Context, order *models.Order) (*models.Payment, error) {

	// Stripe takes the smallest currency unit: paise for INR.
	amount := decimal.NewFromFloat(order.Total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	metadata := map[string]string{
		"order_id": order.ID.Hex(),
		"user_id":  order.UserID.Hex(),
	}

	intent, err := s.stripeClient.CreatePaymentIntent(ctx, amount, s.currency, "Order #"+OrderRef(order.ID), metadata)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	payment := &models.Payment{
		OrderID:         order.ID,
		UserID:          order.UserID,
		Amount:          order.Total,
		Currency:        s.currency,
		Status:          models.PaymentStatusPending,
		Provider:        paymentProvider,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, appErrors.DatabaseError("Failed to record payment").WithError(err)
	}

	if err := s.orders.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusPending, intent.ID); err != nil {
		return nil, appErrors.DatabaseError("Failed to link payment to order").WithError(err)
	}

	order.PaymentIntentID = intent.ID
	order.ClientSecret = intent.ClientSecret

	return payment, nil
}

// CreatePayment retries payment for an unpaid online order owned by userID.
func (s *paymentService) CreatePayment(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Payment, error) {

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != userID {
		return nil, appErrors.NotFoundError("Order not found")
	}

	switch {
	case order.PaymentMethod != models.PaymentMethodOnline:
		return nil, appErrors.BadRequestError("Order is cash on delivery")
	case order.PaymentStatus == models.PaymentStatusSucceeded:
		return nil, appErrors.ConflictError("Order is already paid")
	case order.Status == models.OrderStatusCancelled:
		return nil, appErrors.ConflictError("Order is cancelled")
	}

	return s.StartPayment(ctx, order)
}

func (s *paymentService) GetPayment(ctx context.Context, userID, id primitive.ObjectID) (*models.Payment, error) {

	payment, err := s.repo.GetPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Payment not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch payment").WithError(err)
	}

	if payment.UserID != userID {
		return nil, appErrors.NotFoundError("Payment not found")
	}

	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Payment, int64, error) {

	payments, total, err := s.repo.ListPaymentsByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch payments").WithError(err)
	}

	return payments, total, nil
}

func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return stripe.Event{}, appErrors.BadRequestError("Webhook signature verification failed").WithError(err)
	}

	object := map[string]any{}
	if event.Data != nil {
		object = event.Data.Object
	}

	var (
		intentID string
		status   models.PaymentStatus
		reason   string
	)

	switch event.Type {
	case "payment_intent.succeeded":
		intentID, _ = object["id"].(string)
		status = models.PaymentStatusSucceeded
	case "payment_intent.payment_failed":
		intentID, _ = object["id"].(string)
		status = models.PaymentStatusFailed
		if lastErr, ok := object["last_payment_error"].(map[string]any); ok {
			reason, _ = lastErr["message"].(string)
		}
	case "charge.refunded":
		intentID, _ = object["payment_intent"].(string)
		status = models.PaymentStatusRefunded
	default:
		return event, nil
	}

	if intentID == "" {
		return event, appErrors.BadRequestError("Missing payment intent ID in webhook")
	}

	if err := s.applyStatus(ctx, intentID, status, reason); err != nil {
		return event, err
	}

	return event, nil
}

func (s *paymentService) applyStatus(ctx context.Context, intentID string, status models.PaymentStatus, reason string) error {

	logger := middleware.LoggerFromContext(ctx)

	payment, err := s.repo.GetPaymentByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Webhook for unknown payment intent", slog.String("intentId", intentID))
			return nil
		}
		return appErrors.DatabaseError("Failed to fetch payment").WithError(err)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, intentID, status, reason); err != nil {
		return appErrors.DatabaseError("Failed to update payment status").WithError(err)
	}

	if err := s.orders.UpdatePaymentStatus(ctx, payment.OrderID, status, intentID); err != nil {
		return appErrors.DatabaseError("Failed to update order payment status").WithError(err)
	}

	logger.Info("Payment status updated",
		slog.String("intentId", intentID),
		slog.String("orderId", payment.OrderID.Hex()),
		slog.String("status", string(status)))

	return nil
}
