package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/metrics"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/telegram"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/whatsapp"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const notifyTimeout = 30 * time.Second

const (
	ShareWhatsApp = "whatsapp"
	ShareTelegram = "telegram"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID primitive.ObjectID, sessionID string, req *models.PlaceOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error)
	ListOrders(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Order, int64, error)
	CancelOrder(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error)
	ShareURL(ctx context.Context, userID, id primitive.ObjectID, provider string) (string, error)

	ListAllOrders(ctx context.Context, status *models.OrderStatus, page, pageSize int) ([]*models.Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
}

type OrderDeps struct {
	Orders        repository.OrderRepository
	Carts         repository.CartRepository
	Products      repository.ProductRepository
	Addresses     repository.AddressRepository
	Offers        OfferService
	Payments      PaymentService
	Notifications NotificationService
}

type OrderConfig struct {
	DeliveryFee float64
	ShopPhone   string
	PublicURL   string
}

type orderService struct {
	OrderDeps
	cfg OrderConfig
}

func NewOrderService(deps OrderDeps, cfg OrderConfig) OrderService {
	return &orderService{OrderDeps: deps, cfg: cfg}
}

// PlaceOrder turns the session cart into an order. Prices come from the line snapshots, stock is
// reserved per product and every reservation is released again if a later step fails.
func (s *orderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, sessionID string, req *models.PlaceOrderRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	lines, err := s.Carts.ListLines(ctx, sessionID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load cart").WithError(err)
	}

	if len(lines) == 0 {
		return nil, appErrors.BadRequestError("Cart is empty")
	}

	addressID, err := primitive.ObjectIDFromHex(req.AddressID)
	if err != nil {
		return nil, appErrors.ValidationError("Invalid address ID")
	}

	address, err := s.Addresses.GetAddress(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Address not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch address").WithError(err)
	}

	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		item, lineTotal, err := priceLine(line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		subtotal = subtotal.Add(lineTotal)
	}

	discount := decimal.Zero
	offerCode := ""

	if strings.TrimSpace(req.OfferCode) != "" {
		offer, d, err := s.Offers.Apply(ctx, req.OfferCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount, offerCode = d, offer.Code
	}

	fee := decimal.NewFromFloat(s.cfg.DeliveryFee)
	total := subtotal.Sub(discount).Add(fee).Round(2)

	if err := s.reserve(ctx, items); err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: *address,
		Subtotal:        subtotal.Round(2).InexactFloat64(),
		Discount:        discount.InexactFloat64(),
		DeliveryFee:     fee.InexactFloat64(),
		Total:           total.InexactFloat64(),
		OfferCode:       offerCode,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusPending,
		Notes:           utils.Sanitize(req.Notes),
	}

	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		s.release(ctx, items)
		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	if order.PaymentMethod == models.PaymentMethodOnline {
		if _, err := s.Payments.StartPayment(ctx, order); err != nil {
			if updateErr := s.Orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled); updateErr != nil {
				logger.Error("Failed to cancel unpaid order", slog.String("orderId", order.ID.Hex()), slog.String("error", updateErr.Error()))
			}
			s.release(ctx, items)
			return nil, err
		}
	}

	if _, err := s.Carts.DeleteSession(ctx, sessionID); err != nil {
		logger.Warn("Failed to clear cart after order", slog.String("sessionId", sessionID), slog.String("error", err.Error()))
	}

	metrics.RecordOrderPlaced(string(order.PaymentMethod))
	logger.Info("Order placed",
		slog.String("orderId", order.ID.Hex()),
		slog.String("total", total.StringFixed(2)),
		slog.String("paymentMethod", string(order.PaymentMethod)))

	s.notifyAsync(ctx, order)

	return order, nil
}

func (s *orderService) notifyAsync(ctx context.Context, order *models.Order) {
	if s.Notifications == nil {
		return
	}

	snapshot := *order
	notifyCtx := context.WithoutCancel(ctx)

	go func() {
		ctx, cancel := context.WithTimeout(notifyCtx, notifyTimeout)
		defer cancel()

		if err := s.Notifications.NotifyOrderPlaced(ctx, &snapshot); err != nil {
			middleware.LoggerFromContext(ctx).Warn("Order notification incomplete", slog.String("orderId", snapshot.ID.Hex()), slog.String("error", err.Error()))
		}
	}()
}

func (s *orderService) reserve(ctx context.Context, items []models.OrderItem) error {

	for i, item := range items {
		err := s.Products.ReserveStock(ctx, item.ProductID, item.StockDelta)
		if err == nil {
			continue
		}

		s.release(ctx, items[:i])

		if errors.Is(err, repository.ErrInsufficientStock) {
			return appErrors.OutOfStockError("Not enough stock").WithDetail(item.Name + " is no longer available in this quantity")
		}
		return appErrors.DatabaseError("Failed to reserve stock").WithError(err)
	}

	return nil
}

func (s *orderService) release(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.Products.ReleaseStock(ctx, item.ProductID, item.StockDelta); err != nil {
			middleware.LoggerFromContext(ctx).Error("Failed to release stock",
				slog.String("productId", item.ProductID.Hex()),
				slog.Float64("qty", item.StockDelta),
				slog.String("error", err.Error()))
		}
	}
}

func (s *orderService) GetOrder(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error) {

	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, appErrors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*models.Order, int64, error) {

	orders, total, err := s.Orders.ListOrdersByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, status *models.OrderStatus, page, pageSize int) ([]*models.Order, int64, error) {

	orders, total, err := s.Orders.ListOrders(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// CancelOrder lets a customer withdraw an order the shop has not confirmed yet.
func (s *orderService) CancelOrder(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error) {

	order, err := s.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return nil, appErrors.ConflictError("Only pending orders can be cancelled")
	}

	return s.transition(ctx, order, models.OrderStatusCancelled)
}

func (s *orderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {

	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusCancelled || order.Status == models.OrderStatusDelivered {
		return nil, appErrors.ConflictError(fmt.Sprintf("Order is already %s", order.Status))
	}

	return s.transition(ctx, order, status)
}

func (s *orderService) transition(ctx context.Context, order *models.Order, status models.OrderStatus) (*models.Order, error) {

	if err := s.Orders.UpdateOrderStatus(ctx, order.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found")
		}
		return nil, appErrors.DatabaseError("Failed to update order").WithError(err)
	}

	if status == models.OrderStatusCancelled {
		s.release(ctx, order.Items)
	}

	middleware.LoggerFromContext(ctx).Info("Order status changed",
		slog.String("orderId", order.ID.Hex()),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)))

	order.Status = status

	return order, nil
}

// ShareURL builds a deep link that opens the order summary in WhatsApp or Telegram.
func (s *orderService) ShareURL(ctx context.Context, userID, id primitive.ObjectID, provider string) (string, error) {

	order, err := s.GetOrder(ctx, userID, id)
	if err != nil {
		return "", err
	}

	text := OrderSummary(order)

	switch strings.ToLower(provider) {
	case ShareWhatsApp:
		return whatsapp.ShareURL(s.cfg.ShopPhone, text), nil
	case ShareTelegram:
		link := strings.TrimRight(s.cfg.PublicURL, "/") + "/api/v1/orders/" + order.ID.Hex()
		return telegram.ShareURL(link, text), nil
	}

	return "", appErrors.BadRequestError("Unknown share provider").WithDetail("Use whatsapp or telegram")
}

func (s *orderService) loadOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {

	order, err := s.Orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

// priceLine charges weight lines per kilogram and piece lines per piece. The stock delta uses
// the same basis as Product.StockQty.
func priceLine(line *models.CartLine) (models.OrderItem, decimal.Decimal, error) {

	price := decimal.NewFromFloat(line.Snapshot.Price)
	qty := units.New(line.TotalWeight, line.Unit)

	basis := qty.Amount
	if line.Unit != units.Piece {
		kg, err := qty.Kilograms()
		if err != nil {
			return models.OrderItem{}, decimal.Zero, appErrors.InternalError("Cart line has an invalid unit").WithError(err)
		}
		basis = kg
	}

	lineTotal := price.Mul(basis).Round(2)

	return models.OrderItem{
		ProductID:  line.ProductID,
		Name:       line.Snapshot.Name,
		Quantity:   line.TotalWeight,
		Unit:       line.Unit,
		UnitPrice:  line.Snapshot.Price,
		LineTotal:  lineTotal.InexactFloat64(),
		StockDelta: basis.InexactFloat64(),
	}, lineTotal, nil
}
