package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/metrics"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/sendgrid"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/telegram"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	// NotifyOrderPlaced tells the shop about a new order on every configured channel.
	NotifyOrderPlaced(ctx context.Context, order *models.Order) error
	SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.Notification, error)
	ListNotifications(ctx context.Context, page, pageSize int) ([]*models.Notification, int64, error)
}

type NotificationConfig struct {
	ShopName     string
	ShopEmail    string
	TelegramChat string
}

type notificationService struct {
	repo     repository.NotificationRepository
	telegram telegram.Client
	email    sendgrid.EmailService
	cfg      NotificationConfig
}

func NewNotificationService(repo repository.NotificationRepository, telegramClient telegram.Client, email sendgrid.EmailService, cfg NotificationConfig) NotificationService {
	return &notificationService{repo: repo, telegram: telegramClient, email: email, cfg: cfg}
}

func (n *notificationService) NotifyOrderPlaced(ctx context.Context, order *models.Order) error {

	content := OrderSummary(order)
	subject := fmt.Sprintf("New order #%s", OrderRef(order.ID))
	orderID := order.ID

	var errs []error

	if n.telegram != nil && n.telegram.Enabled() {
		note := &models.Notification{
			OrderID:   &orderID,
			Channel:   models.ChannelTelegram,
			Recipient: n.cfg.TelegramChat,
			Content:   content,
		}
		errs = append(errs, n.deliver(ctx, note, func() error {
			return n.telegram.SendMessage(ctx, content)
		}))
	}

	if n.email != nil && n.cfg.ShopEmail != "" {
		req := &models.EmailNotificationRequest{To: n.cfg.ShopEmail, Subject: subject, Content: content}
		note := &models.Notification{
			OrderID:   &orderID,
			Channel:   models.ChannelEmail,
			Recipient: req.To,
			Subject:   subject,
			Content:   content,
		}
		errs = append(errs, n.deliver(ctx, note, func() error {
			return n.email.Send(ctx, req)
		}))
	}

	return errors.Join(errs...)
}

func (n *notificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.Notification, error) {

	if n.email == nil {
		return nil, appErrors.InternalError("Email delivery is not configured")
	}

	note := &models.Notification{
		Channel:   models.ChannelEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
	}

	if err := n.deliver(ctx, note, func() error { return n.email.Send(ctx, req) }); err != nil {
		return nil, appErrors.ThirdPartyError("Failed to send email").WithError(err)
	}

	return note, nil
}

func (n *notificationService) ListNotifications(ctx context.Context, page, pageSize int) ([]*models.Notification, int64, error) {

	notifications, total, err := n.repo.ListNotifications(ctx, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch notifications").WithError(err)
	}

	return notifications, total, nil
}

// deliver records the attempt as pending, sends, then stores the outcome. Sends are not retried.
func (n *notificationService) deliver(ctx context.Context, note *models.Notification, send func() error) error {

	logger := middleware.LoggerFromContext(ctx)
	note.Status = models.StatusPending

	if err := n.repo.CreateNotification(ctx, note); err != nil {
		logger.Error("Failed to record notification", slog.String("channel", string(note.Channel)), slog.String("error", err.Error()))
	}

	sendErr := send()

	status, errMsg := models.StatusSent, ""
	if sendErr != nil {
		status, errMsg = models.StatusFailed, sendErr.Error()
		logger.Warn("Notification failed", slog.String("channel", string(note.Channel)), slog.String("error", errMsg))
	}

	note.Status = status
	note.Error = errMsg
	metrics.RecordNotification(string(note.Channel), string(status))

	if !note.ID.IsZero() {
		if err := n.repo.UpdateStatus(ctx, note.ID, status, errMsg); err != nil {
			logger.Error("Failed to update notification status", slog.String("id", note.ID.Hex()), slog.String("error", err.Error()))
		}
	}

	return sendErr
}

// OrderRef is the short reference shown to people instead of the full id.
func OrderRef(id primitive.ObjectID) string {
	hex := id.Hex()
	return strings.ToUpper(hex[len(hex)-6:])
}

// OrderSummary renders an order as plain text for chat and email.
func OrderSummary(order *models.Order) string {

	var b strings.Builder
	addr := order.ShippingAddress

	fmt.Fprintf(&b, "Order #%s\n", OrderRef(order.ID))
	fmt.Fprintf(&b, "%s (%s)\n", addr.Name, addr.Phone)

	lines := []string{addr.Line1, addr.Line2, addr.Landmark, addr.City}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			parts = append(parts, l)
		}
	}
	fmt.Fprintf(&b, "%s %s\n\n", strings.Join(parts, ", "), addr.Pincode)

	for _, item := range order.Items {
		qty := units.New(item.Quantity, item.Unit)
		fmt.Fprintf(&b, "- %s: %s = %s\n", item.Name, qty, rupees(item.LineTotal))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", rupees(order.Subtotal))
	if order.Discount > 0 {
		fmt.Fprintf(&b, "Discount (%s): -%s\n", order.OfferCode, rupees(order.Discount))
	}
	if order.DeliveryFee > 0 {
		fmt.Fprintf(&b, "Delivery: %s\n", rupees(order.DeliveryFee))
	}
	fmt.Fprintf(&b, "Total: %s\n", rupees(order.Total))
	fmt.Fprintf(&b, "Payment: %s", strings.ToUpper(string(order.PaymentMethod)))

	if order.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", order.Notes)
	}

	return b.String()
}

func rupees(amount float64) string {
	return "₹" + decimal.NewFromFloat(amount).StringFixed(2)
}
