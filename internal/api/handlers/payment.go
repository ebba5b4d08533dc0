package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stripe events are far below this.
const maxWebhookBytes = 64 << 10

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: utils.NewValidator()}
}

// CreatePayment godoc
//	@Summary		Retry payment for an online order
//	@Description	Opens a fresh payment intent for a pending online order.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.CreatePaymentRequest	true	"Order to pay"
//	@Success		201		{object}	models.Payment
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse	"Order not found"
//	@Failure		409		{object}	response.ErrorResponse	"Order already paid"
//	@Failure		502		{object}	response.ErrorResponse	"Payment provider error"
//	@Security		BearerAuth
//	@Router			/payments [post]
func (h *PaymentHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.CreatePaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid payment input")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid order_id format"))
			return
		}

		payment, err := h.paymentService.CreatePayment(r.Context(), userID, orderID)
		if err != nil {
			logger.Error("Failed to create payment", slog.String("orderId", req.OrderID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Payment intent created", slog.String("paymentId", payment.ID.Hex()), slog.String("orderId", req.OrderID))
		response.Success(w, http.StatusCreated, payment)
	}
}

// GetPayment godoc
//	@Summary	Get a payment
//	@Tags		Payments
//	@Produce	json
//	@Param		id	path		string	true	"Payment ID"
//	@Success	200	{object}	models.Payment
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/payments/{id} [get]
func (h *PaymentHandler) GetPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, _, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		payment, err := h.paymentService.GetPayment(r.Context(), userID, id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, payment)
	}
}

// ListPayments godoc
//	@Summary	List my payments
//	@Tags		Payments
//	@Produce	json
//	@Param		page		query		int	false	"Page number (default: 1)"		minimum(1)
//	@Param		pageSize	query		int	false	"Items per page (default: 10)"	minimum(1)	maximum(100)
//	@Success	200			{object}	models.PaginatedResponse{Data=[]models.Payment}
//	@Security	BearerAuth
//	@Router		/payments [get]
func (h *PaymentHandler) ListPayments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		page, pageSize := utils.ParsePagination(r)

		payments, total, err := h.paymentService.ListPayments(r.Context(), userID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list payments", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     payments,
			Total:    int(total),
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// HandleStripeWebhook godoc
//	@Summary	Stripe webhook
//	@Tags		Payments
//	@Accept		json
//	@Produce	json
//	@Param		Stripe-Signature	header		string	true	"Stripe signature"
//	@Success	200					{object}	response.APIResponse
//	@Failure	400					{object}	response.ErrorResponse	"Bad signature or payload"
//	@Router		/payments/webhook [post]
func (h *PaymentHandler) HandleStripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			logger.Error("Error reading webhook body", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read request body"))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Missing Stripe signature")
			response.Error(w, errors.BadRequestError("Stripe Signature is required"))
			return
		}

		event, err := h.paymentService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Error("Failed to process payment webhook", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Payment webhook processed", slog.String("eventId", event.ID), slog.String("type", string(event.Type)))
		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}
