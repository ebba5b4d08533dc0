package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: utils.NewValidator()}
}

// PlaceOrder godoc
//	@Summary		Place an order
//	@Description	Turns the session cart into an order. Online orders carry a Stripe client secret.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string						true	"Cart session"
//	@Param			order			body		models.PlaceOrderRequest	true	"Address, payment method and optional offer"
//	@Success		201				{object}	models.Order				"Order placed"
//	@Failure		400				{object}	response.ErrorResponse		"Validation error or empty cart"
//	@Failure		401				{object}	response.ErrorResponse		"Authentication required"
//	@Failure		409				{object}	response.ErrorResponse		"Out of stock"
//	@Failure		500				{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req models.PlaceOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid place order input")
			return
		}

		order, err := h.orderService.PlaceOrder(r.Context(), userID, session, &req)
		if err != nil {
			logger.Warn("Failed to place order", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed", slog.String("orderId", order.ID.Hex()))
		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder godoc
//	@Summary	Get one of my orders
//	@Tags		Orders
//	@Produce	json
//	@Param		id	path		string					true	"Order ID"
//	@Success	200	{object}	models.Order
//	@Failure	400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure	404	{object}	response.ErrorResponse	"Order not found"
//	@Security	BearerAuth
//	@Router		/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), userID, id)
		if err != nil {
			logger.Warn("Failed to get order", slog.String("orderId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary	List my orders
//	@Tags		Orders
//	@Produce	json
//	@Param		page		query		int	false	"Page number (default: 1)"							minimum(1)
//	@Param		pageSize	query		int	false	"Number of items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success	200			{object}	models.PaginatedResponse{Data=[]models.Order}
//	@Failure	401			{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		page, pageSize := utils.ParsePagination(r)

		orders, total, err := h.orderService.ListOrders(r.Context(), userID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    int(total),
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// CancelOrder godoc
//	@Summary		Cancel a pending order
//	@Description	Only orders the shop has not confirmed can be cancelled. Reserved stock is returned.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	models.Order
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		409	{object}	response.ErrorResponse	"Order is no longer pending"
//	@Security		BearerAuth
//	@Router			/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		order, err := h.orderService.CancelOrder(r.Context(), userID, id)
		if err != nil {
			logger.Warn("Failed to cancel order", slog.String("orderId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order cancelled by customer", slog.String("orderId", id.Hex()))
		response.Success(w, http.StatusOK, order)
	}
}

// ShareOrder godoc
//	@Summary		Share an order on WhatsApp or Telegram
//	@Description	Redirects to a deep link carrying the order summary.
//	@Tags			Orders
//	@Param			id			path	string	true	"Order ID"
//	@Param			provider	path	string	true	"whatsapp or telegram"
//	@Success		302
//	@Failure		400	{object}	response.ErrorResponse	"Unknown provider"
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/orders/{id}/share/{provider} [get]
func (h *OrderHandler) ShareOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		link, err := h.orderService.ShareURL(r.Context(), userID, id, r.PathValue("provider"))
		if err != nil {
			logger.Warn("Failed to build share link", slog.String("orderId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		http.Redirect(w, r, link, http.StatusFound)
	}
}

// ListAllOrders godoc
//	@Summary	List all orders
//	@Tags		Admin
//	@Produce	json
//	@Param		status		query		string	false	"Filter by status"
//	@Param		page		query		int		false	"Page number (default: 1)"		minimum(1)
//	@Param		pageSize	query		int		false	"Items per page (default: 10)"	minimum(1)	maximum(100)
//	@Success	200			{object}	models.PaginatedResponse{Data=[]models.Order}
//	@Failure	403			{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/orders [get]
func (h *OrderHandler) ListAllOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		page, pageSize := utils.ParsePagination(r)

		var status *models.OrderStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			s := models.OrderStatus(raw)
			if !s.Valid() {
				response.Error(w, errors.BadRequestError("Unknown order status"))
				return
			}
			status = &s
		}

		orders, total, err := h.orderService.ListAllOrders(r.Context(), status, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    int(total),
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// UpdateOrderStatus godoc
//	@Summary	Move an order through its lifecycle
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Order ID"
//	@Param		status	body		models.UpdateOrderStatusRequest	true	"New order status"
//	@Success	200		{object}	models.Order
//	@Failure	400		{object}	response.ErrorResponse	"Invalid status value"
//	@Failure	404		{object}	response.ErrorResponse	"Order not found"
//	@Failure	409		{object}	response.ErrorResponse	"Order already delivered or cancelled"
//	@Security	BearerAuth
//	@Router		/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		logger = logger.With(slog.String("orderId", id.Hex()))

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update order status input")
			return
		}

		order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Error("Failed to update order status", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, order)
	}
}
