package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: utils.NewValidator()}
}

// GetCart godoc
//	@Summary	Get the session cart
//	@Tags		Cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"Cart session"
//	@Success	200				{object}	models.Cart
//	@Failure	400				{object}	response.ErrorResponse	"Missing session header"
//	@Router		/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), session)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to fetch cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// CountItems godoc
//	@Summary	Number of lines in the cart
//	@Tags		Cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"Cart session"
//	@Success	200				{object}	models.CartCountResponse
//	@Router		/cart/count [get]
func (h *CartHandler) CountItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		count, err := h.cartService.CountLines(r.Context(), session)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.CartCountResponse{Count: count})
	}
}

// AddToCart godoc
//	@Summary		Add a product
//	@Description	First add seeds the line with the product's display weight. Later adds step by the base unit.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string					true	"Cart session"
//	@Param			request			body		models.AddToCartRequest	true	"Product"
//	@Success		200				{object}	models.CartMutation
//	@Failure		404				{object}	response.ErrorResponse	"Product not found"
//	@Failure		409				{object}	response.ErrorResponse	"Out of stock"
//	@Router			/cart/items [post]
func (h *CartHandler) AddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req models.AddToCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product_id format"))
			return
		}

		h.respond(w, r, "add", productID, func() (*models.CartMutation, error) {
			return h.cartService.AddToCart(r.Context(), session, productID)
		})
	}
}

// Increment godoc
//	@Summary	Add one base-unit step
//	@Tags		Cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"Cart session"
//	@Param		productId		path		string	true	"Product ID"
//	@Success	200				{object}	models.CartMutation
//	@Failure	404				{object}	response.ErrorResponse	"Item not in cart"
//	@Failure	409				{object}	response.ErrorResponse	"Out of stock"
//	@Router		/cart/items/{productId}/increment [post]
func (h *CartHandler) Increment() http.HandlerFunc {
	return h.step("increment", h.cartService.Increment)
}

// Decrement godoc
//	@Summary		Remove one base-unit step
//	@Description	The line is deleted when it would fall below the minimum order.
//	@Tags			Cart
//	@Produce		json
//	@Param			X-Session-ID	header		string	true	"Cart session"
//	@Param			productId		path		string	true	"Product ID"
//	@Success		200				{object}	models.CartMutation
//	@Failure		404				{object}	response.ErrorResponse	"Item not in cart"
//	@Router			/cart/items/{productId}/decrement [post]
func (h *CartHandler) Decrement() http.HandlerFunc {
	return h.step("decrement", h.cartService.Decrement)
}

// AddSpecific godoc
//	@Summary		Add an exact quantity
//	@Description	Exceeding stock caps the line at the available stock and sets capped=true.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string							true	"Cart session"
//	@Param			productId		path		string							true	"Product ID"
//	@Param			request			body		models.SpecificQuantityRequest	true	"Amount and unit (g, kg, piece)"
//	@Success		200				{object}	models.CartMutation
//	@Failure		400				{object}	response.ErrorResponse	"Incompatible units"
//	@Failure		409				{object}	response.ErrorResponse	"Below minimum order"
//	@Router			/cart/items/{productId}/add [post]
func (h *CartHandler) AddSpecific() http.HandlerFunc {
	return h.specific("add_specific", h.cartService.AddSpecific)
}

// RemoveSpecific godoc
//	@Summary	Remove an exact quantity
//	@Tags		Cart
//	@Accept		json
//	@Produce	json
//	@Param		X-Session-ID	header		string							true	"Cart session"
//	@Param		productId		path		string							true	"Product ID"
//	@Param		request			body		models.SpecificQuantityRequest	true	"Amount and unit (g, kg, piece)"
//	@Success	200				{object}	models.CartMutation
//	@Failure	400				{object}	response.ErrorResponse	"Incompatible units"
//	@Failure	404				{object}	response.ErrorResponse	"Item not in cart"
//	@Router		/cart/items/{productId}/remove [post]
func (h *CartHandler) RemoveSpecific() http.HandlerFunc {
	return h.specific("remove_specific", h.cartService.RemoveSpecific)
}

// RemoveLine godoc
//	@Summary	Remove a product from the cart
//	@Tags		Cart
//	@Param		X-Session-ID	header	string	true	"Cart session"
//	@Param		productId		path	string	true	"Product ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse	"Item not in cart"
//	@Router		/cart/items/{productId} [delete]
func (h *CartHandler) RemoveLine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		productID, ok := parseID(w, r, "productId")
		if !ok {
			return
		}

		if err := h.cartService.RemoveLine(r.Context(), session, productID); err != nil {
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearCart godoc
//	@Summary	Empty the cart
//	@Tags		Cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"Cart session"
//	@Success	200				{object}	response.APIResponse
//	@Router		/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		deleted, err := h.cartService.ClearCart(r.Context(), session)
		if err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Cart cleared", slog.Int64("lines", deleted))
		response.Success(w, http.StatusOK, map[string]int64{"deleted": deleted})
	}
}

func (h *CartHandler) step(op string, apply func(ctx context.Context, sessionID string, productID primitive.ObjectID) (*models.CartMutation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		productID, ok := parseID(w, r, "productId")
		if !ok {
			return
		}

		h.respond(w, r, op, productID, func() (*models.CartMutation, error) {
			return apply(r.Context(), session, productID)
		})
	}
}

func (h *CartHandler) specific(op string, apply func(ctx context.Context, sessionID string, productID primitive.ObjectID, qty units.Quantity) (*models.CartMutation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		productID, ok := parseID(w, r, "productId")
		if !ok {
			return
		}

		var req models.SpecificQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			middleware.LoggerFromContext(r.Context()).Warn("Invalid quantity input", slog.String("operation", op))
			return
		}

		unit, err := units.ParseUnit(req.Unit)
		if err != nil {
			response.Error(w, errors.ValidationError("Unknown unit").WithDetail("Use g, kg or piece"))
			return
		}

		h.respond(w, r, op, productID, func() (*models.CartMutation, error) {
			return apply(r.Context(), session, productID, units.New(req.Amount, unit))
		})
	}
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, op string, productID primitive.ObjectID, run func() (*models.CartMutation, error)) {

	logger := middleware.LoggerFromContext(r.Context()).With(slog.String("operation", op), slog.String("productId", productID.Hex()))

	result, err := run()
	if err != nil {
		logger.Warn("Cart operation failed", slog.String("error", err.Error()))
		response.Error(w, err)
		return
	}

	logger.Info("Cart updated", slog.Bool("removed", result.Removed), slog.Bool("capped", result.Capped))
	response.Success(w, http.StatusOK, result)
}
