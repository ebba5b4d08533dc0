package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type OfferHandler struct {
	offerService service.OfferService
	validator    *validator.Validate
}

func NewOfferHandler(offerService service.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService, validator: utils.NewValidator()}
}

// CreateOffer godoc
//	@Summary	Create an offer code
//	@Tags		Offers
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.CreateOfferRequest	true	"Offer"
//	@Success	201		{object}	models.Offer
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	409		{object}	response.ErrorResponse	"Code already exists"
//	@Security	BearerAuth
//	@Router		/admin/offers [post]
func (h *OfferHandler) CreateOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateOfferRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid offer input")
			return
		}

		offer, err := h.offerService.CreateOffer(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to create offer", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Offer created", slog.String("code", offer.Code))
		response.Success(w, http.StatusCreated, offer)
	}
}

// ListOffers godoc
//	@Summary		List offers
//	@Description	The public route lists running offers only. The admin route lists all of them.
//	@Tags			Offers
//	@Produce		json
//	@Success		200	{array}		models.Offer
//	@Router			/offers [get]
func (h *OfferHandler) ListOffers(activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		offers, err := h.offerService.ListOffers(r.Context(), activeOnly)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list offers", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, offers)
	}
}

// Deactivate godoc
//	@Summary	Switch an offer off
//	@Tags		Offers
//	@Param		id	path	string	true	"Offer ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/admin/offers/{id}/deactivate [post]
func (h *OfferHandler) Deactivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		if err := h.offerService.Deactivate(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Offer deactivated", slog.String("offerId", id.Hex()))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ApplyOffer godoc
//	@Summary	Preview a discount
//	@Tags		Offers
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.ApplyOfferRequest	true	"Code and cart subtotal"
//	@Success	200		{object}	models.ApplyOfferResponse
//	@Failure	400		{object}	response.ErrorResponse	"Expired, inactive or below minimum"
//	@Failure	404		{object}	response.ErrorResponse	"Unknown code"
//	@Router		/offers/apply [post]
func (h *OfferHandler) ApplyOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.ApplyOfferRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		subtotal := decimal.NewFromFloat(req.Subtotal)

		offer, discount, err := h.offerService.Apply(r.Context(), req.Code, subtotal)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.ApplyOfferResponse{
			Code:     offer.Code,
			Discount: discount.InexactFloat64(),
			Total:    subtotal.Sub(discount).Round(2).InexactFloat64(),
		})
	}
}
