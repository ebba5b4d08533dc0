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

type AddressHandler struct {
	addressService service.AddressService
	validator      *validator.Validate
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService, validator: utils.NewValidator()}
}

// CreateAddress godoc
//	@Summary		Add a delivery address
//	@Description	The pincode is verified against the postal lookup and must be in the delivery area.
//	@Tags			Addresses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.CreateAddressRequest	true	"Address"
//	@Success		201		{object}	models.Address
//	@Failure		400		{object}	response.ErrorResponse	"Validation error or pincode not served"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/addresses [post]
func (h *AddressHandler) CreateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.CreateAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid address input")
			return
		}

		address, err := h.addressService.CreateAddress(r.Context(), userID, &req)
		if err != nil {
			logger.Warn("Failed to create address", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Address created", slog.String("addressId", address.ID.Hex()))
		response.Success(w, http.StatusCreated, address)
	}
}

// ListAddresses godoc
//	@Summary	List my addresses
//	@Tags		Addresses
//	@Produce	json
//	@Success	200	{array}		models.Address
//	@Failure	401	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/addresses [get]
func (h *AddressHandler) ListAddresses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		addresses, err := h.addressService.ListAddresses(r.Context(), userID)
		if err != nil {
			logger.Error("Failed to list addresses", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, addresses)
	}
}

// GetAddress godoc
//	@Summary	Get one address
//	@Tags		Addresses
//	@Produce	json
//	@Param		id	path		string	true	"Address ID"
//	@Success	200	{object}	models.Address
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/addresses/{id} [get]
func (h *AddressHandler) GetAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, _, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		address, err := h.addressService.GetAddress(r.Context(), userID, id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, address)
	}
}

// UpdateAddress godoc
//	@Summary	Update an address
//	@Tags		Addresses
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Address ID"
//	@Param		request	body		models.UpdateAddressRequest	true	"Fields to change"
//	@Success	200		{object}	models.Address
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	404		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/addresses/{id} [patch]
func (h *AddressHandler) UpdateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		var req models.UpdateAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid address update input")
			return
		}

		address, err := h.addressService.UpdateAddress(r.Context(), userID, id, &req)
		if err != nil {
			logger.Warn("Failed to update address", slog.String("addressId", id.Hex()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, address)
	}
}

// DeleteAddress godoc
//	@Summary	Delete an address
//	@Tags		Addresses
//	@Param		id	path	string	true	"Address ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/addresses/{id} [delete]
func (h *AddressHandler) DeleteAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, _, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		if err := h.addressService.DeleteAddress(r.Context(), userID, id); err != nil {
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SetDefault godoc
//	@Summary	Make an address the default
//	@Tags		Addresses
//	@Produce	json
//	@Param		id	path		string	true	"Address ID"
//	@Success	200	{object}	response.APIResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/addresses/{id}/default [post]
func (h *AddressHandler) SetDefault() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		if err := h.addressService.SetDefault(r.Context(), userID, id); err != nil {
			response.Error(w, err)
			return
		}

		logger.Info("Default address changed", slog.String("addressId", id.Hex()))
		response.Success(w, http.StatusOK, map[string]string{"default_address_id": id.Hex()})
	}
}

// VerifyPincode godoc
//	@Summary	Look up a pincode
//	@Tags		Addresses
//	@Produce	json
//	@Param		pincode	path		string	true	"6-digit pincode"
//	@Success	200		{object}	models.PincodeInfo
//	@Failure	400		{object}	response.ErrorResponse	"Invalid or unserviceable pincode"
//	@Router		/pincodes/{pincode} [get]
func (h *AddressHandler) VerifyPincode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		pin := r.PathValue("pincode")
		if !utils.IsValidPincode(pin) {
			response.Error(w, errors.ValidationError("Invalid pincode"))
			return
		}

		info, err := h.addressService.VerifyPincode(r.Context(), pin)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Pincode lookup failed", slog.String("pincode", pin), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, info)
	}
}
