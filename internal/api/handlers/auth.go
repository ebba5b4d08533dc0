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
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, validator: utils.NewValidator()}
}

// SendOTP godoc
//	@Summary		Send a login code
//	@Description	Sends a 6-digit code by SMS. Three sends from one device block it for 3h30m.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.SendOTPRequest	true	"Phone number"
//	@Success		200		{object}	models.SendOTPResponse	"Code sent"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid phone number"
//	@Failure		429		{object}	response.ErrorResponse	"Device blocked, see Retry-After"
//	@Failure		500		{object}	response.ErrorResponse	"SMS gateway or database failure"
//	@Router			/auth/otp/send [post]
func (h *AuthHandler) SendOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.SendOTPRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid send OTP input")
			return
		}

		resp, err := h.authService.SendOTP(r.Context(), req.Phone, middleware.ClientIP(r))
		if err != nil {
			logger.Warn("Failed to send OTP", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

// VerifyOTP godoc
//	@Summary		Verify a login code
//	@Description	Exchanges a valid code for a session token. Creates the customer on first login.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.VerifyOTPRequest	true	"Phone number and code"
//	@Success		200		{object}	models.AuthResponse		"Logged in"
//	@Failure		400		{object}	response.ErrorResponse	"Code expired or attempts exhausted"
//	@Failure		401		{object}	response.ErrorResponse	"Wrong code"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.VerifyOTPRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid verify OTP input")
			return
		}

		resp, err := h.authService.VerifyOTP(r.Context(), req.Phone, req.Code, middleware.ClientIP(r))
		if err != nil {
			logger.Warn("OTP verification failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Customer logged in")
		response.Success(w, http.StatusOK, resp)
	}
}

// Logout godoc
//	@Summary		Log out
//	@Description	Rotates the session token so every issued token stops working.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	response.APIResponse	"Logged out"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := h.authService.Logout(r.Context(), userID); err != nil {
			logger.Error("Failed to log out", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Customer logged out")
		response.Success(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}

// GetProfile godoc
//	@Summary		Get the current customer
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.User				"Profile"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"User not found"
//	@Security		BearerAuth
//	@Router			/users/me [get]
func (h *AuthHandler) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		user, err := h.authService.GetProfile(r.Context(), userID)
		if err != nil {
			logger.Error("Failed to fetch profile", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

// UpdateProfile godoc
//	@Summary		Update name or email
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	models.User					"Updated profile"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Security		BearerAuth
//	@Router			/users/me [patch]
func (h *AuthHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.UpdateProfileRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid profile update input")
			return
		}

		user, err := h.authService.UpdateProfile(r.Context(), userID, &req)
		if err != nil {
			logger.Error("Failed to update profile", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Profile updated")
		response.Success(w, http.StatusOK, user)
	}
}
