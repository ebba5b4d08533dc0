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

type AdminHandler struct {
	adminService service.AdminService
	validator    *validator.Validate
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService, validator: utils.NewValidator()}
}

// Login godoc
//	@Summary		Admin login
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.AdminLoginRequest	true	"Credentials"
//	@Success		200		{object}	models.AuthResponse			"Admin token"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Wrong password"
//	@Failure		404		{object}	response.ErrorResponse		"Unknown admin"
//	@Router			/admin/login [post]
func (h *AdminHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AdminLoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid admin login input")
			return
		}

		logger = logger.With(slog.String("username", req.Username))

		resp, err := h.adminService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Admin login failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Admin logged in")
		response.Success(w, http.StatusOK, resp)
	}
}
