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

type NotificationHandler struct {
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validator: utils.NewValidator()}
}

// SendEmail godoc
//	@Summary		Send an email
//	@Description	Sends a one-off email through SendGrid and records the attempt.
//	@Tags			Notifications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.EmailNotificationRequest	true	"Email"
//	@Success		201		{object}	models.Notification
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		502		{object}	response.ErrorResponse	"Email provider error"
//	@Security		BearerAuth
//	@Router			/admin/notifications/email [post]
func (h *NotificationHandler) SendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.EmailNotificationRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid email notification input")
			return
		}

		notification, err := h.notificationService.SendEmail(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to send email", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Email notification sent", slog.String("notificationId", notification.ID.Hex()))
		response.Success(w, http.StatusCreated, notification)
	}
}

// ListNotifications godoc
//	@Summary	List sent notifications
//	@Tags		Notifications
//	@Produce	json
//	@Param		page		query		int	false	"Page number (default: 1)"		minimum(1)
//	@Param		pageSize	query		int	false	"Items per page (default: 10)"	minimum(1)	maximum(100)
//	@Success	200			{object}	models.PaginatedResponse{Data=[]models.Notification}
//	@Security	BearerAuth
//	@Router		/admin/notifications [get]
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := utils.ParsePagination(r)

		notifications, total, err := h.notificationService.ListNotifications(r.Context(), page, pageSize)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list notifications", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     notifications,
			Total:    int(total),
			Page:     page,
			PageSize: pageSize,
		})
	}
}
