package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHeader carries the anonymous cart session chosen by the client.
const SessionHeader = "X-Session-ID"

const maxSessionIDLength = 128

// currentUser resolves the authenticated customer's id and writes a 401 when it is missing.
func currentUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, *slog.Logger, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
	if !ok {
		logger.Warn("Missing user claims")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return primitive.NilObjectID, logger, false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logger.Warn("Token subject is not a user id", slog.String("userId", claims.UserID))
		response.Error(w, errors.UnauthorizedError("Invalid token"))
		return primitive.NilObjectID, logger, false
	}

	return userID, logger.With(slog.String("userId", claims.UserID)), true
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {

	id := strings.TrimSpace(r.Header.Get(SessionHeader))

	if id == "" || len(id) > maxSessionIDLength {
		middleware.LoggerFromContext(r.Context()).Warn("Missing or invalid cart session header")
		response.Error(w, errors.BadRequestError(SessionHeader+" header is required"))
		return "", false
	}

	return id, true
}

func parseID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {

	id, err := utils.ParseID(r, name)
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Warn("Invalid path id", slog.String("param", name), slog.String("error", err.Error()))
		response.Error(w, err)
		return primitive.NilObjectID, false
	}

	return id, true
}
