package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/handlers"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/services/mocks"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendOTP(t *testing.T) {
	mockAuthService := new(mocks.AuthService)
	authHandler := handlers.NewAuthHandler(mockAuthService)

	t.Run("Success - Code Sent", func(t *testing.T) {
		// Arrange
		mockAuthService.On("SendOTP", mock.Anything, "9876543210", "203.0.113.7").
			Return(&models.SendOTPResponse{ExpiresIn: 300, ResendsLeft: 2}, nil).Once()

		proxies, err := middleware.ParseTrustedProxies([]string{"192.0.2.1", "10.0.0.0/8"})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/otp/send", strings.NewReader(`{"phone":"9876543210"}`), nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rr := httptest.NewRecorder()

		// Act
		proxies.Middleware(authHandler.SendOTP()).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var resp models.SendOTPResponse
		decodeData(t, rr, &resp)
		assert.Equal(t, 300, resp.ExpiresIn)
		assert.Equal(t, 2, resp.ResendsLeft)
		mockAuthService.AssertExpectations(t)
	})

	t.Run("Success - Forwarded header from untrusted peer is ignored", func(t *testing.T) {
		// Arrange
		mockAuthService.On("SendOTP", mock.Anything, "9876543210", "192.0.2.1").
			Return(&models.SendOTPResponse{ExpiresIn: 300, ResendsLeft: 1}, nil).Once()

		proxies, err := middleware.ParseTrustedProxies(nil)
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/otp/send", strings.NewReader(`{"phone":"9876543210"}`), nil)
		req.Header.Set("X-Forwarded-For", "10.9.9.1")
		rr := httptest.NewRecorder()

		// Act
		proxies.Middleware(authHandler.SendOTP()).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockAuthService.AssertExpectations(t)
	})

	t.Run("Failure - Device Blocked", func(t *testing.T) {
		// Arrange
		blocked := appErrors.DeviceBlockedError("Too many OTP requests from this device").WithRetryAfter(12600)
		mockAuthService.On("SendOTP", mock.Anything, "9876543210", "192.0.2.1").Return(nil, blocked).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/otp/send", strings.NewReader(`{"phone":"9876543210"}`), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.SendOTP().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "12600", rr.Header().Get("Retry-After"))
		env := decodeEnvelope(t, rr)
		assert.Equal(t, appErrors.ErrCodeDeviceBlocked, env.Error.Code)
		mockAuthService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Phone", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/otp/send", strings.NewReader(`{"phone":"12345"}`), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.SendOTP().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockAuthService.AssertNotCalled(t, "SendOTP", mock.Anything, "12345", mock.Anything)
	})
}

func TestVerifyOTP(t *testing.T) {
	mockAuthService := new(mocks.AuthService)
	authHandler := handlers.NewAuthHandler(mockAuthService)

	t.Run("Success - Token Issued", func(t *testing.T) {
		// Arrange
		mockAuthService.On("VerifyOTP", mock.Anything, "9876543210", "123456", "192.0.2.1").
			Return(&models.AuthResponse{Token: "jwt-token", ExpiresIn: 86400}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/otp/verify", strings.NewReader(`{"phone":"9876543210","code":"123456"}`), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.VerifyOTP().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var resp models.AuthResponse
		decodeData(t, rr, &resp)
		assert.Equal(t, "jwt-token", resp.Token)
		mockAuthService.AssertExpectations(t)
	})

	t.Run("Failure - Wrong Code", func(t *testing.T) {
		// Arrange
		mockAuthService.On("VerifyOTP", mock.Anything, "9876543210", "000000", "192.0.2.1").
			Return(nil, appErrors.UnauthorizedError("Incorrect code")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/otp/verify", strings.NewReader(`{"phone":"9876543210","code":"000000"}`), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.VerifyOTP().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockAuthService.AssertExpectations(t)
	})

	t.Run("Failure - Code Not Six Digits", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/otp/verify", strings.NewReader(`{"phone":"9876543210","code":"12ab"}`), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.VerifyOTP().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetProfile(t *testing.T) {
	mockAuthService := new(mocks.AuthService)
	authHandler := handlers.NewAuthHandler(mockAuthService)
	userID := primitive.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockAuthService.On("GetProfile", mock.Anything, userID).
			Return(&models.User{ID: userID, Phone: "9876543210", Name: "Anu"}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/users/me", nil, userID.Hex(), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.GetProfile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var user models.User
		decodeData(t, rr, &user)
		assert.Equal(t, "Anu", user.Name)
		mockAuthService.AssertExpectations(t)
	})

	t.Run("Failure - No Claims", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/users/me", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.GetProfile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Failure - Admin Token On Customer Route", func(t *testing.T) {
		// Arrange
		req := testutils.CreateAdminTestRequest(http.MethodGet, "/api/v1/users/me", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.GetProfile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLogout(t *testing.T) {
	mockAuthService := new(mocks.AuthService)
	authHandler := handlers.NewAuthHandler(mockAuthService)
	userID := primitive.NewObjectID()

	// Arrange
	mockAuthService.On("Logout", mock.Anything, userID).Return(nil).Once()
	req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/auth/logout", nil, userID.Hex(), nil)
	rr := httptest.NewRecorder()

	// Act
	authHandler.Logout().ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	mockAuthService.AssertExpectations(t)
}
