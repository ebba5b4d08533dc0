package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/services/mocks"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVerifyPincode(t *testing.T) {
	mockAddressService := new(mocks.AddressService)
	addressHandler := handlers.NewAddressHandler(mockAddressService)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		info := &models.PincodeInfo{Pincode: "682001", District: "Ernakulam", State: "Kerala"}
		mockAddressService.On("VerifyPincode", mock.Anything, "682001").Return(info, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/pincodes/682001", nil, map[string]string{"pincode": "682001"})
		rr := httptest.NewRecorder()

		// Act
		addressHandler.VerifyPincode().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.PincodeInfo
		decodeData(t, rr, &got)
		assert.Equal(t, "Ernakulam", got.District)
		mockAddressService.AssertExpectations(t)
	})

	t.Run("Failure - Malformed", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/pincodes/012", nil, map[string]string{"pincode": "012"})
		rr := httptest.NewRecorder()

		// Act
		addressHandler.VerifyPincode().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockAddressService.AssertNotCalled(t, "VerifyPincode", mock.Anything, "012")
	})
}

func TestCreateAddress(t *testing.T) {
	mockAddressService := new(mocks.AddressService)
	addressHandler := handlers.NewAddressHandler(mockAddressService)
	userID := primitive.NewObjectID()
	body := `{"name":"Anu","phone":"9876543210","line1":"12 Marine Drive","city":"Kochi","state":"Kerala","pincode":"682001"}`

	t.Run("Success", func(t *testing.T) {
		// Arrange
		address := &models.Address{ID: primitive.NewObjectID(), UserID: userID, City: "Kochi", Pincode: "682001"}
		mockAddressService.On("CreateAddress", mock.Anything, userID, mock.AnythingOfType("*models.CreateAddressRequest")).Return(address, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/addresses", strings.NewReader(body), userID.Hex(), nil)
		rr := httptest.NewRecorder()

		// Act
		addressHandler.CreateAddress().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		mockAddressService.AssertExpectations(t)
	})

	t.Run("Failure - Pincode Not Served", func(t *testing.T) {
		// Arrange
		mockAddressService.On("CreateAddress", mock.Anything, userID, mock.AnythingOfType("*models.CreateAddressRequest")).
			Return(nil, appErrors.ValidationError("We do not deliver to this pincode yet")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/addresses", strings.NewReader(body), userID.Hex(), nil)
		rr := httptest.NewRecorder()

		// Act
		addressHandler.CreateAddress().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockAddressService.AssertExpectations(t)
	})
}
