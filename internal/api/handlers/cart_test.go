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
	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSession = "sess-7f3a"

func cartRequest(method, target, body string, pathParams map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = testutils.CreateTestRequestWithoutContext(method, target, nil, pathParams)
	} else {
		req = testutils.CreateTestRequestWithoutContext(method, target, strings.NewReader(body), pathParams)
	}
	req.Header.Set(handlers.SessionHeader, testSession)
	return req
}

func TestGetCart(t *testing.T) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		cart := &models.Cart{
			SessionID: testSession,
			Lines:     []*models.CartLine{{ProductID: primitive.NewObjectID(), TotalWeight: 0.75, Unit: units.Kilogram}},
			Count:     1,
		}
		mockCartService.On("GetCart", mock.Anything, testSession).Return(cart, nil).Once()
		rr := httptest.NewRecorder()

		// Act
		cartHandler.GetCart().ServeHTTP(rr, cartRequest(http.MethodGet, "/api/v1/cart", "", nil))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.Cart
		decodeData(t, rr, &got)
		assert.Equal(t, 1, got.Count)
		assert.Equal(t, 0.75, got.Lines[0].TotalWeight)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Missing Session Header", func(t *testing.T) {
		// Arrange
		freshService := new(mocks.CartService)
		freshHandler := handlers.NewCartHandler(freshService)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		freshHandler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		freshService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestAddToCart(t *testing.T) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)
	productID := primitive.NewObjectID()

	t.Run("Success - Line Seeded", func(t *testing.T) {
		// Arrange
		line := &models.CartLine{ProductID: productID, SessionID: testSession, TotalWeight: 500, Unit: units.Gram}
		mockCartService.On("AddToCart", mock.Anything, testSession, productID).
			Return(&models.CartMutation{Line: line}, nil).Once()
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddToCart().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+productID.Hex()+`"}`, nil))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.CartMutation
		decodeData(t, rr, &got)
		assert.Equal(t, 500.0, got.Line.TotalWeight)
		assert.Equal(t, units.Gram, got.Line.Unit)
		assert.False(t, got.Removed)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Out Of Stock", func(t *testing.T) {
		// Arrange
		mockCartService.On("AddToCart", mock.Anything, testSession, productID).
			Return(nil, appErrors.OutOfStockError("Only 0.2 kg left in stock")).Once()
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddToCart().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+productID.Hex()+`"}`, nil))

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
		env := decodeEnvelope(t, rr)
		assert.Equal(t, appErrors.ErrCodeOutOfStock, env.Error.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Malformed Product ID", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddToCart().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"seer-fish"}`, nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCartSteps(t *testing.T) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)
	productID := primitive.NewObjectID()
	params := map[string]string{"productId": productID.Hex()}

	t.Run("Increment", func(t *testing.T) {
		// Arrange
		line := &models.CartLine{ProductID: productID, TotalWeight: 1.25, Unit: units.Kilogram}
		mockCartService.On("Increment", mock.Anything, testSession, productID).
			Return(&models.CartMutation{Line: line}, nil).Once()
		rr := httptest.NewRecorder()

		// Act
		cartHandler.Increment().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items/x/increment", "", params))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.CartMutation
		decodeData(t, rr, &got)
		assert.Equal(t, 1.25, got.Line.TotalWeight)
	})

	t.Run("Decrement Below Minimum Removes Line", func(t *testing.T) {
		// Arrange
		mockCartService.On("Decrement", mock.Anything, testSession, productID).
			Return(&models.CartMutation{Removed: true, Message: "Item removed from cart"}, nil).Once()
		rr := httptest.NewRecorder()

		// Act
		cartHandler.Decrement().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items/x/decrement", "", params))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.CartMutation
		decodeData(t, rr, &got)
		assert.True(t, got.Removed)
		assert.Nil(t, got.Line)
	})

	t.Run("Increment Missing Line", func(t *testing.T) {
		// Arrange
		mockCartService.On("Increment", mock.Anything, testSession, productID).
			Return(nil, appErrors.NotFoundError("Item not in cart")).Once()
		rr := httptest.NewRecorder()

		// Act
		cartHandler.Increment().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items/x/increment", "", params))

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Invalid Product Path", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()

		// Act
		cartHandler.Increment().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items/x/increment", "", map[string]string{"productId": "nope"}))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	mockCartService.AssertExpectations(t)
}

func TestAddSpecific(t *testing.T) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)
	productID := primitive.NewObjectID()
	params := map[string]string{"productId": productID.Hex()}

	t.Run("Success - Capped At Stock", func(t *testing.T) {
		// Arrange
		want := mock.MatchedBy(func(q units.Quantity) bool {
			return q.Unit == units.Gram && q.Amount.Equal(decimal.NewFromInt(250))
		})
		line := &models.CartLine{ProductID: productID, TotalWeight: 1.2, Unit: units.Kilogram}
		mockCartService.On("AddSpecific", mock.Anything, testSession, productID, want).
			Return(&models.CartMutation{Line: line, Capped: true}, nil).Once()
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddSpecific().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items/x/add", `{"amount":250,"unit":"g"}`, params))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.CartMutation
		decodeData(t, rr, &got)
		assert.True(t, got.Capped)
		assert.Equal(t, 1.2, got.Line.TotalWeight)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Incompatible Units", func(t *testing.T) {
		// Arrange
		mockCartService.On("AddSpecific", mock.Anything, testSession, productID, mock.AnythingOfType("units.Quantity")).
			Return(nil, appErrors.IncompatibleUnitsError("Cannot mix pieces and weight")).Once()
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddSpecific().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items/x/add", `{"amount":2,"unit":"pcs"}`, params))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr)
		assert.Equal(t, appErrors.ErrCodeIncompatibleUnits, env.Error.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Unit", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddSpecific().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items/x/add", `{"amount":2,"unit":"bucket"}`, params))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr)
		assert.Equal(t, appErrors.ErrCodeValidation, env.Error.Code)
	})

	t.Run("Failure - Zero Amount", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()

		// Act
		cartHandler.RemoveSpecific().ServeHTTP(rr, cartRequest(http.MethodPost, "/api/v1/cart/items/x/remove", `{"amount":0,"unit":"kg"}`, params))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCartService.AssertNotCalled(t, "RemoveSpecific", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestClearCart(t *testing.T) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)

	// Arrange
	mockCartService.On("ClearCart", mock.Anything, testSession).Return(int64(3), nil).Once()
	rr := httptest.NewRecorder()

	// Act
	cartHandler.ClearCart().ServeHTTP(rr, cartRequest(http.MethodDelete, "/api/v1/cart", "", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	var got map[string]int64
	decodeData(t, rr, &got)
	assert.Equal(t, int64(3), got["deleted"])
	mockCartService.AssertExpectations(t)
}

func TestCountItems(t *testing.T) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)

	// Arrange
	mockCartService.On("CountLines", mock.Anything, testSession).Return(int64(2), nil).Once()
	rr := httptest.NewRecorder()

	// Act
	cartHandler.CountItems().ServeHTTP(rr, cartRequest(http.MethodGet, "/api/v1/cart/count", "", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.CartCountResponse
	decodeData(t, rr, &got)
	assert.Equal(t, int64(2), got.Count)
	mockCartService.AssertExpectations(t)
}
