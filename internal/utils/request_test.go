package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type otpPayload struct {
	Phone   string `json:"phone" validate:"required,phone_in"`
	Pincode string `json:"pincode" validate:"omitempty,pincode"`
}

func TestParseAndValidate(t *testing.T) {
	validate := utils.NewValidator()

	t.Run("Success - Valid payload", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"+919876543210","pincode":"682001"}`))
		rr := httptest.NewRecorder()
		var dest otpPayload

		// Act
		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		// Assert
		assert.True(t, ok)
		assert.Equal(t, "+919876543210", dest.Phone)
	})

	t.Run("Failure - Empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		rr := httptest.NewRecorder()
		var dest otpPayload

		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Custom tags reject bad values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"12345","pincode":"012345"}`))
		rr := httptest.NewRecorder()
		var dest otpPayload

		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})
}

func TestParseID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		id := primitive.NewObjectID()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetPathValue("id", id.Hex())

		parsed, err := utils.ParseID(req, "id")

		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("Failure - Not an ObjectID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetPathValue("id", "not-hex")

		_, err := utils.ParseID(req, "id")

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "?page=3&pageSize=25", 3, 25},
		{"out of range", "?page=0&pageSize=500", 1, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)

			page, pageSize := utils.ParsePagination(req)

			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantPageSize, pageSize)
		})
	}
}

func TestNormalizePhoneAndSanitize(t *testing.T) {
	assert.Equal(t, "9876543210", utils.NormalizePhone("+919876543210"))
	assert.Equal(t, "9876543210", utils.NormalizePhone("9876543210"))
	assert.Equal(t, "Fresh catch", utils.Sanitize(" <b>Fresh</b> catch<script>alert(1)</script> "))
}
