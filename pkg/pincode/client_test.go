package pincode_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/pkg/pincode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Lookup(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`[{"Message":"Number of pincode(s) found:2","Status":"Success","PostOffice":[
				{"Name":"Salt Lake","District":"North 24 Parganas","State":"West Bengal"},
				{"Name":"Bidhannagar","District":"North 24 Parganas","State":"West Bengal"}]}]`))
		}))
		defer server.Close()

		c := pincode.NewClient(server.URL+"/", time.Second)

		// Act
		info, err := c.Lookup(ctx, "700091")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "/pincode/700091", gotPath)
		assert.Equal(t, "700091", info.Pincode)
		assert.Equal(t, "North 24 Parganas", info.District)
		assert.Equal(t, "West Bengal", info.State)
		assert.Equal(t, []string{"Salt Lake", "Bidhannagar"}, info.PostOffices)
	})

	t.Run("Failure - Unknown pincode", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"Message":"No records found","Status":"Error","PostOffice":null}]`))
		}))
		defer server.Close()

		c := pincode.NewClient(server.URL, time.Second)

		// Act
		info, err := c.Lookup(ctx, "999999")

		// Assert
		assert.ErrorIs(t, err, pincode.ErrUnknownPincode)
		assert.Nil(t, info)
	})

	t.Run("Failure - Upstream error", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := pincode.NewClient(server.URL, time.Second)

		// Act
		_, err := c.Lookup(ctx, "700091")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
	})
}
