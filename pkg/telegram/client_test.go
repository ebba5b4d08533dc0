package telegram_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aaravmahajanofficial/fishshop-backend/pkg/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendMessage(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		var gotPath string
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&got)
			_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
		}))
		defer server.Close()

		c := telegram.NewClient(server.URL, "123:abc", "-10042", server.Client())

		// Act
		err := c.SendMessage(ctx, "New order #1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
		assert.Equal(t, "-10042", got["chat_id"])
		assert.Equal(t, "New order #1", got["text"])
	})

	t.Run("Failure - API rejects", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
		}))
		defer server.Close()

		c := telegram.NewClient(server.URL, "123:abc", "bad", server.Client())

		// Act
		err := c.SendMessage(ctx, "hello")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat not found")
	})

	t.Run("Failure - Not configured", func(t *testing.T) {
		// Arrange
		c := telegram.NewClient("http://unused", "", "", nil)

		// Act
		err := c.SendMessage(ctx, "hello")

		// Assert
		assert.ErrorIs(t, err, telegram.ErrNotConfigured)
		assert.False(t, c.Enabled())
	})
}

func TestShareURL(t *testing.T) {
	// Act
	link := telegram.ShareURL("https://shop.example/orders/1", "Order total: ₹450 & more")

	// Assert
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "t.me", u.Host)
	assert.Equal(t, "/share/url", u.Path)
	assert.Equal(t, "https://shop.example/orders/1", u.Query().Get("url"))
	assert.Equal(t, "Order total: ₹450 & more", u.Query().Get("text"))
	assert.NotContains(t, link, "+")
}
