package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

var ErrNotConfigured = errors.New("telegram bot is not configured")

type Client interface {
	SendMessage(ctx context.Context, text string) error
	Enabled() bool
}

type client struct {
	baseURL    string
	token      string
	chatID     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

func NewClient(baseURL, token, chatID string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		chatID:     chatID,
		httpClient: httpClient,
		breaker:    circuitbreaker.New[struct{}]("telegram", circuitbreaker.Options{}),
	}
}

func (c *client) Enabled() bool {
	return c.token != "" && c.chatID != ""
}

// SendMessage posts text to the configured chat.
func (c *client) SendMessage(ctx context.Context, text string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.sendMessage(ctx, text)
	})

	return err
}

func (c *client) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: c.chatID, Text: text, DisableWebPagePreview: true})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call telegram: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode telegram response (status %d): %w", resp.StatusCode, err)
	}

	if !result.OK {
		return fmt.Errorf("telegram rejected message: %d %s", result.ErrorCode, result.Description)
	}

	return nil
}

// ShareURL builds a t.me share link carrying link and text.
func ShareURL(link, text string) string {
	q := url.Values{}
	q.Set("url", link)
	q.Set("text", text)

	return "https://t.me/share/url?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}
