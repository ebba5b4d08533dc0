// Package sms delivers one-time codes through an HTTP SMS gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

type gatewayRequest struct {
	To      string `json:"to"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type httpSender struct {
	gatewayURL string
	apiKey     string
	senderID   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
}

// NewHTTPSender posts messages as JSON to gatewayURL with a bearer API key.
func NewHTTPSender(gatewayURL, apiKey, senderID string, timeout time.Duration) Sender {
	return &httpSender{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		senderID:   senderID,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.New[struct{}]("sms-gateway", circuitbreaker.Options{}),
	}
}

func (s *httpSender) Send(ctx context.Context, phone, message string) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.post(ctx, phone, message)
	})

	return err
}

func (s *httpSender) post(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(gatewayRequest{To: phone, Sender: s.senderID, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	return nil
}

type logSender struct {
	logger *slog.Logger
}

// NewLogSender writes messages to the log instead of sending them. Used when no gateway is configured.
func NewLogSender(logger *slog.Logger) Sender {
	return &logSender{logger: logger}
}

func (l *logSender) Send(ctx context.Context, phone, message string) error {
	l.logger.InfoContext(ctx, "SMS gateway not configured, message logged", slog.String("phone", phone), slog.String("message", message))
	return nil
}
