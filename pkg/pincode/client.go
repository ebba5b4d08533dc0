// Package pincode looks up Indian postal codes.
package pincode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

var ErrUnknownPincode = errors.New("pincode not found")

type Client interface {
	Lookup(ctx context.Context, pin string) (*models.PincodeInfo, error)
}

type postOffice struct {
	Name     string `json:"Name"`
	District string `json:"District"`
	State    string `json:"State"`
}

type lookupResult struct {
	Message    string       `json:"Message"`
	Status     string       `json:"Status"`
	PostOffice []postOffice `json:"PostOffice"`
}

type client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*models.PincodeInfo]
}

func NewClient(baseURL string, timeout time.Duration) Client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.New[*models.PincodeInfo]("pincode", circuitbreaker.Options{}),
	}
}

func (c *client) Lookup(ctx context.Context, pin string) (*models.PincodeInfo, error) {
	info, err := c.breaker.Execute(func() (*models.PincodeInfo, error) {
		info, err := c.fetch(ctx, pin)
		// an unknown pincode must not count towards tripping the breaker
		if errors.Is(err, ErrUnknownPincode) {
			return nil, nil
		}
		return info, err
	})
	if err != nil {
		return nil, err
	}

	if info == nil {
		return nil, ErrUnknownPincode
	}

	return info, nil
}

func (c *client) fetch(ctx context.Context, pin string) (*models.PincodeInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pincode/"+pin, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pincode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call pincode api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pincode api returned status %d", resp.StatusCode)
	}

	var results []lookupResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode pincode response: %w", err)
	}

	if len(results) == 0 || !strings.EqualFold(results[0].Status, "Success") || len(results[0].PostOffice) == 0 {
		return nil, ErrUnknownPincode
	}

	offices := results[0].PostOffice
	info := &models.PincodeInfo{
		Pincode:  pin,
		District: offices[0].District,
		State:    offices[0].State,
	}
	for _, o := range offices {
		info.PostOffices = append(info.PostOffices, o.Name)
	}

	return info, nil
}
