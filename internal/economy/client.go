// Package economy talks to an UnbelievaBoat-compatible balance API. Calls are
// single-shot; a failed call surfaces to the caller, never retried.
package economy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/inkgame/inkbot/internal/economy Client

const defaultBaseURL = "https://unbelievaboat.com/api/v1"

// Balance is a user's externally-held balance.
type Balance struct {
	Cash int64 `json:"cash"`
	Bank int64 `json:"bank"`
}

// Total returns the spendable balance across cash and bank.
func (b *Balance) Total() int64 {
	return b.Cash + b.Bank
}

// Client defines the external economy operations the bot uses.
type Client interface {
	// GetBalance fetches a user's cash and bank balance
	GetBalance(ctx context.Context, guildID, userID string) (*Balance, error)

	// AdjustBalance applies a signed cash delta to a user's balance
	AdjustBalance(ctx context.Context, guildID, userID string, delta int64) error
}

// Config holds configuration for the HTTP economy client
type Config struct {
	// Token is the API authorization token
	Token string

	// BaseURL overrides the API root; used in tests
	BaseURL string

	// HTTPClient overrides the default HTTP client
	HTTPClient *http.Client
}

type httpClient struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewHTTP creates an HTTP-backed economy client
func NewHTTP(cfg *Config) (*httpClient, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &httpClient{
		token:   cfg.Token,
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (c *httpClient) userURL(guildID, userID string) string {
	return fmt.Sprintf("%s/guilds/%s/users/%s", c.baseURL, guildID, userID)
}

// GetBalance fetches a user's cash and bank balance.
func (c *httpClient) GetBalance(ctx context.Context, guildID, userID string) (*Balance, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL(guildID, userID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build balance request: %w", err)
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("balance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("balance request returned %d: %s", resp.StatusCode, string(body))
	}

	var balance Balance
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return nil, fmt.Errorf("failed to decode balance: %w", err)
	}

	return &balance, nil
}

// AdjustBalance applies a signed cash delta to a user's balance. Debits are
// negative deltas against the same endpoint used for rewards.
func (c *httpClient) AdjustBalance(ctx context.Context, guildID, userID string, delta int64) error {
	payload, err := json.Marshal(map[string]int64{"cash": delta})
	if err != nil {
		return fmt.Errorf("failed to marshal adjustment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.userURL(guildID, userID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build adjustment request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("adjustment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("adjustment request returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
