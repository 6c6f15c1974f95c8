// Package ledger talks to the external credit service. The orchestrator only
// sees the Gateway interface so tests run against a fake without network
// access.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"faceswap-api/config"
)

var (
	// ErrUnavailable covers network, timeout and auth failures reaching the
	// ledger.
	ErrUnavailable = errors.New("ledger unavailable")
	// ErrProtocol covers responses the ledger returned but this client cannot
	// interpret.
	ErrProtocol = errors.New("ledger protocol error")
)

type Gateway interface {
	GetBalance(ctx context.Context, userId string) (int64, error)
	Debit(ctx context.Context, userId string, amount int64, resourceType, resourceId string) error
}

type client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func NewClient(cfg config.Ledger) Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		http:       &http.Client{Timeout: timeout},
	}
}

type balanceResponse struct {
	Data struct {
		Balance *int64 `json:"balance"`
	} `json:"data"`
}

type debitRequest struct {
	Type         string `json:"type"`
	UserId       string `json:"userId"`
	Amount       int64  `json:"amount"`
	ResourceType string `json:"resourceType"`
	ResourceId   string `json:"resourceId"`
}

func (c *client) GetBalance(ctx context.Context, userId string) (int64, error) {
	endpoint := fmt.Sprintf("%s/service/users/credit-balance?%s", c.baseURL, url.Values{"userId": {userId}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, errors.Join(ErrUnavailable, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: credit-balance returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, errors.Join(ErrProtocol, err)
	}
	if body.Data.Balance == nil {
		return 0, fmt.Errorf("%w: credit-balance response missing data.balance", ErrProtocol)
	}

	return *body.Data.Balance, nil
}

func (c *client) Debit(ctx context.Context, userId string, amount int64, resourceType, resourceId string) error {
	if amount < 0 {
		amount = -amount
	}
	payload, err := json.Marshal(debitRequest{
		Type:         "USAGE",
		UserId:       userId,
		Amount:       -amount, // the ledger records debits as negative amounts
		ResourceType: resourceType,
		ResourceId:   resourceId,
	})
	if err != nil {
		return errors.Join(ErrProtocol, err)
	}

	endpoint := fmt.Sprintf("%s/service/users/credits-debits", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: credits-debits returned status %d", ErrUnavailable, resp.StatusCode)
	}

	return nil
}

func (c *client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "internal-credit-client/1.0")
	req.Header.Set("x-internal-key", strings.TrimSpace(c.serviceKey))
}
