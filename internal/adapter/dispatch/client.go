package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
)

// Client talks to the dispatch service REST API.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

func New(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// AcceptOrder claims the offered order. When another courier already
// won it the dispatch service answers 409 and the call returns
// types.ErrOfferConflict.
func (c *Client) AcceptOrder(ctx context.Context, offerID uuid.UUID) (*models.ActiveOrder, error) {
	const op = "dispatch.AcceptOrder"

	url := fmt.Sprintf("%s/v1/orders/%s/accept", c.baseURL, offerID)

	resp, err := c.do(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict, http.StatusGone:
		return nil, wrap.Error(ctx, types.ErrOfferConflict)
	default:
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var order models.ActiveOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: failed to decode accept response: %w", op, err))
	}

	return &order, nil
}

// RejectOrder declines the offered order. Best-effort on the caller side.
func (c *Client) RejectOrder(ctx context.Context, offerID uuid.UUID) error {
	const op = "dispatch.RejectOrder"

	url := fmt.Sprintf("%s/v1/orders/%s/reject", c.baseURL, offerID)

	resp, err := c.do(ctx, http.MethodPost, url, nil)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	return nil
}

// AdvanceStatus reports the stage transition edge for the order.
func (c *Client) AdvanceStatus(ctx context.Context, orderID uuid.UUID, target types.Stage) error {
	const op = "dispatch.AdvanceStatus"

	url := fmt.Sprintf("%s/v1/orders/%s/status", c.baseURL, orderID)

	body, err := json.Marshal(map[string]string{"stage": target.String()})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return wrap.Error(ctx, fmt.Errorf("%s: %w: status %d", op, types.ErrStatusAdvance, resp.StatusCode))
	}

	return nil
}

// ActiveOrders fetches the courier's in-flight orders for
// reconciliation on start or resume.
func (c *Client) ActiveOrders(ctx context.Context) ([]models.ActiveOrder, error) {
	const op = "dispatch.ActiveOrders"

	url := fmt.Sprintf("%s/v1/couriers/me/orders?active=true", c.baseURL)

	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload struct {
		Orders []models.ActiveOrder `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: failed to decode orders: %w", op, err))
	}

	return payload.Orders, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}
