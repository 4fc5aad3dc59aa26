package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/you/coursepay/internal/domain"
)

// Payment is the gateway's authoritative view of a payment.
type Payment struct {
	ID      string            `json:"id"`
	OrderID string            `json:"order_id"`
	Status  string            `json:"status"` // created|authorized|captured|failed
	Amount  int64             `json:"amount"` // minor units
	Notes   domain.EventNotes `json:"notes"`
}

const StatusCaptured = "captured"

// API is the read-only slice of the gateway this service consumes.
type API interface {
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

// Client talks to the gateway's REST API with BasicAuth (key id / key
// secret). Construct once at process start and inject.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	hc        *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		hc:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway get payment: %w", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway get payment failed: %s (%d)", string(body), res.StatusCode)
	}

	var p Payment
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parse payment json failed: %w", err)
	}
	return &p, nil
}
