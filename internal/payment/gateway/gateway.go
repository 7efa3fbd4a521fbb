// Package gateway implements the hosted-checkout client for the external
// payment gateway. The gateway owns the checkout page and notifies us of the
// result via a form-encoded postback keyed by order id.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/opencourse/aktiva/internal/config"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
)

// CheckoutRequest is the session request handed to the gateway.
type CheckoutRequest struct {
	OrderID     string
	Amount      int64
	Currency    string
	Description string
	PostBackURL string
	ReturnURL   string
	CancelURL   string
}

// CheckoutSession is the gateway's accepted session.
type CheckoutSession struct {
	RedirectURL string `json:"redirect_url"`
}

// Client creates hosted checkout sessions.
type Client interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

type httpClient struct {
	baseURL     string
	merchantKey string
	client      *http.Client
}

// NewClient builds the HTTP gateway client from configuration.
func NewClient(cfg config.Config) Client {
	return &httpClient{
		baseURL:     cfg.Gateway.BaseURL,
		merchantKey: cfg.Gateway.MerchantKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.Gateway.Timeout) * time.Second,
		},
	}
}

func (c *httpClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: gateway base url not configured", paymentdomain.ErrGatewayRejected)
	}

	form := url.Values{}
	form.Set("merchant_key", c.merchantKey)
	form.Set("order_id", req.OrderID)
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", req.Currency)
	form.Set("description", req.Description)
	form.Set("post_back_url", req.PostBackURL)
	form.Set("return_url", req.ReturnURL)
	form.Set("cancel_url", req.CancelURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentdomain.ErrGatewayRejected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentdomain.ErrGatewayRejected, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", paymentdomain.ErrGatewayRejected, resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("%w: malformed session response", paymentdomain.ErrGatewayRejected)
	}
	if strings.TrimSpace(session.RedirectURL) == "" {
		return nil, fmt.Errorf("%w: session missing redirect url", paymentdomain.ErrGatewayRejected)
	}
	return &session, nil
}
