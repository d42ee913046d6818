package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RoomSageApp/RoomSage/internal/pkg/env"
)

// AmountFils is the fixed subscription price in fils (~14 USD).
const AmountFils = 5141

// Client talks to the hosted payment gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func NewClientFromEnv() *Client {
	return NewClient(env.GetEnv("PAYMENT_API_URL", "https://pay.techrealm.pk"))
}

// CreatePaymentRequest is the body for POST /create-payment.
type CreatePaymentRequest struct {
	Amount         int    `json:"amount"`
	RedirectionURL string `json:"redirection_url,omitempty"`
}

// CreatePaymentResponse tolerates the field-name drift the gateway has
// shown across revisions (payment_url vs payment_link, several names for
// the reference).
type CreatePaymentResponse struct {
	PaymentURL       string `json:"payment_url"`
	PaymentLink      string `json:"payment_link"`
	SpecialReference string `json:"special_reference"`
	Reference        string `json:"reference"`
	ID               string `json:"id"`
}

// URL returns whichever redirect link field the gateway populated.
func (r *CreatePaymentResponse) URL() string {
	if r.PaymentURL != "" {
		return r.PaymentURL
	}
	return r.PaymentLink
}

// Ref returns whichever reference field the gateway populated.
func (r *CreatePaymentResponse) Ref() string {
	switch {
	case r.SpecialReference != "":
		return r.SpecialReference
	case r.Reference != "":
		return r.Reference
	default:
		return r.ID
	}
}

// VerifyPaymentResponse is the body of GET /verify-payment/{id}.
type VerifyPaymentResponse struct {
	Status string `json:"status"`
}

// CreatePayment creates a checkout session and returns the redirect link.
func (c *Client) CreatePayment(ctx context.Context, amount int, redirectionURL string) (*CreatePaymentResponse, error) {
	body, err := json.Marshal(CreatePaymentRequest{Amount: amount, RedirectionURL: redirectionURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create-payment", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment create request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("payment create failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out CreatePaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("payment create: decoding response: %w", err)
	}
	if out.URL() == "" {
		return nil, fmt.Errorf("payment create: gateway returned no payment link")
	}
	return &out, nil
}

// VerifyPayment asks the gateway for the status of a payment reference.
func (c *Client) VerifyPayment(ctx context.Context, paymentID string) (*VerifyPaymentResponse, error) {
	id := strings.TrimSpace(paymentID)
	if id == "" {
		return nil, fmt.Errorf("payment verify: reference is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify-payment/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("payment verify failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out VerifyPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("payment verify: decoding response: %w", err)
	}
	return &out, nil
}
