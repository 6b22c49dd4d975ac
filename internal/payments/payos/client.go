// Package payos talks to the QR/bank-transfer payment provider. Requests
// are signed over a fixed field subset with the checksum credential;
// webhook bodies are verified over their full data object with the same
// canonicalization (see payments.VerifySignature).
package payos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"course-app/internal/payments"
)

const defaultBaseURL = "https://api-merchant.payos.vn"

// codeOK is the provider's "success" response code.
const codeOK = "00"

type Client struct {
	httpClient  *http.Client
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey string
}

func NewClient(clientID, apiKey, checksumKey string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     defaultBaseURL,
		clientID:    clientID,
		apiKey:      apiKey,
		checksumKey: checksumKey,
	}
}

// NewClientFromEnv builds a client from PAYOS_CLIENT_ID / PAYOS_API_KEY /
// PAYOS_CHECKSUM_KEY. Missing credentials surface as a ConfigurationError
// on first use, not at construction.
func NewClientFromEnv() *Client {
	return NewClient(
		os.Getenv("PAYOS_CLIENT_ID"),
		os.Getenv("PAYOS_API_KEY"),
		os.Getenv("PAYOS_CHECKSUM_KEY"),
	)
}

func (c *Client) configured() error {
	switch {
	case c.clientID == "":
		return &payments.ConfigurationError{Missing: "PAYOS_CLIENT_ID"}
	case c.apiKey == "":
		return &payments.ConfigurationError{Missing: "PAYOS_API_KEY"}
	case c.checksumKey == "":
		return &payments.ConfigurationError{Missing: "PAYOS_CHECKSUM_KEY"}
	}
	return nil
}

type createRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
	ExpiredAt   int64  `json:"expiredAt"`
	Signature   string `json:"signature"`
}

type paymentData struct {
	OrderCode     int64  `json:"orderCode"`
	PaymentLinkID string `json:"paymentLinkId"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	QrCode        string `json:"qrCode"`
	CheckoutURL   string `json:"checkoutUrl"`
	ExpiredAt     int64  `json:"expiredAt"`
	Bin           string `json:"bin"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type envelope struct {
	Code string       `json:"code"`
	Desc string       `json:"desc"`
	Data *paymentData `json:"data"`
}

// CreatePaymentRequest asks the provider for a payable QR link.
func (c *Client) CreatePaymentRequest(ctx context.Context, req payments.QrRequest) (*payments.QrResult, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	signature, err := payments.Sign(map[string]interface{}{
		"amount":      req.Amount,
		"cancelUrl":   req.CancelURL,
		"description": req.Description,
		"orderCode":   req.OrderCode,
		"returnUrl":   req.ReturnURL,
	}, c.checksumKey)
	if err != nil {
		return nil, &payments.ConfigurationError{Missing: "PAYOS_CHECKSUM_KEY"}
	}

	body, err := json.Marshal(createRequest{
		OrderCode:   req.OrderCode,
		Amount:      req.Amount,
		Description: req.Description,
		ReturnURL:   req.ReturnURL,
		CancelURL:   req.CancelURL,
		ExpiredAt:   req.ExpiredAt,
		Signature:   signature,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/payment-requests", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-client-id", c.clientID)
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Timeouts and transport failures count as the provider rejecting us.
		return nil, &payments.ProviderError{Provider: "payos", Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &payments.ProviderError{Provider: "payos", StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &payments.ProviderError{Provider: "payos", StatusCode: resp.StatusCode, Message: string(raw)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &payments.ProviderError{Provider: "payos", StatusCode: resp.StatusCode, Message: "unparseable response: " + err.Error()}
	}
	if env.Code != codeOK || env.Data == nil {
		return nil, &payments.ProviderError{Provider: "payos", Message: fmt.Sprintf("code %s: %s", env.Code, env.Desc)}
	}

	d := env.Data
	return &payments.QrResult{
		OrderCode:     d.OrderCode,
		PaymentLinkID: d.PaymentLinkID,
		Status:        d.Status,
		Amount:        d.Amount,
		Currency:      d.Currency,
		QrCode:        d.QrCode,
		CheckoutURL:   d.CheckoutURL,
		ExpiredAt:     d.ExpiredAt,
		Bin:           d.Bin,
		AccountNumber: d.AccountNumber,
		AccountName:   d.AccountName,
	}, nil
}
