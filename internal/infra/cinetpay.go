package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sime65123/gym-project/internal/config"

	"github.com/shopspring/decimal"
)

// CinetPayClient talks to the CinetPay checkout API. Payment initialization
// returns a hosted payment URL; the final state arrives on the notify webhook
// and is re-checked here before any money moves.
type CinetPayClient struct {
	baseURL    string
	apiKey     string
	siteID     string
	currency   string
	notifyURL  string
	returnURL  string
	httpClient *http.Client
}

func NewCinetPayClient(cfg *config.Config) *CinetPayClient {
	return &CinetPayClient{
		baseURL:    cfg.CinetPayBaseURL,
		apiKey:     cfg.CinetPayAPIKey,
		siteID:     cfg.CinetPaySiteID,
		currency:   cfg.CinetPayCurrency,
		notifyURL:  cfg.NotifyURL,
		returnURL:  cfg.ReturnURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type cinetpayInitRequest struct {
	APIKey        string `json:"apikey"`
	SiteID        string `json:"site_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	NotifyURL     string `json:"notify_url"`
	ReturnURL     string `json:"return_url"`
	Channels      string `json:"channels"`
}

type cinetpayEnvelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitResult is the subset of the init response the caller needs.
type InitResult struct {
	PaymentURL   string `json:"payment_url"`
	PaymentToken string `json:"payment_token"`
}

// TransactionStatus is the subset of the check response the webhook needs.
type TransactionStatus struct {
	Status  string `json:"status"`  // ACCEPTED | REFUSED | WAITING_FOR_CUSTOMER
	Amount  string `json:"amount"`
	Message string `json:"message"`
}

// InitTransaction registers a pending transaction and returns the hosted
// payment URL. Code "201" means created.
func (c *CinetPayClient) InitTransaction(ctx context.Context, trxID, description string, amount decimal.Decimal) (*InitResult, error) {
	payload := cinetpayInitRequest{
		APIKey:        c.apiKey,
		SiteID:        c.siteID,
		TransactionID: trxID,
		Amount:        amount.StringFixed(0),
		Currency:      c.currency,
		Description:   description,
		NotifyURL:     c.notifyURL,
		ReturnURL:     c.returnURL,
		Channels:      "ALL",
	}

	var env cinetpayEnvelope
	if err := c.post(ctx, "/payment", payload, &env); err != nil {
		return nil, err
	}
	if env.Code != "201" {
		return nil, fmt.Errorf("cinetpay: init rejected: code=%s message=%s", env.Code, env.Message)
	}

	var res InitResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return nil, fmt.Errorf("cinetpay: decode init data: %w", err)
	}
	return &res, nil
}

// CheckTransaction queries the authoritative state of a transaction. The
// webhook payload is only a wake-up signal; this call decides.
func (c *CinetPayClient) CheckTransaction(ctx context.Context, trxID string) (*TransactionStatus, error) {
	payload := map[string]string{
		"apikey":         c.apiKey,
		"site_id":        c.siteID,
		"transaction_id": trxID,
	}

	var env cinetpayEnvelope
	if err := c.post(ctx, "/payment/check", payload, &env); err != nil {
		return nil, err
	}
	// "00" is the historical success code; "662" means still pending.
	if env.Code != "00" && env.Code != "662" {
		return nil, fmt.Errorf("cinetpay: check failed: code=%s message=%s", env.Code, env.Message)
	}

	var st TransactionStatus
	if err := json.Unmarshal(env.Data, &st); err != nil {
		return nil, fmt.Errorf("cinetpay: decode check data: %w", err)
	}
	return &st, nil
}

func (c *CinetPayClient) post(ctx context.Context, path string, payload interface{}, out *cinetpayEnvelope) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cinetpay: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cinetpay: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cinetpay: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cinetpay: gateway returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cinetpay: decode response: %w", err)
	}
	return nil
}
