// Package payments wraps the Monnify checkout API.
package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is the outbound payment-provider contract used by the donation
// initiation flow.
type Gateway interface {
	InitTransaction(ctx context.Context, req InitTransactionRequest) (*InitTransactionResponse, error)
}

// InitTransactionRequest mirrors Monnify's init-transaction payload.
type InitTransactionRequest struct {
	Amount             float64           `json:"amount"`
	CustomerName       string            `json:"customerName"`
	CustomerEmail      string            `json:"customerEmail"`
	PaymentReference   string            `json:"paymentReference"`
	PaymentDescription string            `json:"paymentDescription"`
	CurrencyCode       string            `json:"currencyCode"`
	ContractCode       string            `json:"contractCode"`
	RedirectURL        string            `json:"redirectUrl"`
	PaymentMethods     []string          `json:"paymentMethods"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

type InitTransactionResponse struct {
	CheckoutURL          string `json:"checkoutUrl"`
	TransactionReference string `json:"transactionReference"`
}

type initTransactionEnvelope struct {
	RequestSuccessful bool                    `json:"requestSuccessful"`
	ResponseMessage   string                  `json:"responseMessage"`
	ResponseBody      InitTransactionResponse `json:"responseBody"`
}

type MonnifyClient struct {
	BaseURL      string
	APIKey       string
	SecretKey    string
	ContractCode string
	HTTPClient   *http.Client
}

func NewMonnifyClient(baseURL, apiKey, secretKey, contractCode string) *MonnifyClient {
	return &MonnifyClient{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		SecretKey:    secretKey,
		ContractCode: contractCode,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// InitTransaction creates a checkout session. Monnify authenticates
// init-transaction with Basic auth over apiKey:secretKey.
func (m *MonnifyClient) InitTransaction(ctx context.Context, req InitTransactionRequest) (*InitTransactionResponse, error) {
	if req.ContractCode == "" {
		req.ContractCode = m.ContractCode
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := m.BaseURL + "/api/v1/merchant/transactions/init-transaction"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(m.APIKey + ":" + m.SecretKey))
	httpReq.Header.Set("Authorization", "Basic "+auth)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("monnify request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope initTransactionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("monnify response decode error: %v", err)
	}

	if !envelope.RequestSuccessful {
		if envelope.ResponseMessage == "" {
			envelope.ResponseMessage = resp.Status
		}
		return nil, fmt.Errorf("monnify init-transaction rejected: %s", envelope.ResponseMessage)
	}

	return &envelope.ResponseBody, nil
}
