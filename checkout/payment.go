package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/lojak57/baseform-api/models"
)

// PaymentRequest carries the order total and the customer/shipping data
// collected by the checkout flow to the hosted gateway.
type PaymentRequest struct {
	CartID      string
	Amount      string
	Description string
	Customer    CustomerInfo
	Address     models.Address
}

// PaymentClient talks to the Telr hosted-payment API: a create call returns
// a redirect URL, and the gateway calls back to the webhook endpoint once
// the shopper completes or abandons payment.
type PaymentClient struct {
	StoreID  int
	AuthKey  string
	APIURL   string
	TestMode int
	Currency string

	SuccessURL string
	FailureURL string
	CancelURL  string
}

// PaymentClientFromEnv reads the gateway configuration. Sandbox/dev mode
// flips the test flag while keeping the live endpoint.
func PaymentClientFromEnv() (*PaymentClient, error) {
	storeID, _ := strconv.Atoi(os.Getenv("TELR_STORE_ID"))
	c := &PaymentClient{
		StoreID:    storeID,
		AuthKey:    os.Getenv("TELR_AUTH_KEY"),
		APIURL:     os.Getenv("TELR_API_URL"),
		Currency:   os.Getenv("STORE_CURRENCY"),
		SuccessURL: os.Getenv("TELR_SUCCESS_URL"),
		FailureURL: os.Getenv("TELR_FAILURE_URL"),
		CancelURL:  os.Getenv("TELR_CANCEL_URL"),
	}
	if mode := os.Getenv("TELR_MODE"); mode == "sandbox" || mode == "dev" {
		c.TestMode = 1
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.StoreID == 0 || c.AuthKey == "" || c.APIURL == "" {
		return nil, fmt.Errorf("telr configuration missing")
	}
	return c, nil
}

type telrResponse struct {
	Order struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	} `json:"order"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreatePayment sends the create request and returns the shopper redirect
// URL and the gateway order reference.
func (c *PaymentClient) CreatePayment(req PaymentRequest) (string, string, error) {
	payload := map[string]interface{}{
		"method":  "create",
		"store":   c.StoreID,
		"authkey": c.AuthKey,
		"order": map[string]interface{}{
			"cartid":      req.CartID,
			"test":        c.TestMode,
			"amount":      req.Amount,
			"currency":    c.Currency,
			"description": req.Description,
		},
		"customer": map[string]interface{}{
			"name":  req.Customer.Name,
			"email": req.Customer.Email,
			"phone": req.Customer.Phone,
			"address": map[string]string{
				"line1":    req.Address.Line1,
				"line2":    req.Address.Line2,
				"city":     req.Address.City,
				"region":   req.Address.State,
				"country":  req.Address.Country,
				"postcode": req.Address.PostalCode,
			},
		},
		"return": map[string]string{
			"authorised": c.SuccessURL,
			"declined":   c.FailureURL,
			"cancelled":  c.CancelURL,
		},
	}

	jsonData, _ := json.Marshal(payload)
	httpReq, err := http.NewRequest(http.MethodPost, c.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("payment API error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed telrResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", "", fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if parsed.Error != nil {
		return "", "", fmt.Errorf("gateway error: %s", parsed.Error.Message)
	}
	if parsed.Order.URL == "" {
		return "", "", fmt.Errorf("gateway returned empty payment URL")
	}
	return parsed.Order.URL, parsed.Order.Ref, nil
}
