package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// ChargeRequest is the body of a Culqi charge. Amount is in cents.
type ChargeRequest struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
	Email        string `json:"email"`
	SourceID     string `json:"source_id"`
}

// DeclinedError is returned when Culqi answers but does not create a charge.
type DeclinedError struct {
	Status int
	Body   json.RawMessage
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("charge declined with status %d", e.Status)
}

// CulqiClient creates charges against the Culqi API.
type CulqiClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewCulqiClient creates a client for the API rooted at baseURL.
func NewCulqiClient(baseURL, secretKey string) *CulqiClient {
	return &CulqiClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

// Charge posts the charge and returns the raw charge object on success.
func (c *CulqiClient) Charge(ctx context.Context, charge ChargeRequest) (json.RawMessage, error) {
	body, err := json.Marshal(charge)
	if err != nil {
		return nil, errors.Wrap(err, "marshal charge")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build charge request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send charge")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read charge response")
	}

	var envelope struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, errors.Wrapf(err, "decode charge response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || envelope.Object != "charge" {
		return nil, &DeclinedError{Status: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}
