// Package retell is a minimal client for the Retell AI calling API,
// covering the single create-phone-call operation the lead pipeline
// needs.
package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.retellai.com"

// ErrNotConfigured is returned when credentials are absent. The lead
// pipeline converts it into the documented partial-success response,
// so a misconfigured provider never loses a lead.
var ErrNotConfigured = errors.New("retell credentials not configured")

// Metadata travels with the call so the agent knows the lead context.
type Metadata struct {
	LeadSource string `json:"lead_source"`
	Variant    string `json:"variant"`
	VisitorID  string `json:"visitor_id"`
	Timestamp  string `json:"timestamp"`
}

type callRequest struct {
	AgentID    string   `json:"agent_id"`
	ToNumber   string   `json:"to_number"`
	FromNumber *string  `json:"from_number"`
	Metadata   Metadata `json:"metadata"`
}

// CallResponse is the subset of the provider response we reconcile
// back into the lead record.
type CallResponse struct {
	CallID     string `json:"call_id"`
	CallStatus string `json:"call_status"`
}

type apiError struct {
	Message string `json:"message"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	agentID    string
	fromNumber string
}

func New(baseURL, apiKey, agentID, fromNumber string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		agentID:    agentID,
		fromNumber: fromNumber,
	}
}

// Configured reports whether the client has credentials to place calls.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.agentID != ""
}

// CreatePhoneCall triggers an outbound call to the given number. When
// no from-number is configured the field is sent as null and the
// provider uses its configured number.
func (c *Client) CreatePhoneCall(ctx context.Context, toNumber string, meta Metadata) (*CallResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	reqBody := callRequest{
		AgentID:  c.agentID,
		ToNumber: toNumber,
		Metadata: meta,
	}
	if c.fromNumber != "" {
		from := c.fromNumber
		reqBody.FromNumber = &from
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling call request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/create-phone-call", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building call request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling retell: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("retell api error: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("retell api error: %s", resp.Status)
	}

	var call CallResponse
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return nil, fmt.Errorf("decoding call response: %w", err)
	}
	return &call, nil
}
