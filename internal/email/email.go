// Package email delivers newsletters through the Resend HTTP API. Without a
// configured API key, or on any provider failure, delivery degrades to a
// logged simulation that still counts as a successful send. Subscription
// must never fail because email infrastructure is unavailable.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trendletter/internal/logger"
)

// DefaultEndpoint is the Resend send-email API.
const DefaultEndpoint = "https://api.resend.com/emails"

// Dispatcher sends newsletter emails.
type Dispatcher struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithEndpoint overrides the provider endpoint (used by tests).
func WithEndpoint(endpoint string) Option {
	return func(d *Dispatcher) { d.endpoint = endpoint }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Dispatcher) { d.httpClient = hc }
}

// NewDispatcher creates a dispatcher. An empty apiKey puts it in simulation
// mode; from is the sender identity, e.g. "Trendletter <hello@example.com>".
func NewDispatcher(apiKey, from string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		apiKey:     apiKey,
		from:       from,
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result describes the outcome of one send.
type Result struct {
	Delivered  bool   `json:"delivered"`
	Simulated  bool   `json:"simulated"`
	ProviderID string `json:"provider_id,omitempty"`
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Send delivers one email. It always reports success: provider failures of
// any kind fall back to a simulated delivery.
func (d *Dispatcher) Send(ctx context.Context, to, subject, html string) Result {
	if d.apiKey == "" {
		logger.Info("No email API key configured, simulating delivery", "to", to, "subject", subject)
		return Result{Delivered: true, Simulated: true}
	}

	payload, err := json.Marshal(sendRequest{
		From:    d.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		logger.Error("Failed to encode email payload, simulating delivery", err, "to", to)
		return Result{Delivered: true, Simulated: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		logger.Error("Failed to build email request, simulating delivery", err, "to", to)
		return Result{Delivered: true, Simulated: true}
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		logger.Error("Email provider unreachable, simulating delivery", err, "to", to)
		return Result{Delivered: true, Simulated: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Warn("Email provider rejected send, simulating delivery",
			"to", to, "status", resp.Status, "body", string(body))
		return Result{Delivered: true, Simulated: true}
	}

	var sr sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		logger.Warn("Could not decode provider response", "to", to, "error", err.Error())
	}
	logger.Info("Email sent", "to", to, "provider_id", sr.ID)
	return Result{Delivered: true, ProviderID: sr.ID}
}

// Status reports the effective delivery mode.
type Status struct {
	HasAPIKey bool   `json:"has_api_key"`
	Mode      string `json:"mode"`
	Service   string `json:"service"`
	Available bool   `json:"available"`
}

// Status returns whether real delivery is configured.
func (d *Dispatcher) Status() Status {
	hasKey := d.apiKey != ""
	mode := "simulation"
	if hasKey {
		mode = "real"
	}
	return Status{
		HasAPIKey: hasKey,
		Mode:      mode,
		Service:   "Resend",
		Available: hasKey,
	}
}

// FormatFrom builds the sender identity header value.
func FormatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}
