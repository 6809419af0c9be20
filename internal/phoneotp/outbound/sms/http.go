package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	defaultHTTPRetries = 2
	defaultHTTPBackoff = 200 * time.Millisecond
	maxErrorBody       = 512
)

// ErrHTTPConfig indicates an incomplete HTTP gateway configuration.
var ErrHTTPConfig = errors.New("sms: http gateway requires url and api key")

// HTTPConfig configures the HTTP gateway.
type HTTPConfig struct {
	URL     string
	APIKey  string
	Sender  string
	Timeout time.Duration
	// Retries is the number of extra attempts after a network error or 5xx.
	Retries uint64
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
	Client  *http.Client
}

type httpPayload struct {
	Route     string `json:"route"`
	Sender    string `json:"sender,omitempty"`
	Numbers   string `json:"numbers"`
	Variables string `json:"variables"`
	ExpiresAt string `json:"expires_at"`
}

// HTTP posts each code as JSON to a provider endpoint with the API key in the
// Authorization header.
type HTTP struct {
	url     string
	apiKey  string
	sender  string
	retries uint64
	backoff time.Duration
	client  *http.Client
}

// NewHTTP validates cfg and returns an HTTP gateway.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, ErrHTTPConfig
	}
	if cfg.Client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		cfg.Client = &http.Client{Timeout: timeout}
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultHTTPBackoff
	}

	return &HTTP{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		retries: cfg.Retries,
		backoff: cfg.Backoff,
		client:  cfg.Client,
	}, nil
}

// SendOTP posts the code. Network errors and 5xx responses are retried; any
// other non-2xx response fails immediately.
func (h *HTTP) SendOTP(ctx context.Context, phoneE164, code string, expiresAt time.Time) error {
	raw, err := json.Marshal(httpPayload{
		Route:     "otp",
		Sender:    h.sender,
		Numbers:   phoneE164,
		Variables: code,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(h.retries, retry.NewExponential(h.backoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return h.post(ctx, raw)
	})
}

func (h *HTTP) post(ctx context.Context, raw []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err = fmt.Errorf("sms: request failed status=%d body=%s", resp.StatusCode, string(b))
	if resp.StatusCode >= http.StatusInternalServerError {
		return retry.RetryableError(err)
	}
	return err
}
