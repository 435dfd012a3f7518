// Package plaid is a minimal client for the Plaid JSON API.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Environments and their API hosts.
var Environments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// Error is the error body Plaid returns with a non-2xx status.
type Error struct {
	StatusCode   int    `json:"-"`
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("plaid %s/%s (status %d): %s", e.ErrorType, e.ErrorCode, e.StatusCode, e.ErrorMessage)
}

// Client calls the Plaid API on behalf of one linked item.
type Client struct {
	baseURL     string
	clientID    string
	secret      string
	accessToken string
	http        *http.Client
	logger      *log.Logger
}

// Options configures a Client.
type Options struct {
	Environment string // key of Environments
	BaseURL     string // overrides Environment, used by tests
	ClientID    string
	Secret      string
	AccessToken string
	HTTPClient  *http.Client
	Logger      *log.Logger
}

// NewClient creates a Client.
func NewClient(opts Options) (*Client, error) {
	base := opts.BaseURL
	if base == "" {
		var ok bool
		base, ok = Environments[opts.Environment]
		if !ok {
			return nil, fmt.Errorf("unknown plaid environment %q", opts.Environment)
		}
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL:     base,
		clientID:    opts.ClientID,
		secret:      opts.Secret,
		accessToken: opts.AccessToken,
		http:        hc,
		logger:      logger,
	}, nil
}

// auth is embedded in every request body.
type auth struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

func (c *Client) auth() auth {
	return auth{ClientID: c.clientID, Secret: c.secret}
}

// post sends a JSON request to path and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("plaid call", "path", path, "status", resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}

	if resp.StatusCode >= 300 {
		perr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, perr); err != nil || perr.ErrorCode == "" {
			perr.ErrorType = "HTTP_ERROR"
			perr.ErrorCode = http.StatusText(resp.StatusCode)
			perr.ErrorMessage = string(data)
		}
		return perr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
