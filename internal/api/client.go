package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CredentialSource supplies the bearer token for outbound requests and is
// wiped when the backend rejects it.
type CredentialSource interface {
	Token() string
	Clear() error
}

// Client is the single outbound HTTP path. It attaches the bearer token,
// enforces the request timeout, and applies the global 401 policy: clear
// stored credentials and notify the unauthorized hook. It never retries.
type Client struct {
	base           string
	siteID         string
	http           *http.Client
	creds          CredentialSource
	onUnauthorized func()
}

func New(baseURL, siteID string, timeout time.Duration, creds CredentialSource) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		siteID: siteID,
		http:   &http.Client{Timeout: timeout},
		creds:  creds,
	}
}

// OnUnauthorized registers the hook fired after a 401 has cleared the
// stored session. The caller still receives the error.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// SiteID is the default site applied when a query omits one.
func (c *Client) SiteID() string { return c.siteID }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Global policy: the session is gone regardless of what the
		// caller does with the error.
		c.creds.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Error{Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverMessage pulls the human-readable message out of an error body, if
// there is one.
func serverMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
