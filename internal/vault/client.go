package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"k8s.io/client-go/transport"
	"k8s.io/klog/v2"

	"github.com/Hru-s/vaultpermdiff/internal/config"
)

const (
	// UserAgent is sent with every API request.
	UserAgent = "vaultpermdiff/0.1"

	// maxErrorBody caps how much of a failed response is kept on APIError.
	maxErrorBody = 512
)

// Client performs authenticated GETs against the Vault configuration API.
type Client struct {
	host       string
	apiVersion string
	http       *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the base HTTP client. Its transport is wrapped with the
// bearer and user agent round trippers.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cp := *c
		cl.http = &cp
	}
}

// NewClient builds a client from the vault settings. No request timeout is
// configured; the underlying HTTP client's default applies.
func NewClient(cfg config.Vault, opts ...Option) *Client {
	c := &Client{
		host:       cfg.DNS,
		apiVersion: cfg.APIVersion,
		http:       &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	rt := transport.NewUserAgentRoundTripper(UserAgent, base)
	c.http.Transport = transport.NewBearerAuthRoundTripper(cfg.SessionID, rt)
	return c
}

// BuildURL composes a configuration endpoint URL.
func BuildURL(host, apiVersion, componentType, componentAttribute string) string {
	return fmt.Sprintf("https://%s/api/%s/configuration/%s.%s",
		host, apiVersion, componentType, componentAttribute)
}

// BuildURL composes a configuration endpoint URL on the client's host.
func (c *Client) BuildURL(componentType, componentAttribute string) string {
	return BuildURL(c.host, c.apiVersion, componentType, componentAttribute)
}

// Get issues a single GET and decodes the JSON body into out. An empty body
// leaves out untouched. A non-2xx status returns *APIError.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	klog.V(4).InfoS("GET", "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &APIError{StatusCode: resp.StatusCode, URL: url, Body: string(body)}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}
