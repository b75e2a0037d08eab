package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PlaceholderAPIKey is what ships in the sample .env. While the key still
// holds this value the cloud side is considered unconfigured and the store
// runs local-only.
const PlaceholderAPIKey = "PUT_YOUR_API_KEY_HERE"

const cloudTimeout = 10 * time.Second

// CloudClient talks to the hosted copy of the document: a key-value style
// endpoint that serves the whole JSON blob on GET and overwrites it on PUT.
// There is no partial update and no concurrency control on the wire; the
// last PUT wins.
type CloudClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewCloudClient builds a client for the given endpoint. An empty or
// placeholder key yields a client that reports itself unconfigured.
func NewCloudClient(baseURL, apiKey string) *CloudClient {
	return &CloudClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		// The original web client had no timeout here and a stalled fetch
		// blocked the local fallback. Bounded now.
		client: &http.Client{Timeout: cloudTimeout},
	}
}

// Configured reports whether the cloud endpoint is usable: a real key and a
// URL that actually parses as http(s).
func (c *CloudClient) Configured() bool {
	if c.apiKey == "" || c.apiKey == PlaceholderAPIKey {
		return false
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func (c *CloudClient) documentURL() string {
	return c.baseURL + "/store.json"
}

// Fetch downloads the whole document. A nil body with nil error means the
// endpoint exists but holds no document yet.
func (c *CloudClient) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentURL(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloud read: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// Firebase-style endpoints answer "null" for a path never written to.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	return trimmed, nil
}

// Put overwrites the whole hosted document.
func (c *CloudClient) Put(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.documentURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloud write: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Reachable is the coarse online signal behind the UI's offline banner. It is
// informational only and never gates a read or write.
func (c *CloudClient) Reachable(ctx context.Context) bool {
	if !c.Configured() {
		return false
	}
	_, err := c.Fetch(ctx)
	return err == nil
}
