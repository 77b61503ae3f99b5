package xmlrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client makes outbound XML-RPC calls to a single node-API or service-API
// URL. One Client is created per Node Handle (§4.3) and reused for the
// handle's lifetime.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient builds a Client bound to url with the given request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Call performs a single outbound XML-RPC request and decodes its single
// return value.
func (c *Client) Call(ctx context.Context, method string, params ...Value) (Value, error) {
	body, err := MarshalCall(method, params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: call %s to %s: %w", method, c.url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: read response: %w", err)
	}
	return UnmarshalResponse(respBody)
}
