// Package client turns tool invocations back into concrete HTTP requests
// against the upstream API and normalizes the responses.
package client

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/ubermorgenland/anyapi-mcp/pkg/auth"
	"github.com/ubermorgenland/anyapi-mcp/pkg/config"
	"github.com/ubermorgenland/anyapi-mcp/pkg/mcp/mcp"
	"github.com/ubermorgenland/anyapi-mcp/pkg/memory"
	"github.com/ubermorgenland/anyapi-mcp/pkg/server"
)

// HTTPClient executes tool calls against one upstream API. It is safe for
// concurrent use; each call builds its own request plan and shares only the
// underlying connection pool.
type HTTPClient struct {
	baseURL string
	cfg     *config.Config
	http    *http.Client
	pool    *memory.BufferPool
}

// New creates a client for the configured base URL with the configured
// per-request timeout.
func New(cfg *config.Config) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultTimeoutSeconds * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		pool:    memory.NewBufferPool(4096),
	}
}

// BaseURL returns the upstream base URL the client targets.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// ExecuteTool builds, sends and normalizes one tool invocation. Every
// failure comes back as an error value; a call never panics or aborts other
// in-flight calls.
func (c *HTTPClient) ExecuteTool(ctx context.Context, method, pathTemplate string, args map[string]any) (any, error) {
	plan, err := BuildRequest(c.baseURL, method, pathTemplate, args)
	if err != nil {
		return nil, err
	}

	var bodyReader *bytes.Reader
	if plan.Body != nil {
		bodyReader = bytes.NewReader(plan.Body)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, plan.Method, plan.URL, bodyReader)
	if err != nil {
		return nil, server.Wrap(err, server.ErrorTypeConfig, "failed to construct request")
	}

	c.applyHeaders(ctx, req, plan)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, server.Wrap(err, server.ErrorTypeNetwork, "request failed")
	}
	defer resp.Body.Close()

	return c.NormalizeResponse(resp)
}

// applyHeaders merges default headers onto the request. A per-body content
// type takes precedence over the JSON default.
func (c *HTTPClient) applyHeaders(ctx context.Context, req *http.Request, plan *RequestPlan) {
	req.Header.Set("Content-Type", "application/json")
	if plan.ContentType != "" {
		req.Header.Set("Content-Type", plan.ContentType)
	}
	req.Header.Set("MCP-Protocol-Version", mcp.LATEST_PROTOCOL_VERSION)

	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}

	// Per-call credentials from the auth context win over static config.
	if a, ok := auth.FromContext(ctx); ok && a != nil {
		switch {
		case a.BearerToken != "" && a.Location == "basic":
			// Credential is already the base64 user:pass pair.
			req.Header.Set("Authorization", "Basic "+a.BearerToken)
		case a.BearerToken != "":
			req.Header.Set("Authorization", "Bearer "+a.BearerToken)
		case a.APIKey != "":
			in, name := auth.SplitLocation(a.Location)
			switch in {
			case "header":
				req.Header.Set(name, a.APIKey)
			case "query":
				q := req.URL.Query()
				q.Set(name, a.APIKey)
				req.URL.RawQuery = q.Encode()
			default:
				req.Header.Set("Authorization", "Bearer "+a.APIKey)
			}
		}
	}
}
