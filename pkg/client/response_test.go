package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubermorgenland/anyapi-mcp/pkg/config"
	"github.com/ubermorgenland/anyapi-mcp/pkg/server"
)

func testClient(baseURL string) *HTTPClient {
	return New(&config.Config{
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
		Headers:        map[string]string{},
	})
}

func TestNormalizeResponseContentNegotiation(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		want        any
	}{
		{"empty json body is null", "application/json", "", nil},
		{"json body parses", "application/json", `{"a":1}`, map[string]any{"a": float64(1)}},
		{"json with charset", "application/json; charset=utf-8", `[1]`, []any{float64(1)}},
		{"suffixed json", "application/vnd.api+json", `{"x":true}`, map[string]any{"x": true}},
		{"plain text stays text", "text/plain", "ok", "ok"},
		{"no content type stays text", "", "raw", "raw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.contentType != "" {
					w.Header().Set("Content-Type", tc.contentType)
				}
				w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			c := testClient(ts.URL)
			value, err := c.ExecuteTool(context.Background(), "GET", "/", nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, value)
		})
	}
}

func TestNormalizeResponseNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.ExecuteTool(context.Background(), "GET", "/", nil)
	require.Error(t, err)

	var serverErr *server.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusNotFound, serverErr.StatusCode)
	assert.Contains(t, serverErr.Details, "missing")
}

func TestNormalizeResponseBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.ExecuteTool(context.Background(), "GET", "/", nil)
	require.Error(t, err)
	assert.True(t, server.IsType(err, server.ErrorTypeExecution))
}

func TestExecuteToolEndToEnd(t *testing.T) {
	var gotPath, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "42"}`))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	value, err := c.ExecuteTool(context.Background(), "GET", "/users/{id}", map[string]any{
		"id":    "42",
		"limit": 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "/users/42", gotPath)
	assert.Contains(t, gotQuery, "limit=5")
	assert.Equal(t, map[string]any{"id": "42"}, value)
}

func TestExecuteToolSendsDefaultHeaders(t *testing.T) {
	var gotContentType, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	c := New(&config.Config{
		BaseURL:        ts.URL,
		TimeoutSeconds: 5,
		Headers:        map[string]string{},
		BearerToken:    "secret",
	})
	_, err := c.ExecuteTool(context.Background(), "POST", "/x", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestExecuteToolNetworkFailure(t *testing.T) {
	c := testClient("http://127.0.0.1:0")
	_, err := c.ExecuteTool(context.Background(), "GET", "/", nil)
	require.Error(t, err)
	assert.True(t, server.IsType(err, server.ErrorTypeNetwork))
}
