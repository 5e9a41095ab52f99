// response.go
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/ubermorgenland/anyapi-mcp/pkg/server"
)

// NormalizeResponse reduces a raw HTTP response to a single value: parsed
// JSON when the response declares a JSON content type, the raw body text
// otherwise. Any non-2xx status is a failure carrying the status code and
// body text.
func (c *HTTPClient) NormalizeResponse(resp *http.Response) (any, error) {
	buf := c.pool.Get()
	defer c.pool.Put(buf)

	if _, err := io.Copy(buf, resp.Body); err != nil {
		return nil, server.Wrap(err, server.ErrorTypeNetwork, "failed to read response body")
	}
	body := buf.String()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, server.NewHTTPError(resp.StatusCode,
			fmt.Sprintf("request failed with status %d", resp.StatusCode), body)
	}

	if isJSONContentType(resp.Header.Get("Content-Type")) {
		// An empty JSON body is a JSON null, not a parse error.
		if strings.TrimSpace(body) == "" {
			return nil, nil
		}
		var value any
		if err := json.Unmarshal([]byte(body), &value); err != nil {
			return nil, server.Wrap(err, server.ErrorTypeExecution, "response declared JSON but failed to parse")
		}
		return value, nil
	}

	return body, nil
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
