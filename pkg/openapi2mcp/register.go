// register.go
package openapi2mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ubermorgenland/anyapi-mcp/pkg/client"
	"github.com/ubermorgenland/anyapi-mcp/pkg/mcp/mcp"
	mcpserver "github.com/ubermorgenland/anyapi-mcp/pkg/mcp/server"
)

// RegisterOpenAPITools registers every catalog entry on the server, wiring
// each tool's handler to the HTTP client. Per-call failures are rendered
// into the tool result, never returned as protocol errors.
// Example usage:
//
//	catalog := openapi2mcp.BuildCatalog(doc)
//	srv := mcpserver.NewMCPServer("myapi", "1.0.0")
//	openapi2mcp.RegisterOpenAPITools(srv, catalog, httpClient)
func RegisterOpenAPITools(srv *mcpserver.MCPServer, catalog *ToolCatalog, httpClient *client.HTTPClient) {
	for _, def := range catalog.All() {
		def := def
		srv.AddTool(def.Tool, func(ctx context.Context, params mcp.CallToolParams) (*mcp.CallToolResult, error) {
			value, err := httpClient.ExecuteTool(ctx, def.Method, def.Path, params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return renderResult(value), nil
		})
	}
}

// renderResult converts a normalized success value into a text tool result.
// Strings pass through as-is; every other JSON value is rendered as JSON
// text.
func renderResult(value any) *mcp.CallToolResult {
	if s, ok := value.(string); ok {
		return mcp.NewToolResultText(s)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("%v", value))
	}
	return mcp.NewToolResultText(string(data))
}
