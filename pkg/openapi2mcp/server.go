// server.go
package openapi2mcp

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ubermorgenland/anyapi-mcp/pkg/client"
	"github.com/ubermorgenland/anyapi-mcp/pkg/config"
	mcpserver "github.com/ubermorgenland/anyapi-mcp/pkg/mcp/server"
)

// NewServer builds the tool catalog from doc, wires every tool to an HTTP
// client for cfg's base URL, and returns the ready-to-serve MCP server.
// Example usage for NewServer:
//
//	doc, _ := openapi2mcp.LoadOpenAPISpec("petstore.yaml")
//	srv, _ := openapi2mcp.NewServer("petstore", doc.Info.Version, doc, cfg)
//	openapi2mcp.ServeStdio(srv)
func NewServer(name, version string, doc *openapi3.T, cfg *config.Config) (*mcpserver.MCPServer, error) {
	catalog := BuildCatalog(doc)
	return NewServerWithCatalog(name, version, doc, catalog, cfg)
}

// NewServerWithCatalog is NewServer for a catalog built elsewhere, e.g. one
// that was filtered or inspected first.
func NewServerWithCatalog(name, version string, doc *openapi3.T, catalog *ToolCatalog, cfg *config.Config) (*mcpserver.MCPServer, error) {
	if cfg == nil {
		var err error
		cfg, err = config.Load("")
		if err != nil {
			return nil, err
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURLFromDoc(doc)
	}

	srv := mcpserver.NewMCPServer(name, version)
	httpClient := client.New(cfg)
	fmt.Fprintf(os.Stderr, "[INFO] Registering %d operations for %s\n", catalog.Len(), name)
	RegisterOpenAPITools(srv, catalog, httpClient)
	return srv, nil
}

// baseURLFromDoc picks the first declared server URL, if any.
func baseURLFromDoc(doc *openapi3.T) string {
	if doc == nil {
		return ""
	}
	for _, s := range doc.Servers {
		if s != nil && s.URL != "" {
			return s.URL
		}
	}
	return ""
}

// ServeStdio starts the MCP server on standard input/output.
// Example usage for ServeStdio:
//
//	openapi2mcp.ServeStdio(srv)
func ServeStdio(server *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(server)
}

// ServeHTTP starts the MCP server on the streamable-http transport.
// addr is the address to listen on, e.g. ":8080"; basePath mounts the
// endpoint, defaulting to "/mcp".
// Example usage for ServeHTTP:
//
//	openapi2mcp.ServeHTTP(srv, ":8080", "/mcp")
func ServeHTTP(server *mcpserver.MCPServer, addr string, basePath string) error {
	if basePath == "" {
		basePath = "/mcp"
	}
	streamableServer := mcpserver.NewStreamableHTTPServer(server,
		mcpserver.WithEndpointPath(basePath),
	)
	return streamableServer.Start(addr)
}

// HandlerForBasePath returns an http.Handler serving the MCP server, for
// multi-mount HTTP servers that expose several APIs under different paths.
// Example usage:
//
//	handler := openapi2mcp.HandlerForBasePath(srv, "/petstore")
//	mux.Handle("/petstore", handler)
func HandlerForBasePath(server *mcpserver.MCPServer, basePath string) http.Handler {
	if basePath == "" {
		basePath = "/mcp"
	}
	return mcpserver.NewStreamableHTTPServer(server,
		mcpserver.WithEndpointPath(basePath),
	)
}

// GetStreamableHTTPURL returns the URL of the streamable-http endpoint for
// the given listen address and base path.
// Example usage:
//
//	url := openapi2mcp.GetStreamableHTTPURL(":8080", "/mcp")
//	// Returns: "http://localhost:8080/mcp"
func GetStreamableHTTPURL(addr, basePath string) string {
	if basePath == "" {
		basePath = "/mcp"
	}
	return "http://" + normalizeAddrToHost(addr) + basePath
}

// normalizeAddrToHost converts an addr (as used by net/http) to a host:port
// string suitable for URLs. ":8080" becomes "localhost:8080".
func normalizeAddrToHost(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "localhost"
	}
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
