// Package openapi2mcp transforms OpenAPI 3.x descriptions into MCP (Model
// Context Protocol) tool servers.
//
// The package covers the complete conversion pipeline: it walks an API
// description's path/method table, converts every parameter and request-body
// schema into a generic tool input schema, collects the results into an
// immutable tool catalog, and serves the catalog over stdio or HTTP. At call
// time each tool invocation is expanded back into a concrete HTTP request by
// the client package.
//
// # Quick Start
//
//	doc, err := openapi2mcp.LoadOpenAPISpec("petstore.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	srv, err := openapi2mcp.NewServer("petstore", doc.Info.Version, doc, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	openapi2mcp.ServeStdio(srv) // or ServeHTTP(srv, ":8080")
//
// # Advanced Usage
//
//	// Extract operations for custom processing
//	ops := openapi2mcp.ExtractOpenAPIOperations(doc)
//
//	// Build a catalog without a server
//	catalog := openapi2mcp.BuildCatalog(doc)
//	tool, ok := catalog.ByName("get_users")
//
// For server implementations, see the server package.
// For core MCP protocol types, see the mcp package.
package openapi2mcp

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPIOperation describes a single OpenAPI operation to be mapped to an MCP tool.
// It includes the operation's ID, summary, description, HTTP path/method, parameters, request body, and tags.
type OpenAPIOperation struct {
	OperationID string
	Summary     string
	Description string
	Path        string
	Method      string
	Parameters  openapi3.Parameters
	RequestBody *openapi3.RequestBodyRef
	Tags        []string
	Security    openapi3.SecurityRequirements
	// PathVars lists the template variables of Path, in template order.
	PathVars []string
}
