// catalog.go
package openapi2mcp

import (
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ubermorgenland/anyapi-mcp/pkg/mcp/mcp"
)

// ToolDefinition binds one MCP tool to the HTTP operation it was derived
// from. Definitions are built once and never mutated afterwards.
type ToolDefinition struct {
	Tool   mcp.Tool
	Method string
	Path   string
	Op     OpenAPIOperation
}

// ToolCatalog is the ordered, immutable collection of tool definitions plus
// a name-keyed lookup. Once built it is safe for unsynchronized concurrent
// reads.
type ToolCatalog struct {
	order  []ToolDefinition
	byName map[string]int
}

// BuildCatalog extracts every operation from the description and builds the
// catalog. Duplicate tool names keep both entries in the ordered list, but
// the lookup map keeps only the last-seen operation; the shadowing is logged.
func BuildCatalog(doc *openapi3.T) *ToolCatalog {
	ops := ExtractOpenAPIOperations(doc)
	catalog := &ToolCatalog{
		byName: make(map[string]int, len(ops)),
	}

	for _, op := range ops {
		description := op.Description
		if description == "" {
			description = op.Summary
		}

		def := ToolDefinition{
			Tool: mcp.Tool{
				Name:        op.OperationID,
				Description: description,
				InputSchema: BuildInputSchema(op.Parameters, op.RequestBody),
			},
			Method: op.Method,
			Path:   op.Path,
			Op:     op,
		}

		if prev, ok := catalog.byName[op.OperationID]; ok {
			fmt.Fprintf(os.Stderr, "[WARN] Duplicate tool name '%s' (%s %s shadows %s %s)\n",
				op.OperationID, op.Method, op.Path,
				catalog.order[prev].Method, catalog.order[prev].Path)
		}
		catalog.order = append(catalog.order, def)
		catalog.byName[op.OperationID] = len(catalog.order) - 1
	}
	return catalog
}

// ByName looks a tool up by exact name.
func (c *ToolCatalog) ByName(name string) (ToolDefinition, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return ToolDefinition{}, false
	}
	return c.order[idx], true
}

// All returns the definitions in extraction order. The returned slice is the
// catalog's own backing array; callers must not modify it.
func (c *ToolCatalog) All() []ToolDefinition {
	return c.order
}

// Len returns the number of definitions, duplicates included.
func (c *ToolCatalog) Len() int {
	return len(c.order)
}
