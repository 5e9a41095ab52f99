// extract.go
package openapi2mcp

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/yosida95/uritemplate/v3"
)

// methodOrder fixes the per-path emission order of operations. Paths are
// walked in sorted order; together they make extraction deterministic.
var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// FallbackOperationID synthesizes a tool name for an operation that has no
// explicit operationId: the lowercase method joined to the path with every
// slash replaced by an underscore, e.g. "get__users_{id}".
func FallbackOperationID(method, path string) string {
	return strings.ToLower(method) + "_" + strings.ReplaceAll(path, "/", "_")
}

// ExtractOpenAPIOperations walks the description's path/method table and
// returns one OpenAPIOperation per method per path, in deterministic order.
// Example usage:
//
//	ops := openapi2mcp.ExtractOpenAPIOperations(doc)
//	for _, op := range ops {
//		fmt.Println(op.OperationID, op.Method, op.Path)
//	}
func ExtractOpenAPIOperations(doc *openapi3.T) []OpenAPIOperation {
	var ops []OpenAPIOperation
	if doc == nil || doc.Paths == nil {
		return ops
	}

	pathMap := doc.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for p := range pathMap {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := pathMap[path]
		if item == nil {
			continue
		}
		var pathVars []string
		if tmpl, err := uritemplate.New(path); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Path '%s' is not a valid URI template: %v\n", path, err)
		} else {
			pathVars = tmpl.Varnames()
		}

		byMethod := map[string]*openapi3.Operation{
			"GET":    item.Get,
			"POST":   item.Post,
			"PUT":    item.Put,
			"PATCH":  item.Patch,
			"DELETE": item.Delete,
		}
		for _, method := range methodOrder {
			op := byMethod[method]
			if op == nil {
				continue
			}

			opID := op.OperationID
			if opID == "" {
				opID = FallbackOperationID(method, path)
			}

			// Path-level parameters apply to every operation on the path.
			params := make(openapi3.Parameters, 0, len(item.Parameters)+len(op.Parameters))
			params = append(params, item.Parameters...)
			params = append(params, op.Parameters...)

			var requestBody *openapi3.RequestBodyRef
			if method == "POST" || method == "PUT" || method == "PATCH" {
				requestBody = op.RequestBody
			}

			var security openapi3.SecurityRequirements
			if op.Security != nil {
				security = *op.Security
			}

			ops = append(ops, OpenAPIOperation{
				OperationID: opID,
				Summary:     op.Summary,
				Description: op.Description,
				Path:        path,
				Method:      method,
				Parameters:  params,
				RequestBody: requestBody,
				Tags:        op.Tags,
				Security:    security,
				PathVars:    pathVars,
			})
		}
	}
	return ops
}
