// validate.go
package openapi2mcp

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaIssue reports one tool whose generated input schema is not a
// compilable JSON Schema.
type SchemaIssue struct {
	Tool   string
	Detail string
}

func (i SchemaIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Tool, i.Detail)
}

// ValidateToolSchemas compiles every generated input schema as JSON Schema
// and reports the ones that fail. This checks the shape of what the catalog
// advertises to callers; it does not validate call arguments, which are
// forwarded as-is.
func ValidateToolSchemas(catalog *ToolCatalog) []SchemaIssue {
	var issues []SchemaIssue
	for _, def := range catalog.All() {
		loader := gojsonschema.NewGoLoader(def.Tool.InputSchema)
		if _, err := gojsonschema.NewSchema(loader); err != nil {
			issues = append(issues, SchemaIssue{
				Tool:   def.Tool.Name,
				Detail: err.Error(),
			})
		}
	}
	return issues
}
