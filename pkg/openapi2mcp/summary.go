// summary.go
package openapi2mcp

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// toolSummary is one row of the --summary output.
type toolSummary struct {
	Name        string   `yaml:"name"`
	Method      string   `yaml:"method"`
	Path        string   `yaml:"path"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Required    int      `yaml:"required_args"`
}

// PrintToolSummary writes a YAML overview of the catalog: one entry per tool
// with its method, path and required-argument count.
func PrintToolSummary(w io.Writer, catalog *ToolCatalog) error {
	summaries := make([]toolSummary, 0, catalog.Len())
	for _, def := range catalog.All() {
		requiredCount := 0
		if req, ok := def.Tool.InputSchema["required"].([]string); ok {
			requiredCount = len(req)
		}
		summaries = append(summaries, toolSummary{
			Name:        def.Tool.Name,
			Method:      def.Method,
			Path:        def.Path,
			Description: def.Tool.Description,
			Tags:        def.Op.Tags,
			Required:    requiredCount,
		})
	}

	fmt.Fprintf(w, "# %d tools\n", catalog.Len())
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(summaries)
}
