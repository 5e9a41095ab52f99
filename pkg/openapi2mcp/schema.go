// schema.go
package openapi2mcp

import (
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// fallbackObjectSchema is what every unrecognized, unresolved, or cyclic
// schema node degrades to. Degradation is the policy, not an error.
func fallbackObjectSchema() map[string]any {
	return map[string]any{"type": "object"}
}

// ExtractProperty recursively converts an OpenAPI SchemaRef into a generic
// tool input schema. It is total: any input, including nil refs, unresolved
// references, and cyclic schemas, yields a schema whose "type" is one of
// object, array, string, number, integer, or boolean.
func ExtractProperty(s *openapi3.SchemaRef) map[string]any {
	return extractPropertySeen(s, map[*openapi3.Schema]bool{})
}

// extractPropertySeen walks one schema node. seen tracks the nodes on the
// current path; revisiting one means the source schema is cyclic, and the
// node degrades to a generic object schema instead of being followed.
func extractPropertySeen(s *openapi3.SchemaRef, seen map[*openapi3.Schema]bool) map[string]any {
	if s == nil || s.Value == nil {
		// Unresolved reference or absent schema.
		return fallbackObjectSchema()
	}
	val := s.Value
	if seen[val] {
		return fallbackObjectSchema()
	}
	seen[val] = true
	defer delete(seen, val)

	prop := map[string]any{}

	// Union kinds are preserved structurally in source order, never flattened
	// or validated.
	if len(val.OneOf) > 0 {
		prop["oneOf"] = extractVariants(val.OneOf, seen)
	}
	if len(val.AnyOf) > 0 {
		prop["anyOf"] = extractVariants(val.AnyOf, seen)
	}
	if len(val.AllOf) > 0 {
		prop["allOf"] = extractVariants(val.AllOf, seen)
	}

	kind := schemaKind(val)
	prop["type"] = kind

	switch kind {
	case "string", "number", "integer", "boolean":
		if val.Format != "" {
			prop["format"] = val.Format
		}
		if enum := nonNullEnum(val.Enum); len(enum) > 0 {
			prop["enum"] = enum
		}
	case "array":
		if val.Items != nil {
			prop["items"] = extractPropertySeen(val.Items, seen)
		}
	case "object":
		// An empty object schema stays bare: no "properties", no "required".
		if len(val.Properties) > 0 {
			objProps := map[string]any{}
			for name, sub := range val.Properties {
				objProps[name] = extractPropertySeen(sub, seen)
			}
			prop["properties"] = objProps
			if req := requiredSubset(val.Required, val.Properties); len(req) > 0 {
				prop["required"] = req
			}
		}
	}

	// Descriptive metadata goes on last, after the type-specific fields.
	if val.Title != "" {
		prop["title"] = val.Title
	}
	if val.Description != "" {
		prop["description"] = val.Description
	}
	return prop
}

func extractVariants(refs []*openapi3.SchemaRef, seen map[*openapi3.Schema]bool) []any {
	variants := make([]any, 0, len(refs))
	for _, sub := range refs {
		variants = append(variants, extractPropertySeen(sub, seen))
	}
	return variants
}

// schemaKind maps the declared source type onto the six recognized kinds,
// defaulting to "object" when the source is ambiguous or unrecognized.
func schemaKind(val *openapi3.Schema) string {
	if val.Type != nil {
		for _, t := range *val.Type {
			switch t {
			case "string", "number", "integer", "boolean", "array", "object":
				return t
			}
		}
	}
	return "object"
}

// nonNullEnum filters null entries out of an enum list.
func nonNullEnum(enum []any) []any {
	if len(enum) == 0 {
		return nil
	}
	out := make([]any, 0, len(enum))
	for _, v := range enum {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// requiredSubset keeps only required names that are actual property keys,
// preserving declared order.
func requiredSubset(required []string, props openapi3.Schemas) []string {
	var out []string
	for _, name := range required {
		if _, ok := props[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// getContentByType returns the media type entry matching the given base
// content type, ignoring parameters like charset.
func getContentByType(content openapi3.Content, target string) *openapi3.MediaType {
	if content == nil {
		return nil
	}
	if mt, ok := content[target]; ok {
		return mt
	}
	for name, mt := range content {
		base := name
		if idx := strings.IndexByte(name, ';'); idx > 0 {
			base = strings.TrimSpace(name[:idx])
		}
		if base == target {
			return mt
		}
	}
	return nil
}

// jsonContent returns the first JSON media type entry: application/json,
// then any +json suffixed type.
func jsonContent(content openapi3.Content) *openapi3.MediaType {
	if mt := getContentByType(content, "application/json"); mt != nil {
		return mt
	}
	for name, mt := range content {
		base := name
		if idx := strings.IndexByte(name, ';'); idx > 0 {
			base = strings.TrimSpace(name[:idx])
		}
		if strings.HasSuffix(base, "+json") {
			return mt
		}
	}
	return nil
}

// BuildInputSchema converts an operation's parameters and request body into a
// single JSON Schema object for MCP tool input.
// Example usage for BuildInputSchema:
//
//	params := ... // openapi3.Parameters from an operation
//	reqBody := ... // *openapi3.RequestBodyRef from an operation
//	schema := openapi2mcp.BuildInputSchema(params, reqBody)
//	// schema is a map[string]any representing the JSON schema for tool input
func BuildInputSchema(params openapi3.Parameters, requestBody *openapi3.RequestBodyRef) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
	properties := schema["properties"].(map[string]any)
	var required []string

	for _, paramRef := range params {
		if paramRef == nil || paramRef.Value == nil {
			// An unresolvable parameter reference is logged and skipped;
			// extraction never aborts because of one bad parameter.
			fmt.Fprintf(os.Stderr, "[WARN] Skipping unresolvable parameter reference.\n")
			continue
		}
		p := paramRef.Value

		// A parameter may carry a plain schema or be described by content;
		// for the latter take the first available media-typed schema.
		schemaRef := p.Schema
		if schemaRef == nil && len(p.Content) > 0 {
			for _, mt := range p.Content {
				if mt != nil && mt.Schema != nil {
					schemaRef = mt.Schema
					break
				}
			}
		}
		if schemaRef == nil {
			fmt.Fprintf(os.Stderr, "[WARN] Parameter '%s' has no schema or content; skipping.\n", p.Name)
			continue
		}

		prop := ExtractProperty(schemaRef)
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}

		if p.In != "query" && p.In != "path" && p.In != "header" && p.In != "cookie" {
			fmt.Fprintf(os.Stderr, "[WARN] Parameter '%s' uses unsupported location '%s'.\n", p.Name, p.In)
		}
	}

	if requestBody != nil {
		if requestBody.Value == nil {
			// Unresolvable request body reference degrades to a generic
			// object schema.
			properties["body"] = fallbackObjectSchema()
		} else if mt := jsonContent(requestBody.Value.Content); mt != nil {
			var bodyProp map[string]any
			if mt.Schema != nil {
				bodyProp = ExtractProperty(mt.Schema)
			} else {
				bodyProp = fallbackObjectSchema()
			}
			if _, ok := bodyProp["description"]; !ok {
				bodyProp["description"] = "The JSON request body."
			}
			properties["body"] = bodyProp
			if requestBody.Value.Required {
				required = append(required, "body")
			}
		} else {
			for mtName := range requestBody.Value.Content {
				fmt.Fprintf(os.Stderr, "[WARN] Request body uses media type '%s'. Only JSON bodies are fully supported.\n", mtName)
			}
		}
	}

	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
