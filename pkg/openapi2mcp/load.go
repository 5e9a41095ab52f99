// load.go
package openapi2mcp

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ubermorgenland/anyapi-mcp/pkg/server"
)

// LoadOpenAPISpec loads and structurally validates an OpenAPI description
// from a local file path or an http(s) URL. YAML and JSON are both accepted.
// Example usage for LoadOpenAPISpec:
//
//	doc, err := openapi2mcp.LoadOpenAPISpec("petstore.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
func LoadOpenAPISpec(pathOrURL string) (*openapi3.T, error) {
	var data []byte
	var err error

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		httpClient := &http.Client{Timeout: 30 * time.Second}
		resp, fetchErr := httpClient.Get(pathOrURL)
		if fetchErr != nil {
			return nil, server.Wrap(fetchErr, server.ErrorTypeNetwork, "failed to fetch spec")
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, server.NewHTTPError(resp.StatusCode, "failed to fetch spec", pathOrURL)
		}
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, server.Wrap(err, server.ErrorTypeNetwork, "failed to read spec response")
		}
	} else {
		data, err = os.ReadFile(pathOrURL)
		if err != nil {
			return nil, server.Wrap(err, server.ErrorTypeSpec, "failed to read spec file")
		}
	}

	return LoadOpenAPISpecFromBytes(data)
}

// LoadOpenAPISpecFromBytes parses and structurally validates an OpenAPI
// description held in memory, e.g. one loaded from the database.
func LoadOpenAPISpecFromBytes(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, server.Wrap(err, server.ErrorTypeSpec, "failed to parse OpenAPI document")
	}
	if err := validateStructure(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// validateStructure enforces the minimum a description must carry before
// extraction starts. Validation failures are fatal: no catalog is built on
// top of a structurally broken document.
func validateStructure(doc *openapi3.T) error {
	if doc.OpenAPI == "" {
		return server.NewError(server.ErrorTypeSpec, "missing OpenAPI version field", "")
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return server.NewError(server.ErrorTypeSpec, "unsupported OpenAPI version", doc.OpenAPI)
	}
	if doc.Info == nil || doc.Info.Title == "" {
		return server.NewError(server.ErrorTypeSpec, "missing info.title", "")
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return server.NewError(server.ErrorTypeSpec, "document declares no paths", "")
	}
	return nil
}

// SpecTitle returns a display name for the description.
func SpecTitle(doc *openapi3.T) string {
	if doc != nil && doc.Info != nil && doc.Info.Title != "" {
		return doc.Info.Title
	}
	return "api"
}

// SpecVersion returns the description's declared info version, "0.0.0" when
// absent.
func SpecVersion(doc *openapi3.T) string {
	if doc != nil && doc.Info != nil && doc.Info.Version != "" {
		return doc.Info.Version
	}
	return "0.0.0"
}

// DescribeSpec renders a one-line summary used in startup logs.
func DescribeSpec(doc *openapi3.T) string {
	return fmt.Sprintf("%s %s (%d paths)", SpecTitle(doc), SpecVersion(doc), doc.Paths.Len())
}
