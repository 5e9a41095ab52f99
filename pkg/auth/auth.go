// Package auth discovers security schemes declared in an API description and
// threads resolved credentials through request contexts.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ubermorgenland/anyapi-mcp/pkg/models"
)

type contextKey string

const authContextKey contextKey = "anyapi-auth"

// AuthContext carries the credential to attach to outbound requests for one
// API. Exactly one of BearerToken or APIKey is normally set.
type AuthContext struct {
	// SchemeName is the component name of the scheme in the description.
	SchemeName string
	// Type is "http" (bearer) or "apiKey".
	Type string
	// Location is "header:<name>" or "query:<name>" for apiKey schemes.
	Location string

	BearerToken string
	APIKey      string
}

// WithAuthContext returns a child context carrying auth.
func WithAuthContext(ctx context.Context, auth *AuthContext) context.Context {
	if auth == nil {
		return ctx
	}
	return context.WithValue(ctx, authContextKey, auth)
}

// FromContext extracts the auth context, if any.
func FromContext(ctx context.Context) (*AuthContext, bool) {
	auth, ok := ctx.Value(authContextKey).(*AuthContext)
	return auth, ok
}

// ExtractAuthScheme inspects the description's securitySchemes and returns
// the first usable scheme as (name, type, location). Location is
// "location:name" for apiKey schemes, "basic" for http basic, and empty for
// bearer. Returns empty strings when the description declares no usable
// scheme.
func ExtractAuthScheme(doc *openapi3.T) (string, string, string) {
	if doc == nil || doc.Components == nil || doc.Components.SecuritySchemes == nil {
		return "", "", ""
	}

	for name, ref := range doc.Components.SecuritySchemes {
		if ref == nil || ref.Value == nil {
			continue
		}
		scheme := ref.Value
		switch scheme.Type {
		case "http":
			if strings.EqualFold(scheme.Scheme, "bearer") {
				return name, "http", ""
			}
			if strings.EqualFold(scheme.Scheme, "basic") {
				return name, "http", "basic"
			}
		case "apiKey":
			if scheme.In != "" && scheme.Name != "" {
				return name, "apiKey", fmt.Sprintf("%s:%s", scheme.In, scheme.Name)
			}
		}
	}

	return "", "", ""
}

// CreateAuthContext resolves a credential for the given scheme, consulting
// the stored spec record first and falling back to the environment. Returns
// nil when no credential is available; unauthenticated APIs are served as-is.
func CreateAuthContext(doc *openapi3.T, record *models.SpecRecord) *AuthContext {
	name, authType, location := ExtractAuthScheme(doc)
	if authType == "" {
		return nil
	}

	token := ""
	if record != nil {
		token = record.Token()
	}
	if token == "" {
		token = os.Getenv("BEARER_TOKEN")
	}
	if token == "" {
		token = os.Getenv("API_KEY")
	}
	if token == "" {
		return nil
	}

	auth := &AuthContext{
		SchemeName: name,
		Type:       authType,
		Location:   location,
	}
	if authType == "http" {
		auth.BearerToken = token
	} else {
		auth.APIKey = token
	}
	return auth
}

// SplitLocation parses a "location:name" pair produced by ExtractAuthScheme.
func SplitLocation(location string) (in, paramName string) {
	parts := strings.SplitN(location, ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
