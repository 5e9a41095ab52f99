package auth

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubermorgenland/anyapi-mcp/pkg/models"
)

func docWithScheme(scheme *openapi3.SecurityScheme) *openapi3.T {
	return &openapi3.T{
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				"main": &openapi3.SecuritySchemeRef{Value: scheme},
			},
		},
	}
}

func TestExtractAuthSchemeBearer(t *testing.T) {
	doc := docWithScheme(&openapi3.SecurityScheme{Type: "http", Scheme: "bearer"})
	name, authType, location := ExtractAuthScheme(doc)
	assert.Equal(t, "main", name)
	assert.Equal(t, "http", authType)
	assert.Empty(t, location)
}

func TestExtractAuthSchemeAPIKey(t *testing.T) {
	doc := docWithScheme(&openapi3.SecurityScheme{Type: "apiKey", In: "header", Name: "X-API-Key"})
	_, authType, location := ExtractAuthScheme(doc)
	assert.Equal(t, "apiKey", authType)
	assert.Equal(t, "header:X-API-Key", location)
}

func TestExtractAuthSchemeNone(t *testing.T) {
	_, authType, _ := ExtractAuthScheme(&openapi3.T{})
	assert.Empty(t, authType)
}

func TestCreateAuthContextFromRecord(t *testing.T) {
	doc := docWithScheme(&openapi3.SecurityScheme{Type: "http", Scheme: "bearer"})
	token := "stored-token"
	rec := &models.SpecRecord{APIToken: &token}

	authCtx := CreateAuthContext(doc, rec)
	require.NotNil(t, authCtx)
	assert.Equal(t, "stored-token", authCtx.BearerToken)
}

func TestCreateAuthContextNoCredential(t *testing.T) {
	t.Setenv("BEARER_TOKEN", "")
	t.Setenv("API_KEY", "")
	doc := docWithScheme(&openapi3.SecurityScheme{Type: "http", Scheme: "bearer"})
	assert.Nil(t, CreateAuthContext(doc, nil))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithAuthContext(context.Background(), &AuthContext{BearerToken: "t"})
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "t", got.BearerToken)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestSplitLocation(t *testing.T) {
	in, name := SplitLocation("query:api_key")
	assert.Equal(t, "query", in)
	assert.Equal(t, "api_key", name)

	in, name = SplitLocation("bogus")
	assert.Empty(t, in)
	assert.Empty(t, name)
}
