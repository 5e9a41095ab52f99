package client

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubermorgenland/anyapi-mcp/pkg/server"
)

func TestStringifyArg(t *testing.T) {
	assert.Equal(t, "x", StringifyArg("x"))
	assert.Equal(t, "5", StringifyArg(5))
	assert.Equal(t, "5", StringifyArg(float64(5)))
	assert.Equal(t, "true", StringifyArg(true))
	assert.Equal(t, "null", StringifyArg(nil))
	assert.Equal(t, `[1,2]`, StringifyArg([]any{1, 2}))
	// Strings short-circuit before the quote stripping, so embedded quotes
	// survive.
	assert.Equal(t, `"quoted"`, StringifyArg(`"quoted"`))
}

func TestBuildRequestPathSubstitution(t *testing.T) {
	plan, err := BuildRequest("http://api.test", "GET", "/users/{id}", map[string]any{
		"id":    "42",
		"limit": 5,
	})
	require.NoError(t, err)

	u, err := url.Parse(plan.URL)
	require.NoError(t, err)
	assert.Equal(t, "/users/42", u.Path)
	assert.Equal(t, "5", u.Query().Get("limit"))
	// The path argument doubles as a query parameter; it is not reserved.
	assert.Equal(t, "42", u.Query().Get("id"))
}

func TestBuildRequestQueryOmission(t *testing.T) {
	plan, err := BuildRequest("http://api.test", "GET", "/things", map[string]any{
		"a":         "x",
		"b":         nil,
		"_internal": "y",
	})
	require.NoError(t, err)

	u, err := url.Parse(plan.URL)
	require.NoError(t, err)
	assert.Equal(t, "a=x", u.RawQuery)
}

func TestBuildRequestUnmatchedPlaceholderKept(t *testing.T) {
	plan, err := BuildRequest("http://api.test", "GET", "/users/{id}", map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, plan.URL, "/users/{id}")
}

func TestBuildRequestBodyStripping(t *testing.T) {
	plan, err := BuildRequest("http://api.test", "POST", "/people", map[string]any{
		"name":  "Ada",
		"_path": "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", plan.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal(plan.Body, &body))
	assert.Equal(t, map[string]any{"name": "Ada"}, body)
}

func TestBuildRequestUnsupportedMethod(t *testing.T) {
	_, err := BuildRequest("http://api.test", "TRACE", "/x", nil)
	require.Error(t, err)
	assert.True(t, server.IsType(err, server.ErrorTypeConfig))
}

func readFilePart(t *testing.T, plan *RequestPlan) ([]byte, map[string]string) {
	t.Helper()
	_, params, err := mime.ParseMediaType(plan.ContentType)
	require.NoError(t, err)
	reader := multipart.NewReader(bytes.NewReader(plan.Body), params["boundary"])

	var fileBytes []byte
	fields := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FormName() == "file" {
			fileBytes = data
			assert.Equal(t, "upload", part.FileName())
		} else {
			fields[part.FormName()] = string(data)
		}
	}
	return fileBytes, fields
}

func TestBuildRequestDataURLUpload(t *testing.T) {
	plan, err := BuildRequest("http://api.test", "POST", "/upload", map[string]any{
		"_file_upload": "data:text/plain;base64,aGVsbG8=",
		"note":         "greeting",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plan.ContentType, "multipart/form-data"))

	fileBytes, fields := readFilePart(t, plan)
	assert.Equal(t, []byte("hello"), fileBytes)
	assert.Equal(t, "greeting", fields["note"])
}

func TestBuildRequestLocalFileUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(path, []byte("from disk"), 0o644))

	plan, err := BuildRequest("http://api.test", "POST", "/upload", map[string]any{
		"_file_upload": path,
	})
	require.NoError(t, err)

	fileBytes, _ := readFilePart(t, plan)
	assert.Equal(t, []byte("from disk"), fileBytes)
}

func TestBuildRequestRawBase64Upload(t *testing.T) {
	plan, err := BuildRequest("http://api.test", "POST", "/upload", map[string]any{
		"_file_upload": "aGVsbG8=",
	})
	require.NoError(t, err)

	fileBytes, _ := readFilePart(t, plan)
	assert.Equal(t, []byte("hello"), fileBytes)
}

func TestBuildRequestMalformedUpload(t *testing.T) {
	_, err := BuildRequest("http://api.test", "POST", "/upload", map[string]any{
		"_file_upload": "not base64 at all!!!",
	})
	require.Error(t, err)
	assert.True(t, server.IsType(err, server.ErrorTypeValidation))
}
