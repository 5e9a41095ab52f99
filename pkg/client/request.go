// request.go
package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"strings"

	"github.com/ubermorgenland/anyapi-mcp/pkg/server"
)

// ReservedPrefix marks argument keys that carry instructions to the request
// builder itself. Reserved keys are never forwarded to the wire as query or
// body fields.
const ReservedPrefix = "_"

// FileUploadKey is the reserved argument carrying a file payload for
// multipart requests.
const FileUploadKey = "_file_upload"

// RequestPlan is one fully resolved outbound request: method, URL, body and
// the body's content type. Built fresh per call, never shared.
type RequestPlan struct {
	Method      string
	URL         string
	Body        []byte
	ContentType string
}

// StringifyArg renders a JSON-like value as a wire string. Strings pass
// through verbatim; every other value renders via its canonical JSON text
// with exactly one leading and one trailing quote stripped if present. The
// string short-circuit exists precisely so string values are not
// double-processed by the quote stripping.
func StringifyArg(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}

// BuildRequest expands a tool's method, path template and argument object
// into a request plan. The base URL is prepended as-is; path placeholders
// with no matching argument are left in place and surface later as a
// malformed URL.
func BuildRequest(baseURL, method, pathTemplate string, args map[string]any) (*RequestPlan, error) {
	switch method {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
	default:
		return nil, server.NewError(server.ErrorTypeConfig, "unsupported HTTP method", method)
	}

	path := pathTemplate
	for key, value := range args {
		placeholder := "{" + key + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, StringifyArg(value))
		}
	}

	plan := &RequestPlan{
		Method: method,
		URL:    strings.TrimRight(baseURL, "/") + path,
	}

	switch method {
	case "GET", "DELETE":
		query := url.Values{}
		for key, value := range args {
			if strings.HasPrefix(key, ReservedPrefix) || value == nil {
				continue
			}
			query.Set(key, StringifyArg(value))
		}
		if encoded := query.Encode(); encoded != "" {
			plan.URL += "?" + encoded
		}
	case "POST", "PUT", "PATCH":
		if _, ok := args[FileUploadKey]; ok {
			if err := buildMultipartBody(plan, args); err != nil {
				return nil, err
			}
		} else {
			body := make(map[string]any, len(args))
			for key, value := range args {
				if strings.HasPrefix(key, ReservedPrefix) {
					continue
				}
				body[key] = value
			}
			data, err := json.Marshal(body)
			if err != nil {
				return nil, server.Wrap(err, server.ErrorTypeInternal, "failed to serialize request body")
			}
			plan.Body = data
			plan.ContentType = "application/json"
		}
	}

	return plan, nil
}

// buildMultipartBody writes the file part plus every remaining non-reserved
// argument as a plain text field.
func buildMultipartBody(plan *RequestPlan, args map[string]any) error {
	fileBytes, err := decodeFilePayload(args[FileUploadKey])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="upload"`},
		"Content-Type":        {"application/octet-stream"},
	})
	if err != nil {
		return server.Wrap(err, server.ErrorTypeInternal, "failed to create multipart part")
	}
	if _, err := part.Write(fileBytes); err != nil {
		return server.Wrap(err, server.ErrorTypeInternal, "failed to write multipart part")
	}

	for key, value := range args {
		if strings.HasPrefix(key, ReservedPrefix) || value == nil {
			continue
		}
		if err := writer.WriteField(key, StringifyArg(value)); err != nil {
			return server.Wrap(err, server.ErrorTypeInternal, "failed to write multipart field")
		}
	}
	if err := writer.Close(); err != nil {
		return server.Wrap(err, server.ErrorTypeInternal, "failed to finalize multipart body")
	}

	plan.Body = buf.Bytes()
	plan.ContentType = writer.FormDataContentType()
	return nil
}

// decodeFilePayload interprets the file-upload value, in priority order: a
// data: URL decoded per its declared encoding, then an existing local file
// read from disk, then raw base64 text.
func decodeFilePayload(value any) ([]byte, error) {
	raw, ok := value.(string)
	if !ok {
		return nil, server.NewError(server.ErrorTypeValidation, "file upload value must be a string", "")
	}

	if strings.HasPrefix(raw, "data:") {
		comma := strings.IndexByte(raw, ',')
		if comma < 0 {
			return nil, server.NewError(server.ErrorTypeValidation, "malformed data URL", "missing comma separator")
		}
		meta, payload := raw[len("data:"):comma], raw[comma+1:]
		if strings.HasSuffix(meta, ";base64") {
			decoded, err := base64.StdEncoding.DecodeString(payload)
			if err != nil {
				return nil, server.Wrap(err, server.ErrorTypeValidation, "invalid base64 in data URL")
			}
			return decoded, nil
		}
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return nil, server.Wrap(err, server.ErrorTypeValidation, "invalid percent encoding in data URL")
		}
		return []byte(decoded), nil
	}

	if info, err := os.Stat(raw); err == nil && !info.IsDir() {
		data, err := os.ReadFile(raw)
		if err != nil {
			return nil, server.Wrap(err, server.ErrorTypeValidation, "failed to read upload file")
		}
		return data, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, server.Wrap(err, server.ErrorTypeValidation, "file upload is neither a data URL, an existing file, nor valid base64")
	}
	return decoded, nil
}
