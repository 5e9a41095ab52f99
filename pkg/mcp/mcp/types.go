package mcp

import "encoding/json"

// MCPMethod identifies a JSON-RPC method defined by the MCP specification.
type MCPMethod string

const (
	MethodInitialize MCPMethod = "initialize"
	MethodPing       MCPMethod = "ping"
	MethodToolsList  MCPMethod = "tools/list"
	MethodToolsCall  MCPMethod = "tools/call"
)

// LATEST_PROTOCOL_VERSION is the protocol revision this server speaks.
const LATEST_PROTOCOL_VERSION = "2025-03-26"

// Standard JSON-RPC 2.0 error codes.
const (
	PARSE_ERROR      = -32700
	INVALID_REQUEST  = -32600
	METHOD_NOT_FOUND = -32601
	INVALID_PARAMS   = -32602
	INTERNAL_ERROR   = -32603
)

// JSONRPCRequest is an incoming JSON-RPC 2.0 request or notification.
// Notifications carry a nil ID.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  MCPMethod       `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse is a successful JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result"`
}

// JSONRPCError is a failed JSON-RPC 2.0 response.
type JSONRPCError struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Error   JSONRPCErrBody `json:"error"`
}

type JSONRPCErrBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewJSONRPCResponse wraps a result value for the given request id.
func NewJSONRPCResponse(id any, result any) JSONRPCResponse {
	return JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
}

// NewJSONRPCError builds an error response for the given request id.
func NewJSONRPCError(id any, code int, message string) JSONRPCError {
	return JSONRPCError{JSONRPC: "2.0", ID: id, Error: JSONRPCErrBody{Code: code, Message: message}}
}

// Implementation names the server (or client) program in the initialize
// handshake.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerCapabilities advertises which optional protocol features the server
// implements. Only tools are relevant here.
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// InitializeResult is the server half of the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// Tool is a single callable unit exposed via tools/list. InputSchema is a
// JSON Schema object describing the single arguments object passed to
// tools/call.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ListToolsRequest carries the (currently unused) pagination cursor.
type ListToolsRequest struct {
	Cursor string `json:"cursor,omitempty"`
}

// ListToolsResult is the tools/list response payload.
type ListToolsResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// CallToolParams is the tools/call request payload: a tool name and one
// argument object.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CallToolResult is the tools/call response payload. Tool failures are
// returned as data with IsError set, never as protocol errors.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content is one item of a tool result. Only text content is produced here.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// NewTextContent wraps a string as text content.
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// NewToolResultText builds a successful text result.
func NewToolResultText(text string) *CallToolResult {
	return &CallToolResult{Content: []Content{NewTextContent(text)}}
}

// NewToolResultError builds a failed result carrying a human-readable
// message. The failure travels as result data, per the MCP tool contract.
func NewToolResultError(message string) *CallToolResult {
	return &CallToolResult{Content: []Content{NewTextContent(message)}, IsError: true}
}
