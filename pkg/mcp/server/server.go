package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/ubermorgenland/anyapi-mcp/pkg/mcp/mcp"
)

// ToolHandlerFunc executes one tool call. Failures that belong to the caller
// are returned inside the CallToolResult; the error return is reserved for
// handler-level faults (it is converted to an error result, never a panic).
type ToolHandlerFunc func(ctx context.Context, params mcp.CallToolParams) (*mcp.CallToolResult, error)

// ServerTool pairs a tool definition with its handler.
type ServerTool struct {
	Tool    mcp.Tool
	Handler ToolHandlerFunc
}

// MCPServer dispatches MCP JSON-RPC messages to a fixed set of tools.
//
// The tool set is built once during startup and is read-only afterwards, so
// message handling takes no locks and any number of transports may call
// HandleMessage concurrently.
type MCPServer struct {
	name         string
	version      string
	instructions string

	mu    sync.RWMutex // guards registration only; sealed before serving
	order []string
	tools map[string]ServerTool
}

// ServerDescription is the introspection record exposed to operators.
type ServerDescription struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	ToolCount int    `json:"toolCount"`
}

// NewMCPServer creates a server with no tools registered.
func NewMCPServer(name, version string) *MCPServer {
	return &MCPServer{
		name:    name,
		version: version,
		tools:   make(map[string]ServerTool),
	}
}

// SetInstructions sets the instructions string returned from initialize.
func (s *MCPServer) SetInstructions(instructions string) {
	s.instructions = instructions
}

// AddTool registers a tool. A duplicate name overwrites the handler that will
// be invoked (last registration wins) while the listing order keeps both
// entries; the collision is logged because it usually indicates a flawed
// source document.
func (s *MCPServer) AddTool(tool mcp.Tool, handler ToolHandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[tool.Name]; exists {
		log.Printf("[WARN] duplicate tool name %q: later registration shadows the earlier one", tool.Name)
	}
	s.order = append(s.order, tool.Name)
	s.tools[tool.Name] = ServerTool{Tool: tool, Handler: handler}
}

// ListTools returns all registered tools in registration order.
func (s *MCPServer) ListTools() []mcp.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tools := make([]mcp.Tool, 0, len(s.order))
	for _, name := range s.order {
		tools = append(tools, s.tools[name].Tool)
	}
	return tools
}

// ToolCount returns the number of registration entries, duplicates included.
func (s *MCPServer) ToolCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Description returns the server introspection record.
func (s *MCPServer) Description() ServerDescription {
	return ServerDescription{Name: s.name, Version: s.version, ToolCount: s.ToolCount()}
}

// CallTool invokes a tool by name. An unknown name or a handler fault comes
// back as an error-flagged result; the error return is always nil for the
// benefit of transports, which must never fail a session over one call.
func (s *MCPServer) CallTool(ctx context.Context, params mcp.CallToolParams) *mcp.CallToolResult {
	s.mu.RLock()
	entry, ok := s.tools[params.Name]
	s.mu.RUnlock()
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %s", ErrToolNotFound, params.Name))
	}

	result, err := safeCall(ctx, entry.Handler, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("tool %s failed: %v", params.Name, err))
	}
	return result
}

// safeCall shields the dispatcher from a panicking handler.
func safeCall(ctx context.Context, handler ToolHandlerFunc, params mcp.CallToolParams) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, params)
}

// HandleMessage processes one raw JSON-RPC message and returns the response
// value to transmit, or nil for notifications.
func (s *MCPServer) HandleMessage(ctx context.Context, rawData []byte) any {
	var req mcp.JSONRPCRequest
	if err := json.Unmarshal(rawData, &req); err != nil {
		return mcp.NewJSONRPCError(nil, mcp.PARSE_ERROR, "request body is not valid json")
	}

	switch req.Method {
	case mcp.MethodInitialize:
		return mcp.NewJSONRPCResponse(req.ID, s.handleInitialize())
	case mcp.MethodPing:
		return mcp.NewJSONRPCResponse(req.ID, struct{}{})
	case mcp.MethodToolsList:
		return mcp.NewJSONRPCResponse(req.ID, mcp.ListToolsResult{Tools: s.ListTools()})
	case mcp.MethodToolsCall:
		var params mcp.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return mcp.NewJSONRPCError(req.ID, mcp.INVALID_PARAMS, fmt.Sprintf("invalid tools/call params: %v", err))
		}
		return mcp.NewJSONRPCResponse(req.ID, s.CallTool(ctx, params))
	default:
		if req.ID == nil {
			// Unknown notification, nothing to answer.
			return nil
		}
		return mcp.NewJSONRPCError(req.ID, mcp.METHOD_NOT_FOUND, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *MCPServer) handleInitialize() mcp.InitializeResult {
	instructions := s.instructions
	if instructions == "" {
		instructions = fmt.Sprintf(
			"This server provides %d tools converted from an OpenAPI specification. Each tool corresponds to an API endpoint that can be called.",
			s.ToolCount())
	}
	return mcp.InitializeResult{
		ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
		Capabilities:    mcp.ServerCapabilities{Tools: &mcp.ToolsCapability{}},
		ServerInfo:      mcp.Implementation{Name: s.name, Version: s.version},
		Instructions:    instructions,
	}
}
