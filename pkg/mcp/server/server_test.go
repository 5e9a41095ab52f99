package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubermorgenland/anyapi-mcp/pkg/mcp/mcp"
)

func echoTool(name string) (mcp.Tool, ToolHandlerFunc) {
	tool := mcp.Tool{
		Name:        name,
		Description: "echoes its arguments",
		InputSchema: map[string]any{"type": "object"},
	}
	handler := func(ctx context.Context, params mcp.CallToolParams) (*mcp.CallToolResult, error) {
		data, _ := json.Marshal(params.Arguments)
		return mcp.NewToolResultText(string(data)), nil
	}
	return tool, handler
}

func TestListToolsKeepsRegistrationOrder(t *testing.T) {
	srv := NewMCPServer("test", "1.0.0")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		tool, handler := echoTool(name)
		srv.AddTool(tool, handler)
	}

	tools := srv.ListTools()
	require.Len(t, tools, 3)
	assert.Equal(t, "zeta", tools[0].Name)
	assert.Equal(t, "alpha", tools[1].Name)
	assert.Equal(t, "mid", tools[2].Name)
}

func TestCallToolUnknownNameIsFailureData(t *testing.T) {
	srv := NewMCPServer("test", "1.0.0")
	tool, handler := echoTool("known")
	srv.AddTool(tool, handler)

	result := srv.CallTool(context.Background(), mcp.CallToolParams{Name: "missing"})
	require.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "missing")

	// A failed lookup leaves the catalog intact for the next call.
	result = srv.CallTool(context.Background(), mcp.CallToolParams{
		Name:      "known",
		Arguments: map[string]any{"a": "b"},
	})
	require.False(t, result.IsError)
	assert.Equal(t, `{"a":"b"}`, result.Content[0].Text)
}

func TestCallToolRecoversPanic(t *testing.T) {
	srv := NewMCPServer("test", "1.0.0")
	srv.AddTool(mcp.Tool{Name: "boom"}, func(ctx context.Context, params mcp.CallToolParams) (*mcp.CallToolResult, error) {
		panic("exploded")
	})

	result := srv.CallTool(context.Background(), mcp.CallToolParams{Name: "boom"})
	require.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "exploded")
}

func TestHandleMessageInitialize(t *testing.T) {
	srv := NewMCPServer("myapi", "2.1.0")
	tool, handler := echoTool("one")
	srv.AddTool(tool, handler)

	resp := srv.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	rpcResp, ok := resp.(mcp.JSONRPCResponse)
	require.True(t, ok)

	result, ok := rpcResp.Result.(mcp.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "myapi", result.ServerInfo.Name)
	assert.Equal(t, "2.1.0", result.ServerInfo.Version)
	assert.Equal(t, mcp.LATEST_PROTOCOL_VERSION, result.ProtocolVersion)
	assert.NotNil(t, result.Capabilities.Tools)
}

func TestHandleMessageToolsList(t *testing.T) {
	srv := NewMCPServer("test", "1.0.0")
	tool, handler := echoTool("one")
	srv.AddTool(tool, handler)

	resp := srv.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	rpcResp, ok := resp.(mcp.JSONRPCResponse)
	require.True(t, ok)

	result, ok := rpcResp.Result.(mcp.ListToolsResult)
	require.True(t, ok)
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "one", result.Tools[0].Name)
}

func TestHandleMessageInvalidJSON(t *testing.T) {
	srv := NewMCPServer("test", "1.0.0")
	resp := srv.HandleMessage(context.Background(), []byte(`{nope`))
	rpcErr, ok := resp.(mcp.JSONRPCError)
	require.True(t, ok)
	assert.Equal(t, mcp.PARSE_ERROR, rpcErr.Error.Code)
}

func TestHandleMessageUnknownMethod(t *testing.T) {
	srv := NewMCPServer("test", "1.0.0")

	resp := srv.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`))
	rpcErr, ok := resp.(mcp.JSONRPCError)
	require.True(t, ok)
	assert.Equal(t, mcp.METHOD_NOT_FOUND, rpcErr.Error.Code)

	// An unknown notification gets no answer at all.
	resp = srv.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	assert.Nil(t, resp)
}

func TestServeStdioRoundTrip(t *testing.T) {
	srv := NewMCPServer("test", "1.0.0")
	tool, handler := echoTool("echo")
	srv.AddTool(tool, handler)

	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n" +
			"\n" + // blank lines are skipped
			`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"k":"v"}}}` + "\n")
	var out strings.Builder

	require.NoError(t, serveStdio(context.Background(), srv, in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var listResp struct {
		ID     any `json:"id"`
		Result struct {
			Tools []mcp.Tool `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &listResp))
	require.Len(t, listResp.Result.Tools, 1)

	var callResp struct {
		Result mcp.CallToolResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &callResp))
	assert.False(t, callResp.Result.IsError)
	assert.Equal(t, `{"k":"v"}`, callResp.Result.Content[0].Text)
}

func TestServerDescription(t *testing.T) {
	srv := NewMCPServer("myapi", "1.2.3")
	tool, handler := echoTool("a")
	srv.AddTool(tool, handler)

	desc := srv.Description()
	assert.Equal(t, "myapi", desc.Name)
	assert.Equal(t, "1.2.3", desc.Version)
	assert.Equal(t, 1, desc.ToolCount)
}
