// Package mcp defines the wire types for the Model Context Protocol (MCP).
//
// MCP is a JSON-RPC 2.0 based protocol between LLM-powered applications and
// their supporting services. This package carries only the subset the tool
// server needs: the initialize handshake, ping, and the tools/list and
// tools/call operations.
//
// All messages are strongly typed with JSON struct tags. Tool failures are
// expressed as CallToolResult values with IsError set — they are data, not
// protocol errors, so a failed upstream call never tears down the session.
//
// For the server implementation, see the server package.
// For OpenAPI integration, see the openapi2mcp package.
package mcp
