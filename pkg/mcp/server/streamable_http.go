package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ubermorgenland/anyapi-mcp/pkg/mcp/mcp"
)

// HTTPContextFunc customises the request context before a message is handled.
// Transports use it to inject authentication derived from HTTP headers.
type HTTPContextFunc func(ctx context.Context, r *http.Request) context.Context

// StreamableHTTPOption configures a StreamableHTTPServer.
type StreamableHTTPOption func(*StreamableHTTPServer)

// WithEndpointPath sets the path the server mounts itself on when started via
// Start. The default is "/mcp". It has no effect when the server is used
// directly as an http.Handler.
func WithEndpointPath(endpointPath string) StreamableHTTPOption {
	return func(s *StreamableHTTPServer) {
		s.endpointPath = "/" + strings.Trim(endpointPath, "/")
	}
}

// WithHTTPContextFunc sets the per-request context function.
func WithHTTPContextFunc(fn HTTPContextFunc) StreamableHTTPOption {
	return func(s *StreamableHTTPServer) {
		s.contextFunc = fn
	}
}

// WithStateless disables session tracking. No session id is issued and
// clients are not required to present one.
func WithStateless(stateless bool) StreamableHTTPOption {
	return func(s *StreamableHTTPServer) {
		s.stateless = stateless
	}
}

// StreamableHTTPServer exposes an MCPServer over the MCP streamable-http
// transport: POST carries requests, GET opens a server-event stream, DELETE
// terminates a session.
//
//	handler := server.NewStreamableHTTPServer(srv)
//	http.Handle("/mcp", handler)
//
// Sessions here are advisory: the tool catalog is process-wide and immutable,
// so a request is served identically with or without a session id.
type StreamableHTTPServer struct {
	server       *MCPServer
	endpointPath string
	contextFunc  HTTPContextFunc
	stateless    bool

	mu         sync.RWMutex
	httpServer *http.Server
	terminated map[string]bool
}

// NewStreamableHTTPServer creates a streamable-http transport for server.
func NewStreamableHTTPServer(server *MCPServer, opts ...StreamableHTTPOption) *StreamableHTTPServer {
	s := &StreamableHTTPServer{
		server:       server,
		endpointPath: "/mcp",
		terminated:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const headerKeySessionID = "Mcp-Session-Id"

const sessionIDPrefix = "mcp-session-"

// ServeHTTP implements http.Handler.
func (s *StreamableHTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handlePost(w, r)
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		http.NotFound(w, r)
	}
}

// Start serves the transport on addr at the configured endpoint path.
func (s *StreamableHTTPServer) Start(addr string) error {
	mux := http.NewServeMux()
	mux.Handle(s.endpointPath, s)
	mux.Handle(s.endpointPath+"/", s)

	s.mu.Lock()
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	srv := s.httpServer
	s.mu.Unlock()

	return srv.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server if Start was used.
func (s *StreamableHTTPServer) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpServer
	s.mu.RUnlock()
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

func (s *StreamableHTTPServer) handlePost(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
		http.Error(w, "Invalid content type: must be 'application/json'", http.StatusBadRequest)
		return
	}

	rawData, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeJSONRPCError(w, nil, mcp.PARSE_ERROR, fmt.Sprintf("read request body error: %v", err))
		return
	}
	var baseMessage struct {
		Method mcp.MCPMethod `json:"method"`
	}
	if err := json.Unmarshal(rawData, &baseMessage); err != nil {
		s.writeJSONRPCError(w, nil, mcp.PARSE_ERROR, "request body is not valid json")
		return
	}
	isInitializeRequest := baseMessage.Method == mcp.MethodInitialize

	var sessionID string
	if !s.stateless {
		if isInitializeRequest {
			sessionID = sessionIDPrefix + uuid.New().String()
		} else {
			sessionID = r.Header.Get(headerKeySessionID)
			if sessionID != "" {
				if err := s.validateSession(sessionID); err != nil {
					status := http.StatusBadRequest
					if err == ErrSessionTerminated {
						status = http.StatusNotFound
					}
					http.Error(w, err.Error(), status)
					return
				}
			}
		}
	}

	ctx := r.Context()
	if s.contextFunc != nil {
		ctx = s.contextFunc(ctx, r)
	}

	response := s.server.HandleMessage(ctx, rawData)
	if response == nil {
		// Notifications are acknowledged with no body.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if ctx.Err() != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if isInitializeRequest && sessionID != "" {
		w.Header().Set(headerKeySessionID, sessionID)
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Printf("Failed to write response: %v\n", err)
	}
}

func (s *StreamableHTTPServer) handleGet(w http.ResponseWriter, r *http.Request) {
	// The GET stream exists for server-initiated messages. This server sends
	// none, so the stream only delivers the endpoint event and then idles
	// until the client disconnects.
	sessionID := r.Header.Get(headerKeySessionID)
	if sessionID == "" {
		sessionID = sessionIDPrefix + uuid.New().String()
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusAccepted)

	if err := writeSSEEventWithType(w, "endpoint", fmt.Sprintf("?sessionId=%s", sessionID)); err != nil {
		return
	}
	flusher.Flush()

	<-r.Context().Done()
}

func (s *StreamableHTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(headerKeySessionID)
	if sessionID != "" {
		s.mu.Lock()
		s.terminated[sessionID] = true
		s.mu.Unlock()
	}
	w.WriteHeader(http.StatusOK)
}

func (s *StreamableHTTPServer) validateSession(sessionID string) error {
	if !strings.HasPrefix(sessionID, sessionIDPrefix) {
		return fmt.Errorf("invalid session id: %s", sessionID)
	}
	if _, err := uuid.Parse(sessionID[len(sessionIDPrefix):]); err != nil {
		return fmt.Errorf("invalid session id: %s", sessionID)
	}
	s.mu.RLock()
	terminated := s.terminated[sessionID]
	s.mu.RUnlock()
	if terminated {
		return ErrSessionTerminated
	}
	return nil
}

func (s *StreamableHTTPServer) writeJSONRPCError(w http.ResponseWriter, id any, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(mcp.NewJSONRPCError(id, code, message)); err != nil {
		fmt.Printf("Failed to write error response: %v\n", err)
	}
}

func writeSSEEventWithType(w io.Writer, eventType string, data string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
	return err
}

// NewTestStreamableHTTPServer wraps the transport in an httptest server.
func NewTestStreamableHTTPServer(server *MCPServer, opts ...StreamableHTTPOption) *httptest.Server {
	return httptest.NewServer(NewStreamableHTTPServer(server, opts...))
}
