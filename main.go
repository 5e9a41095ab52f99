// Command anyapi-mcp serves the operations of an OpenAPI 3.x description as
// MCP tools, over stdio or HTTP, from local files or a PostgreSQL store.
//
// Usage:
//
//	anyapi-mcp petstore.yaml                 # stdio server for one spec
//	anyapi-mcp --http :8080 a.yaml b.yaml    # HTTP server, one mount per spec
//	anyapi-mcp --summary petstore.yaml       # print the tool catalog and exit
//	anyapi-mcp --validate petstore.yaml      # check generated schemas and exit
//	DATABASE_URL=postgres://... anyapi-mcp --http :8080
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ubermorgenland/anyapi-mcp/pkg/auth"
	"github.com/ubermorgenland/anyapi-mcp/pkg/config"
	"github.com/ubermorgenland/anyapi-mcp/pkg/database"
	mcpserver "github.com/ubermorgenland/anyapi-mcp/pkg/mcp/server"
	"github.com/ubermorgenland/anyapi-mcp/pkg/openapi2mcp"
	"github.com/ubermorgenland/anyapi-mcp/pkg/server"
	"github.com/ubermorgenland/anyapi-mcp/pkg/services"
)

func main() {
	cfg, err := server.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.LogConfiguration()

	if cfg.DatabaseMode {
		runDatabaseMode(cfg)
		return
	}
	runFileMode(cfg)
}

func runFileMode(cfg *server.Config) {
	type mountedSpec struct {
		name    string
		srv     *mcpserver.MCPServer
		catalog *openapi2mcp.ToolCatalog
	}
	var mounts []mountedSpec

	for _, specFile := range cfg.SpecFiles {
		doc, err := openapi2mcp.LoadOpenAPISpec(specFile)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", specFile, err)
		}
		log.Printf("Loaded %s: %s", specFile, openapi2mcp.DescribeSpec(doc))

		catalog := openapi2mcp.BuildCatalog(doc)

		if cfg.Summary {
			if err := openapi2mcp.PrintToolSummary(os.Stdout, catalog); err != nil {
				log.Fatalf("Failed to print summary: %v", err)
			}
			continue
		}
		if cfg.ValidateOnly {
			issues := openapi2mcp.ValidateToolSchemas(catalog)
			for _, issue := range issues {
				fmt.Fprintf(os.Stderr, "[WARN] %s\n", issue)
			}
			if len(issues) > 0 {
				log.Fatalf("%d tool schemas failed validation", len(issues))
			}
			log.Printf("All %d tool schemas are valid", catalog.Len())
			continue
		}

		clientCfg, err := config.Load(specFile)
		if err != nil {
			log.Fatalf("Failed to load client config: %v", err)
		}

		srv, err := openapi2mcp.NewServerWithCatalog(
			openapi2mcp.SpecTitle(doc), openapi2mcp.SpecVersion(doc), doc, catalog, clientCfg)
		if err != nil {
			log.Fatalf("Failed to create server for %s: %v", specFile, err)
		}
		mounts = append(mounts, mountedSpec{
			name:    mountName(specFile),
			srv:     srv,
			catalog: catalog,
		})
	}

	if cfg.Summary || cfg.ValidateOnly {
		return
	}

	if !cfg.HTTPMode {
		if len(mounts) != 1 {
			log.Fatalf("stdio mode serves exactly one spec, got %d", len(mounts))
		}
		if err := openapi2mcp.ServeStdio(mounts[0].srv); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	mux := http.NewServeMux()
	for _, m := range mounts {
		basePath := "/" + m.name
		mux.Handle(basePath, openapi2mcp.HandlerForBasePath(m.srv, basePath))
		log.Printf("Mounted %s at %s (%d tools)",
			m.name, openapi2mcp.GetStreamableHTTPURL(cfg.HTTPAddr, basePath), m.catalog.Len())
	}
	mux.HandleFunc("/health", server.HandleHealth())
	first := mounts[0]
	mux.HandleFunc("/server-info", server.HandleServerInfo(func() any {
		return first.srv.Description()
	}))

	serveHTTP(cfg.HTTPAddr, mux)
}

func runDatabaseMode(cfg *server.Config) {
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer database.Close()

	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}

	loader := services.NewSpecLoaderService()

	// Reload swaps the whole handler table; the mux itself is registered
	// once and dispatches through the table, so a re-mount never touches it.
	var mountsMu sync.RWMutex
	mounted := map[string]http.Handler{}

	mount := func() ([]string, error) {
		specs, err := loader.LoadActiveSpecs()
		if err != nil {
			return nil, err
		}
		next := map[string]http.Handler{}
		var names []string
		for _, spec := range specs {
			clientCfg, err := config.Load("")
			if err != nil {
				return nil, err
			}
			srv, err := openapi2mcp.NewServer(
				openapi2mcp.SpecTitle(spec.Doc), openapi2mcp.SpecVersion(spec.Doc), spec.Doc, clientCfg)
			if err != nil {
				log.Printf("[WARN] Skipping spec %q: %v", spec.Record.Name, err)
				continue
			}

			authCtx := auth.CreateAuthContext(spec.Doc, spec.Record)
			basePath := "/" + strings.Trim(spec.Record.EndpointPath, "/")
			handler := openapi2mcp.HandlerForBasePath(srv, basePath)
			if authCtx != nil {
				handler = withAuth(handler, authCtx)
			}
			next[basePath] = handler
			names = append(names, spec.Record.Name)
			log.Printf("Mounted stored spec %q at %s", spec.Record.Name, basePath)
		}

		mountsMu.Lock()
		mounted = next
		mountsMu.Unlock()
		return names, nil
	}

	if _, err := mount(); err != nil {
		log.Fatalf("Failed to mount stored specs: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.HandleFunc("/reload", server.HandleReload(mount))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mountsMu.RLock()
		handler, ok := mounted[r.URL.Path]
		mountsMu.RUnlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	})

	serveHTTP(addr, mux)
}

// withAuth injects a resolved credential into every request's context so the
// HTTP client can attach it on the outbound call.
func withAuth(next http.Handler, authCtx *auth.AuthContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithAuthContext(r.Context(), authCtx)))
	})
}

// serveHTTP runs the server until SIGINT/SIGTERM, then drains connections.
func serveHTTP(addr string, handler http.Handler) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		log.Fatalf("HTTP server error: %v", err)
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
}

// mountName derives a URL path segment for one spec file.
func mountName(specFile string) string {
	base := specFile
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	for _, suffix := range []string{".yaml", ".yml", ".json"} {
		base = strings.TrimSuffix(base, suffix)
	}
	if base == "" {
		base = "api"
	}
	return base
}
