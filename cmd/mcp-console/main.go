// Command mcp-console is an interactive shell over a converted tool catalog.
// It loads an OpenAPI description, builds the catalog, and lets an operator
// list tools, inspect schemas, and invoke tools against the live upstream.
//
// Usage:
//
//	mcp-console petstore.yaml
//	> list
//	> schema getPetById
//	> call getPetById {"petId": 42}
//	> call listPets limit=5
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cast"

	"github.com/ubermorgenland/anyapi-mcp/pkg/client"
	"github.com/ubermorgenland/anyapi-mcp/pkg/config"
	"github.com/ubermorgenland/anyapi-mcp/pkg/openapi2mcp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: mcp-console <spec-file-or-url>")
		os.Exit(1)
	}

	doc, err := openapi2mcp.LoadOpenAPISpec(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to load spec: %v", err)
	}
	catalog := openapi2mcp.BuildCatalog(doc)
	fmt.Printf("Loaded %s, %d tools\n", openapi2mcp.DescribeSpec(doc), catalog.Len())

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.BaseURL == "" && len(doc.Servers) > 0 && doc.Servers[0] != nil {
		cfg.BaseURL = doc.Servers[0].URL
	}
	httpClient := client.New(cfg)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     "/tmp/mcp-console.history",
		InterruptPrompt: "^C",
	})
	if err != nil {
		log.Fatalf("Failed to start console: %v", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		runCommand(catalog, httpClient, line)
	}
}

func runCommand(catalog *openapi2mcp.ToolCatalog, httpClient *client.HTTPClient, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "help":
		fmt.Println("commands: list | schema <tool> | call <tool> [json|key=value ...] | exit")
	case "list":
		for _, def := range catalog.All() {
			fmt.Printf("%-40s %-6s %s\n", def.Tool.Name, def.Method, def.Path)
		}
	case "schema":
		if len(fields) < 2 {
			fmt.Println("usage: schema <tool>")
			return
		}
		def, ok := catalog.ByName(fields[1])
		if !ok {
			fmt.Printf("unknown tool: %s\n", fields[1])
			return
		}
		printJSON(def.Tool.InputSchema)
	case "call":
		if len(fields) < 2 {
			fmt.Println("usage: call <tool> [json|key=value ...]")
			return
		}
		def, ok := catalog.ByName(fields[1])
		if !ok {
			fmt.Printf("unknown tool: %s\n", fields[1])
			return
		}
		args, err := parseArgs(fields[2:], line)
		if err != nil {
			fmt.Printf("bad arguments: %v\n", err)
			return
		}
		value, err := httpClient.ExecuteTool(context.Background(), def.Method, def.Path, args)
		if err != nil {
			fmt.Printf("call failed: %v\n", err)
			return
		}
		printJSON(value)
	default:
		fmt.Printf("unknown command: %s (try 'help')\n", fields[0])
	}
}

// parseArgs accepts either one JSON object (everything after the tool name)
// or a sequence of key=value pairs. Pair values that parse as JSON keep
// their parsed type; everything else stays a string.
func parseArgs(rest []string, line string) (map[string]any, error) {
	args := map[string]any{}
	if len(rest) == 0 {
		return args, nil
	}

	if strings.HasPrefix(rest[0], "{") {
		jsonStart := strings.IndexByte(line, '{')
		if err := json.Unmarshal([]byte(line[jsonStart:]), &args); err != nil {
			return nil, err
		}
		return args, nil
	}

	for _, pair := range rest {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err == nil {
			args[key] = parsed
		} else {
			args[key] = cast.ToString(value)
		}
	}
	return args, nil
}

func printJSON(value any) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", value)
		return
	}
	fmt.Println(string(data))
}
