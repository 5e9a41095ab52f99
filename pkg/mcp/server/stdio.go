package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single JSON-RPC line on stdin. Large tool arguments
// (inline file uploads) fit comfortably below this.
const maxLineSize = 16 * 1024 * 1024

// ServeStdio runs the server over line-delimited JSON-RPC on the process
// standard streams until stdin is closed. Diagnostics must go to stderr; only
// protocol frames are written to stdout.
func ServeStdio(server *MCPServer) error {
	return serveStdio(context.Background(), server, os.Stdin, os.Stdout)
}

func serveStdio(ctx context.Context, server *MCPServer, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response := server.HandleMessage(ctx, line)
		if response == nil {
			continue // notification
		}
		if err := encoder.Encode(response); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdin read error: %w", err)
	}
	return nil
}
