// Corbat: coding standards MCP server
//
// Serves coding-standard profiles, guardrails and a searchable standards
// corpus to any MCP-capable AI coding tool over stdio. The same tools are
// available from the command line for scripting and debugging.
//
// Usage:
//
//	corbat-mcp serve                      # Start MCP server (stdio transport)
//	corbat-mcp context "Fix login crash"  # Print the context bundle for a task
//	corbat-mcp search kafka retries       # Search the standards
//	corbat-mcp profiles [id]              # List profiles or show one
//	corbat-mcp call <tool> [json-args]    # Invoke any tool by name
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
