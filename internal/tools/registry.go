package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/corbat-tech/corbat-mcp/internal/logging"
)

// Tool is implemented by every tool in this package.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type registered struct {
	definition mcp.Tool
	handler    server.ToolHandlerFunc
}

// Registry holds the tools in registration order. The MCP server and
// the CLI dispatch through the same wrapped handlers.
type Registry struct {
	tools map[string]registered
	order []string
}

// NewRegistry creates a Registry. A nil logger discards call logs.
func NewRegistry(logger *logging.AppLogger, tools ...Tool) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	r := &Registry{tools: make(map[string]registered, len(tools))}
	for _, t := range tools {
		def := t.Definition()
		if _, dup := r.tools[def.Name]; dup {
			panic(fmt.Sprintf("tools: duplicate tool %q", def.Name))
		}
		r.tools[def.Name] = registered{
			definition: def,
			handler:    withLogging(logger, def.Name, t.Handle),
		}
		r.order = append(r.order, def.Name)
	}
	return r
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Register adds every tool to s.
func (r *Registry) Register(s *server.MCPServer) {
	for _, name := range r.order {
		t := r.tools[name]
		s.AddTool(t.definition, t.handler)
	}
}

// Call invokes the named tool with args. An unknown name yields an error
// result listing the valid names.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	t, ok := r.tools[name]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf(
			"unknown tool %q: valid tools are %s", name, strings.Join(r.order, ", "))), nil
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return t.handler(ctx, req)
}
