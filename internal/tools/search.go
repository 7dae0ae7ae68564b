package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corbat-tech/corbat-mcp/internal/standards"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// SearchTool handles the search MCP tool.
type SearchTool struct {
	index StandardsIndex
	errs  ErrorPolicy
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(index StandardsIndex, errs ErrorPolicy) *SearchTool {
	return &SearchTool{index: index, errs: errs}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription(
			"Search the coding standards documentation by keyword. "+
				"Title matches rank above body matches.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Keywords to search for (e.g. 'kafka retries')"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 10, max 50)"),
		),
	)
}

// Handle processes the search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(req.GetString("query", ""))
	if query == "" {
		return mcp.NewToolResultError(standards.ErrInvalidQuery.Error()), nil
	}
	limit := clampLimit(int(req.GetFloat("limit", defaultSearchLimit)))

	results, err := t.index.Search(ctx, query)
	if err != nil {
		if errors.Is(err, standards.ErrInvalidQuery) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return t.errs.Result(err), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No standards found for %q. Try broader keywords, or call `profiles` to browse what is available.", query)), nil
	}

	total := len(results)
	if total > limit {
		results = results[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search: %s\n\n", query)
	if total > limit {
		fmt.Fprintf(&b, "Showing %d of %d results.\n\n", limit, total)
	} else {
		fmt.Fprintf(&b, "%d result(s).\n\n", total)
	}
	for i, r := range results {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "**Category**: %s | **Score**: %d\n", r.Category, r.Score)
		if r.Path != "" {
			fmt.Fprintf(&b, "**Path**: `%s`\n", r.Path)
		}
		if r.Snippet != "" {
			fmt.Fprintf(&b, "\n%s\n", r.Snippet)
		}
		b.WriteString("\n")
	}

	out := strings.TrimRight(b.String(), "\n") + "\n"
	return mcp.NewToolResultText(out + tokenFooter(out)), nil
}

// clampLimit keeps limit within 1..maxSearchLimit.
func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > maxSearchLimit:
		return maxSearchLimit
	default:
		return limit
	}
}
