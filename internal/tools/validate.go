package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corbat-tech/corbat-mcp/internal/task"
)

// ValidateTool handles the validate MCP tool.
// It returns a review checklist for a piece of code. The code is never
// executed or analysed; the checklist is for the assistant to apply.
type ValidateTool struct {
	profiles ProfileStore
	errs     ErrorPolicy
}

// NewValidateTool creates a ValidateTool.
func NewValidateTool(profiles ProfileStore, errs ErrorPolicy) *ValidateTool {
	return &ValidateTool{profiles: profiles, errs: errs}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("validate",
		mcp.WithDescription(
			"Get a review checklist for code against the active profile. "+
				"Returns the checks to walk through; the code itself is not executed or linted.",
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The code to review"),
		),
		mcp.WithString("task_type",
			mcp.Description("Kind of change: FEATURE, BUGFIX, REFACTOR or TEST. Defaults to FEATURE"),
		),
		mcp.WithString("profile",
			mcp.Description("Profile id to check against. Defaults to the configured default profile"),
		),
	)
}

// Handle processes the validate tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := req.GetString("code", "")
	if strings.TrimSpace(code) == "" {
		return mcp.NewToolResultError("'code' is required: paste the code to review"), nil
	}

	category := task.Feature
	if raw := strings.TrimSpace(req.GetString("task_type", "")); raw != "" {
		c, err := task.ParseCategory(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		category = c
	}

	p, _, err := t.profiles.Resolve(ctx, req.GetString("profile", ""), nil)
	if err != nil {
		return t.errs.Result(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Validation: %s\n\n", p.Name)
	fmt.Fprintf(&b, "**Profile**: `%s`\n", p.ID)
	fmt.Fprintf(&b, "**Task type**: %s\n", category)
	lines := countLines(code)
	fmt.Fprintf(&b, "**Lines of code**: %d", lines)
	if limit := p.CodeQuality.MaxFileLines; limit > 0 && lines > limit {
		fmt.Fprintf(&b, " (exceeds the %d line file limit)", limit)
	}
	b.WriteString("\n\n")

	b.WriteString(task.RenderChecklist(category, p))

	b.WriteString("\n## Code\n\n```\n")
	b.WriteString(strings.TrimRight(code, "\n"))
	b.WriteString("\n```\n\n")
	b.WriteString("> This is a static checklist. Walk through each item against the code above; nothing was run or linted.\n")

	out := b.String()
	return mcp.NewToolResultText(out + tokenFooter(out)), nil
}
