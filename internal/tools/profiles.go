package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corbat-tech/corbat-mcp/internal/profile"
)

// ProfilesTool handles the profiles MCP tool.
// Without an id it lists every profile; with one it dumps that profile
// as YAML after defaults have been applied.
type ProfilesTool struct {
	profiles ProfileStore
	errs     ErrorPolicy
}

// NewProfilesTool creates a ProfilesTool.
func NewProfilesTool(profiles ProfileStore, errs ErrorPolicy) *ProfilesTool {
	return &ProfilesTool{profiles: profiles, errs: errs}
}

// Definition returns the MCP tool definition for registration.
func (t *ProfilesTool) Definition() mcp.Tool {
	return mcp.NewTool("profiles",
		mcp.WithDescription(
			"List the available coding standard profiles, or show one in full. "+
				"Custom profiles shadow templates with the same id.",
		),
		mcp.WithString("profile_id",
			mcp.Description("Profile id to show. Omit to list all profiles"),
		),
	)
}

// Handle processes the profiles tool call.
func (t *ProfilesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := strings.TrimSpace(req.GetString("profile_id", "")); id != "" {
		return t.show(ctx, id)
	}

	summaries, err := t.profiles.List(ctx)
	if err != nil {
		return t.errs.Result(err), nil
	}
	if len(summaries) == 0 {
		return mcp.NewToolResultText(
			"No profiles installed. Add YAML files to the templates or custom profile directory."), nil
	}

	defaultID := t.profiles.DefaultProfileID()

	var b strings.Builder
	fmt.Fprintf(&b, "# Profiles (%d)\n\n", len(summaries))
	b.WriteString("| ID | Name | Source | Description |\n")
	b.WriteString("|----|------|--------|-------------|\n")
	for _, s := range summaries {
		id := "`" + s.ID + "`"
		if s.ID == defaultID {
			id += " (default)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", id, cell(s.Name), s.Source, cell(s.Description))
	}
	b.WriteString("\nCall `profiles` with a `profile_id` to see the full definition.\n")

	return mcp.NewToolResultText(b.String()), nil
}

func (t *ProfilesTool) show(ctx context.Context, id string) (*mcp.CallToolResult, error) {
	p, err := t.profiles.Load(ctx, id)
	if err != nil {
		return t.errs.Result(err), nil
	}
	data, err := profile.Marshal(p)
	if err != nil {
		return t.errs.Result(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Profile: %s\n\n", p.Name)
	fmt.Fprintf(&b, "**ID**: `%s`\n", p.ID)
	if p.Description != "" {
		fmt.Fprintf(&b, "**Description**: %s\n", p.Description)
	}
	b.WriteString("\n```yaml\n")
	b.Write(data)
	b.WriteString("```\n")

	out := b.String()
	return mcp.NewToolResultText(out + tokenFooter(out)), nil
}

// cell makes s safe to place inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}
