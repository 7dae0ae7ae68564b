package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corbat-tech/corbat-mcp/internal/config"
	"github.com/corbat-tech/corbat-mcp/internal/profile"
	"github.com/corbat-tech/corbat-mcp/internal/stack"
	"github.com/corbat-tech/corbat-mcp/internal/task"
)

// GetContextTool handles the get_context MCP tool.
// It classifies a task, resolves the profile that applies to it and
// renders the guardrails and workflow the assistant should follow.
type GetContextTool struct {
	profiles ProfileStore
	errs     ErrorPolicy
}

// NewGetContextTool creates a GetContextTool.
func NewGetContextTool(profiles ProfileStore, errs ErrorPolicy) *GetContextTool {
	return &GetContextTool{profiles: profiles, errs: errs}
}

// Definition returns the MCP tool definition for registration.
func (t *GetContextTool) Definition() mcp.Tool {
	return mcp.NewTool("get_context",
		mcp.WithDescription(
			"Get the coding standards context for a task. "+
				"Classifies the task (FEATURE, BUGFIX, REFACTOR, TEST), picks the profile "+
				"for the project and returns guardrails, conventions and a workflow. "+
				"Call this BEFORE writing code.",
		),
		mcp.WithString("task",
			mcp.Required(),
			mcp.Description("What you are about to do, in plain language (e.g. 'Create a payment service')"),
		),
		mcp.WithString("project_dir",
			mcp.Description("Absolute path of the project root. Used to detect the stack and read .corbat.json"),
		),
		mcp.WithString("profile",
			mcp.Description("Profile id to use. Overrides .corbat.json and stack detection"),
		),
	)
}

// Handle processes the get_context tool call.
func (t *GetContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskText := strings.TrimSpace(req.GetString("task", ""))
	if taskText == "" {
		return mcp.NewToolResultError("'task' is required: describe what you are about to do"), nil
	}
	projectDir := strings.TrimSpace(req.GetString("project_dir", ""))
	explicit := strings.TrimSpace(req.GetString("profile", ""))

	project, err := config.LoadProjectConfig(projectDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Could not read %s: %v", config.ProjectConfigFile, err)), nil
	}
	if explicit == "" && project != nil {
		explicit = strings.TrimSpace(project.Profile)
	}

	detected := stack.Detect(projectDir)
	classification := task.Classify(taskText)

	p, resolution, err := t.profiles.Resolve(ctx, explicit, detected)
	if err != nil {
		return t.errs.Result(err), nil
	}

	var b strings.Builder
	b.WriteString("# Corbat Context\n\n")
	fmt.Fprintf(&b, "**Task**: %s\n", taskText)
	fmt.Fprintf(&b, "**Task type**: %s\n", classification.Category)
	if len(classification.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, "**Matched keywords**: %s\n", strings.Join(classification.MatchedKeywords, ", "))
	} else {
		b.WriteString("**Matched keywords**: none (defaulted to FEATURE)\n")
	}
	fmt.Fprintf(&b, "**Profile**: %s (`%s`, %s)\n", p.Name, p.ID, describeResolution(resolution))
	if p.Architecture.Type != "" {
		fmt.Fprintf(&b, "**Architecture**: %s\n", p.Architecture.Type)
	}
	if detected != nil {
		fmt.Fprintf(&b, "**Detected stack**: %s (from `%s`)\n", detected, detected.MatchedFile)
	}

	b.WriteString("\n")
	b.WriteString(task.RenderGuardrails(classification.Category, p))

	if hasProjectRules(project) {
		b.WriteString("\n")
		writeProjectRules(&b, project)
	}

	b.WriteString("\n")
	b.WriteString(task.RenderWorkflow())

	out := b.String()
	return mcp.NewToolResultText(out + tokenFooter(out)), nil
}

func describeResolution(r profile.Resolution) string {
	switch r.Rule {
	case profile.ResolvedExplicit:
		return "explicitly requested"
	case profile.ResolvedStack:
		return fmt.Sprintf("matched stack %s", r.Stack)
	default:
		return "default"
	}
}

func hasProjectRules(p *config.ProjectConfig) bool {
	return !p.IsEmpty() && len(p.Rules.Always)+len(p.Rules.Never)+len(p.Decisions) > 0
}

// writeProjectRules renders the rules a project declares in .corbat.json.
func writeProjectRules(b *strings.Builder, p *config.ProjectConfig) {
	b.WriteString("## Project Rules\n")
	if len(p.Rules.Always) > 0 {
		b.WriteString("\n### ALWAYS\n\n")
		for _, r := range p.Rules.Always {
			fmt.Fprintf(b, "- %s\n", r)
		}
	}
	if len(p.Rules.Never) > 0 {
		b.WriteString("\n### NEVER\n\n")
		for _, r := range p.Rules.Never {
			fmt.Fprintf(b, "- %s\n", r)
		}
	}
	if len(p.Decisions) > 0 {
		b.WriteString("\n### Decisions\n\n")
		keys := make([]string, 0, len(p.Decisions))
		for k := range p.Decisions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "- **%s**: %s\n", k, p.Decisions[k])
		}
	}
}
