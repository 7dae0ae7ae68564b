package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// ProfileCounter reports how many profiles are installed.
type ProfileCounter interface {
	Count(ctx context.Context) (int, error)
}

// HealthInfo is the static part of the health report.
type HealthInfo struct {
	Version      string
	Environment  string
	ProfilesDir  string
	StandardsDir string
	CacheTTL     time.Duration
	StartedAt    time.Time
}

// HealthTool handles the health MCP tool.
// Subsystem failures are reported inside the text as DEGRADED lines so
// the caller always gets a full report.
type HealthTool struct {
	profiles  ProfileCounter
	standards StandardsIndex
	info      HealthInfo
	now       func() time.Time
}

// NewHealthTool creates a HealthTool. A nil now means time.Now.
func NewHealthTool(profiles ProfileCounter, standards StandardsIndex, info HealthInfo, now func() time.Time) *HealthTool {
	if now == nil {
		now = time.Now
	}
	return &HealthTool{profiles: profiles, standards: standards, info: info, now: now}
}

// Definition returns the MCP tool definition for registration.
func (t *HealthTool) Definition() mcp.Tool {
	return mcp.NewTool("health",
		mcp.WithDescription(
			"Report server health: version, configured directories, installed profiles, "+
				"indexed standards and cache settings.",
		),
	)
}

// Handle processes the health tool call.
func (t *HealthTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var problems []string

	var b strings.Builder
	b.WriteString("# Corbat Health\n\n")
	fmt.Fprintf(&b, "- **Version**: %s\n", t.info.Version)
	fmt.Fprintf(&b, "- **Environment**: %s\n", t.info.Environment)
	fmt.Fprintf(&b, "- **Profiles dir**: `%s`\n", t.info.ProfilesDir)
	fmt.Fprintf(&b, "- **Standards dir**: `%s`\n", t.info.StandardsDir)

	if n, err := t.profiles.Count(ctx); err != nil {
		problems = append(problems, fmt.Sprintf("profiles: %v", err))
	} else {
		fmt.Fprintf(&b, "- **Profiles**: %d\n", n)
		if n == 0 {
			problems = append(problems, "profiles: no profiles installed")
		}
	}

	if st, err := t.standards.Stats(ctx); err != nil {
		problems = append(problems, fmt.Sprintf("standards: %v", err))
	} else {
		fmt.Fprintf(&b, "- **Standards**: %d documents in %d categories\n", st.Documents, st.Categories)
	}

	if t.info.CacheTTL > 0 {
		fmt.Fprintf(&b, "- **Cache TTL**: %s\n", t.info.CacheTTL)
	} else {
		b.WriteString("- **Cache TTL**: disabled\n")
	}
	if !t.info.StartedAt.IsZero() {
		fmt.Fprintf(&b, "- **Uptime**: %s\n", t.now().Sub(t.info.StartedAt).Truncate(time.Second))
	}

	b.WriteString("\n")
	if len(problems) == 0 {
		b.WriteString("**Status**: OK\n")
	} else {
		b.WriteString("**Status**: DEGRADED\n\n")
		for _, p := range problems {
			fmt.Fprintf(&b, "- DEGRADED %s\n", p)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
