package task

import (
	"fmt"
	"strings"

	"github.com/corbat-tech/corbat-mcp/internal/profile"
)

var categoryChecks = map[Category][]string{
	Feature: {
		"New behavior is covered by tests",
		"Input from outside the process is validated",
		"Errors are handled or propagated, never ignored",
	},
	Bugfix: {
		"A regression test reproduces the original bug",
		"The diff is limited to the fix",
		"The root cause, not a symptom, is addressed",
	},
	Refactor: {
		"Observable behavior is unchanged",
		"Existing tests pass without modification",
		"No new features slipped in",
	},
	Test: {
		"Tests assert on behavior, not internals",
		"Tests are deterministic and independent",
		"Edge cases and error paths are covered",
	},
}

// RenderChecklist renders a static review checklist for c, extended with
// the profile's thresholds and conventions when p is non-nil. Nothing is
// checked automatically; the reviewer ticks the boxes.
func RenderChecklist(c Category, p *profile.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Review Checklist (%s)\n\n", c)
	checks, ok := categoryChecks[c]
	if !ok {
		checks = categoryChecks[Feature]
	}
	for _, item := range checks {
		fmt.Fprintf(&b, "- [ ] %s\n", item)
	}

	if p == nil {
		return b.String()
	}

	q := p.CodeQuality
	var quality []string
	if q.MaxMethodLines > 0 {
		quality = append(quality, fmt.Sprintf("Methods are at most %d lines", q.MaxMethodLines))
	}
	if q.MaxClassLines > 0 {
		quality = append(quality, fmt.Sprintf("Classes are at most %d lines", q.MaxClassLines))
	}
	if q.MaxFileLines > 0 {
		quality = append(quality, fmt.Sprintf("Files are at most %d lines", q.MaxFileLines))
	}
	if q.MaxMethodParameters > 0 {
		quality = append(quality, fmt.Sprintf("Methods take at most %d parameters", q.MaxMethodParameters))
	}
	if q.MaxCyclomaticComplexity > 0 {
		quality = append(quality, fmt.Sprintf("Cyclomatic complexity is at most %d", q.MaxCyclomaticComplexity))
	}
	if q.MinimumTestCoverage > 0 {
		quality = append(quality, fmt.Sprintf("Test coverage is at least %d%%", q.MinimumTestCoverage))
	}
	if q.RequireTests {
		quality = append(quality, "Tests are included with the change")
	}
	if q.RequireDocumentation {
		quality = append(quality, "Public API is documented")
	}
	if len(quality) > 0 {
		b.WriteString("\n### Code Quality\n\n")
		for _, item := range quality {
			fmt.Fprintf(&b, "- [ ] %s\n", item)
		}
	}

	if a := p.Architecture; len(a.Layers) > 0 {
		fmt.Fprintf(&b, "\n### Architecture (%s)\n\n", a.Type)
		for _, l := range a.Layers {
			if len(l.AllowedDependencies) == 0 {
				fmt.Fprintf(&b, "- [ ] `%s` has no dependencies on other layers\n", l.Name)
				continue
			}
			fmt.Fprintf(&b, "- [ ] `%s` depends only on %s\n", l.Name, strings.Join(l.AllowedDependencies, ", "))
		}
	}

	if len(p.Naming.Conventions) > 0 {
		b.WriteString("\n### Naming\n\n")
		for _, kind := range sortedKeys(p.Naming.Conventions) {
			fmt.Fprintf(&b, "- [ ] %s names use %s\n", kind, p.Naming.Conventions[kind])
		}
	}

	if p.Security.InputValidation || p.Security.OWASPTop10 {
		b.WriteString("\n### Security\n\n")
		if p.Security.InputValidation {
			b.WriteString("- [ ] All input is validated\n")
		}
		if p.Security.OWASPTop10 {
			b.WriteString("- [ ] No OWASP Top 10 issues (injection, broken auth, sensitive data exposure, ...)\n")
		}
	}

	return b.String()
}
