package task

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/corbat-tech/corbat-mcp/internal/profile"
)

// Guardrail is the MUST/AVOID rule set for a category.
type Guardrail struct {
	Must  []string
	Avoid []string
}

var guardrails = map[Category]Guardrail{
	Feature: {
		Must: []string{
			"Write tests alongside the implementation",
			"Respect the profile's architecture layers and dependency direction",
			"Validate all external input at the boundary",
			"Keep methods small and focused on a single responsibility",
			"Document public types and functions",
		},
		Avoid: []string{
			"Adding dependencies without a clear need",
			"Putting business logic in controllers or adapters",
			"Premature optimization",
			"Swallowing errors or leaving failure paths unhandled",
		},
	},
	Bugfix: {
		Must: []string{
			"Reproduce the bug with a failing test before changing code",
			"Fix the root cause with the smallest possible diff",
			"Keep the reproducing test as a regression test",
			"Check for the same defect in similar code paths",
		},
		Avoid: []string{
			"Refactoring unrelated code in the same change",
			"Patching symptoms instead of the root cause",
			"Changing public contracts to make the fix easier",
			"Deleting or weakening tests to get a green build",
		},
	},
	Refactor: {
		Must: []string{
			"Preserve observable behavior: tests pass before and after",
			"Confirm test coverage exists before touching the code",
			"Move in small steps that each leave the build green",
			"Move names and structure toward the profile's conventions",
		},
		Avoid: []string{
			"Mixing behavior changes into the refactoring",
			"Big-bang rewrites",
			"Breaking public APIs without a migration path",
			"Sneaking in new features",
		},
	},
	Test: {
		Must: []string{
			"Test behavior, not implementation details",
			"Cover edge cases and error paths, not only the happy path",
			"Keep each test deterministic and independent",
			"Give tests names that describe the scenario and expectation",
		},
		Avoid: []string{
			"Asserting on private internals",
			"Sleeping or depending on wall-clock timing",
			"Sharing mutable state between tests",
			"Mocking types you do not own",
		},
	},
}

// GuardrailsFor returns the static rule set for c. Unknown categories
// get the FEATURE rules.
func GuardrailsFor(c Category) Guardrail {
	if g, ok := guardrails[c]; ok {
		return g
	}
	return guardrails[Feature]
}

// RenderGuardrails renders the category's MUST/AVOID rules followed by
// the profile-derived sections. A section whose profile data is absent
// is left out entirely.
func RenderGuardrails(c Category, p *profile.Profile) string {
	var b strings.Builder
	g := GuardrailsFor(c)

	b.WriteString("## Guardrails\n\n")
	b.WriteString("### MUST\n\n")
	for _, r := range g.Must {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\n### AVOID\n\n")
	for _, r := range g.Avoid {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	if p == nil {
		return b.String()
	}

	writeArchitecture(&b, p)
	writeNaming(&b, &p.Naming)
	writeThresholds(&b, &p.CodeQuality)

	return b.String()
}

func writeArchitecture(b *strings.Builder, p *profile.Profile) {
	a := p.Architecture
	if a.Type == "" && len(a.Layers) == 0 {
		return
	}

	b.WriteString("\n### Architecture\n\n")
	if a.Type != "" {
		fmt.Fprintf(b, "- **Style**: %s (`%s`)\n", cases.Title(language.English).String(string(a.Type)), a.Type)
	}
	if a.EnforceLayerDependencies {
		b.WriteString("- **Layer dependencies**: enforced\n")
	}
	if len(a.Layers) > 0 {
		b.WriteString("- **Layers**:\n")
		for _, l := range a.Layers {
			deps := "nothing"
			if len(l.AllowedDependencies) > 0 {
				deps = strings.Join(l.AllowedDependencies, ", ")
			}
			fmt.Fprintf(b, "  - `%s` may depend on %s\n", l.Name, deps)
		}
	}
	if p.DDD.Enabled {
		if patterns := p.DDD.Patterns.Enabled(); len(patterns) > 0 {
			fmt.Fprintf(b, "- **DDD**: %s\n", strings.Join(patterns, ", "))
		} else {
			b.WriteString("- **DDD**: enabled\n")
		}
	}
	if p.CQRS.Enabled {
		fmt.Fprintf(b, "- **CQRS**: %s separation", p.CQRS.Separation)
		if p.CQRS.Patterns.Command != "" {
			fmt.Fprintf(b, ", commands `%s`", p.CQRS.Patterns.Command)
		}
		if p.CQRS.Patterns.Query != "" {
			fmt.Fprintf(b, ", queries `%s`", p.CQRS.Patterns.Query)
		}
		b.WriteString("\n")
	}
}

func writeNaming(b *strings.Builder, n *profile.Naming) {
	if len(n.Conventions) == 0 && len(n.Overrides) == 0 {
		return
	}

	b.WriteString("\n### Naming Conventions\n\n")
	for _, kind := range sortedKeys(n.Conventions) {
		fmt.Fprintf(b, "- **%s**: %s\n", kind, n.Conventions[kind])
	}
	for _, scope := range sortedKeys(n.Overrides) {
		styles := n.Overrides[scope]
		parts := make([]string, 0, len(styles))
		for _, kind := range sortedKeys(styles) {
			parts = append(parts, fmt.Sprintf("%s %s", kind, styles[kind]))
		}
		fmt.Fprintf(b, "- **%s overrides**: %s\n", scope, strings.Join(parts, ", "))
	}
}

func writeThresholds(b *strings.Builder, q *profile.CodeQuality) {
	lines := thresholdLines(q)
	if len(lines) == 0 {
		return
	}

	b.WriteString("\n### Quality Thresholds\n\n")
	for _, l := range lines {
		fmt.Fprintf(b, "- %s\n", l)
	}
}

func thresholdLines(q *profile.CodeQuality) []string {
	var lines []string
	if q.MinimumTestCoverage > 0 {
		lines = append(lines, fmt.Sprintf("Minimum test coverage: %d%%", q.MinimumTestCoverage))
	}
	for _, t := range []struct {
		label string
		value int
	}{
		{"Max method lines", q.MaxMethodLines},
		{"Max class lines", q.MaxClassLines},
		{"Max file lines", q.MaxFileLines},
		{"Max method parameters", q.MaxMethodParameters},
		{"Max cyclomatic complexity", q.MaxCyclomaticComplexity},
	} {
		if t.value > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", t.label, t.value))
		}
	}
	if len(q.Principles) > 0 {
		lines = append(lines, "Principles: "+strings.Join(q.Principles, ", "))
	}
	return lines
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
