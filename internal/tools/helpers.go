// Package tools implements the corbat MCP tool handlers.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition and Handle for registration with
// mcp-go. User-facing failures are returned as tool error results, never
// as Go errors.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corbat-tech/corbat-mcp/internal/profile"
	"github.com/corbat-tech/corbat-mcp/internal/resilience"
	"github.com/corbat-tech/corbat-mcp/internal/stack"
	"github.com/corbat-tech/corbat-mcp/internal/standards"
)

// ProfileStore is the profile access the tools need.
type ProfileStore interface {
	Resolve(ctx context.Context, explicitID string, detected *stack.Result) (*profile.Profile, profile.Resolution, error)
	Load(ctx context.Context, id string) (*profile.Profile, error)
	List(ctx context.Context) ([]profile.Summary, error)
	DefaultProfileID() string
}

// StandardsIndex is the standards access the tools need.
type StandardsIndex interface {
	Search(ctx context.Context, query string) ([]standards.Result, error)
	Stats(ctx context.Context) (standards.Stats, error)
}

// ErrorPolicy controls how much detail error results carry.
type ErrorPolicy struct {
	// Verbose appends the underlying error text to user messages.
	Verbose bool
}

// Result builds an error tool result for err.
func (p ErrorPolicy) Result(err error) *mcp.CallToolResult {
	msg := userMessage(err)
	if p.Verbose {
		msg += "\n\nDetails: " + err.Error()
	}
	return mcp.NewToolResultError(msg)
}

// userMessage turns a domain error into text an agent can act on.
func userMessage(err error) string {
	var notFound *profile.NotFoundError
	var invalid *profile.ValidationError
	var parseErr *profile.ParseError

	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Profile %q not found. Call the `profiles` tool to see the available profile ids.", notFound.ID)
	case errors.As(err, &invalid):
		var b strings.Builder
		fmt.Fprintf(&b, "Profile %q is invalid:\n", invalid.ProfileID)
		for _, f := range invalid.Fields {
			fmt.Fprintf(&b, "- %s\n", f.String())
		}
		return strings.TrimRight(b.String(), "\n")
	case errors.As(err, &parseErr):
		if line := parseErr.Line(); line > 0 {
			return fmt.Sprintf("Profile %q is not valid YAML (line %d: %s). Fix the file and try again.",
				parseErr.ProfileID, line, parseErr.Reason())
		}
		return fmt.Sprintf("Profile %q is not valid YAML (%s). Fix the file and try again.",
			parseErr.ProfileID, parseErr.Reason())
	case errors.Is(err, standards.ErrInvalidQuery):
		return standards.ErrInvalidQuery.Error()
	case errors.Is(err, resilience.ErrTransientIO):
		return "The file system was busy and the read kept failing. Please retry in a moment."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was cancelled before it completed."
	default:
		return "Unexpected error while handling the request."
	}
}

// estimateTokens approximates the token count with the chars/4 heuristic.
func estimateTokens(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// tokenFooter returns a one-line footer with the estimated token count
// of a response.
func tokenFooter(text string) string {
	return fmt.Sprintf("\n📏 ~%s tokens", formatNumber(estimateTokens(text)))
}

// formatNumber formats an integer with comma separators.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}
	var out []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, byte(c))
	}
	return string(out)
}

// countLines counts lines the way an editor shows them.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
