package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the corbat-review MCP prompt.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("corbat-review",
		mcp.WithPromptDescription("Review code against your team's coding standards."),
		mcp.WithArgument("code",
			mcp.ArgumentDescription("The code to review"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("task_type",
			mcp.ArgumentDescription("FEATURE, BUGFIX, REFACTOR or TEST. Default: FEATURE"),
		),
	)
}

// Handle processes the corbat-review prompt request.
func (p *ReviewPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	code := ""
	taskType := "FEATURE"
	if args := req.Params.Arguments; args != nil {
		code = args["code"]
		if tt := strings.TrimSpace(args["task_type"]); tt != "" {
			taskType = strings.ToUpper(tt)
		}
	}
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("argument 'code' is required")
	}

	return &mcp.GetPromptResult{
		Description: "Review code against coding standards",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please review this code:\n\n```\n%s\n```\n\n"+
						"1. Call `validate` with this code and task_type=%s\n"+
						"2. Go through every checklist item and mark it as passing or failing, quoting the offending lines\n"+
						"3. Use `search` to cite the relevant standard for each failure\n"+
						"4. Finish with a prioritised list of fixes",
					strings.TrimRight(code, "\n"), taskType,
				)),
			},
		},
	}, nil
}
