// Package prompts implements the corbat MCP prompts.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to call the corbat tools in a fixed order. Unlike
// tools, which the AI calls, prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ImplementPrompt handles the corbat-implement MCP prompt.
// It has the AI load the standards context before writing any code.
type ImplementPrompt struct{}

// NewImplementPrompt creates an ImplementPrompt.
func NewImplementPrompt() *ImplementPrompt {
	return &ImplementPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ImplementPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("corbat-implement",
		mcp.WithPromptDescription(
			"Implement a task following your team's coding standards. "+
				"Loads the matching profile, guardrails and workflow before any code is written.",
		),
		mcp.WithArgument("task",
			mcp.ArgumentDescription("What to implement, in plain language"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the corbat-implement prompt request.
func (p *ImplementPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	taskText := ""
	if args := req.Params.Arguments; args != nil {
		taskText = strings.TrimSpace(args["task"])
	}
	if taskText == "" {
		return nil, fmt.Errorf("argument 'task' is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Implement: %s", taskText),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I need you to implement this task: %s\n\n"+
						"Please:\n"+
						"1. Call `get_context` with task=%q and project_dir set to the project root\n"+
						"2. Follow the returned guardrails, naming conventions and quality thresholds\n"+
						"3. Work through the workflow phases in order, starting with Clarify\n"+
						"4. When the code is written, call `validate` with the code and the task type from step 1\n"+
						"5. Fix anything the checklist flags before handing the change back to me",
					taskText, taskText,
				)),
			},
		},
	}, nil
}
