package task

const workflow = `## Workflow

1. **Clarify**: restate the task, list assumptions and ask about anything ambiguous.
2. **Plan**: outline the change, the files involved and the tests that will prove it.
3. **Build**: implement in small steps, following the guardrails above.
4. **Verify**: run the tests and check the quality thresholds.
5. **Review**: re-read the diff against the profile before handing it over.
`

// RenderWorkflow returns the fixed five-phase workflow.
func RenderWorkflow() string {
	return workflow
}
