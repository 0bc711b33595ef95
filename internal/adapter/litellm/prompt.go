package litellm

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/Strob0t/taskgraph/internal/port/generator"
)

const systemPrompt = `You turn a team's request into a workflow: a directed acyclic graph of tasks.

Definitions:
- task: the smallest unit of work one person can complete.
- flow: a "depends_on" edge; "from" must finish before "to" starts.
- assignee: the person responsible for a task, chosen from the assignee list.

Rules:
- Break the request into atomic tasks. Give each a short name and a 2-3 sentence
  description saying what to do and which deliverable is expected.
- Task IDs match ^[a-z0-9][a-z0-9-]{2,62}$ and are unique.
- Leave "output" as an empty list; people fill it in when they finish.
- Pick the best assignee for each task by matching the task to the assignee's
  role. When nobody fits, set the assignee status to "unassigned", all other
  assignee fields to null, and put the recommended role in "notes".
- Every flow must reference existing task IDs and the flows must stay acyclic.
- When modifying, change only what the request asks for. Keep task IDs,
  statuses, assignees and outputs of untouched tasks exactly as they are and
  keep the workflow name unless asked to rename it.

Reply with JSON only, in this format:
{
  "workflow_name": "string",
  "tasks": [
    {
      "id": "string",
      "name": "string",
      "description": "string",
      "output": [],
      "deadline": "YYYY-MM-DD or null",
      "status": "PENDING|IN_PROGRESS|COMPLETED|DONE",
      "assignee": {"name": "string|null", "email": "string|null", "role": "string|null", "status": "assigned|unassigned"},
      "notes": "string|null"
    }
  ],
  "flows": [{"from": "task_id", "to": "task_id", "type": "depends_on"}],
  "checks": {"is_dag": true, "has_unassigned": false, "messages": []}
}`

// buildUserPrompt renders the request: action, assignee list, the workflow
// to modify (if any) and the instruction.
func buildUserPrompt(req generator.Request) (string, error) {
	var b strings.Builder

	action := "create a new workflow"
	if req.Existing != nil {
		action = "modify the workflow below"
	}
	fmt.Fprintf(&b, "Action: %s.\n\n<assignee-list>\n", action)
	for _, c := range req.Candidates {
		fmt.Fprintf(&b, "  <assignee name=%q email=%q role=%q />\n",
			html.EscapeString(c.Name), html.EscapeString(c.Email), html.EscapeString(c.Role))
	}
	b.WriteString("</assignee-list>\n")

	if req.Existing != nil {
		data, err := json.MarshalIndent(req.Existing, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal existing workflow: %w", err)
		}
		fmt.Fprintf(&b, "\n<workflow>\n%s\n</workflow>\n", data)
	}

	fmt.Fprintf(&b, "\n<request>%s</request>\n", req.Instruction)
	return b.String(), nil
}

// extractJSON returns the JSON object in a model reply, tolerating code
// fences and text around it.
func extractJSON(reply string) (string, error) {
	s := strings.TrimSpace(reply)
	if after, ok := strings.CutPrefix(s, "```"); ok {
		s = strings.TrimPrefix(after, "json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in reply (%d bytes)", len(reply))
	}
	return s[start : end+1], nil
}
