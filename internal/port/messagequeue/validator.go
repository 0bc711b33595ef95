package messagequeue

import (
	"encoding/json"
	"fmt"
)

// Validate checks whether data is valid JSON conforming to the schema
// associated with the given subject. Unknown subjects pass validation.
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}

	switch subject {
	case SubjectWorkflowDelegate:
		var p DelegateRequestPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("schema validation failed for %s: %w", subject, err)
		}
		if p.WorkflowID == "" {
			return fmt.Errorf("schema validation failed for %s: workflow_id is required", subject)
		}
		return nil
	case SubjectWorkflowUpdated, SubjectWorkflowDeleted:
		return unmarshalInto(subject, data, &WorkflowEventPayload{})
	case SubjectWorkflowDelegated:
		return unmarshalInto(subject, data, &DelegatedPayload{})
	case SubjectWorkflowGenerated:
		return unmarshalInto(subject, data, &GeneratedPayload{})
	default:
		return nil
	}
}

func unmarshalInto(subject string, data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", subject, err)
	}
	return nil
}
