// Package delegation assigns workflow tasks to candidate assignees by
// inferring skillsets from free text and ranking candidates on skill
// overlap. The keyword tables are fixed data: the same text always yields
// the same skillset.
package delegation

// Candidate is a person a task may be delegated to. Role is free text.
type Candidate struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role" yaml:"role"`
}
