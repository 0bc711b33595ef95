package delegation

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

// NoteMarker prefixes every note line written by the delegation engine.
const NoteMarker = "[Auto Delegate]"

// LowConfidence is the score below which an assignment is flagged for review.
const LowConfidence = 0.05

var (
	// planningSkills mark a task as planning work.
	planningSkills = []string{"planning", "requirements", "analysis", "strategy", "management"}

	// plannerRole matches roles preferred for planning work. It is a plain
	// substring match, so "ba" also matches roles such as "backend".
	plannerRole = regexp.MustCompile(`manager|product|pm|기획|planner|analyst|ba`)
)

// Ranking is one candidate's standing for a task.
type Ranking struct {
	Candidate Candidate `json:"candidate"`
	Skills    Skillset  `json:"skills"`
	Score     float64   `json:"score"`
	Planner   bool      `json:"planner"`
}

// Explain returns every candidate ranked for the task in the order
// AutoDelegate would pick them, best first.
func Explain(t *workflow.Task, candidates []Candidate) []Ranking {
	return rank(InferRequiredSkillset(t), candidates)
}

// IsPlanningTask reports whether the required skills call for planner roles.
func IsPlanningTask(required Skillset) bool {
	for _, s := range planningSkills {
		if required.Has(s) {
			return true
		}
	}
	return false
}

func rank(required Skillset, candidates []Candidate) []Ranking {
	planning := IsPlanningTask(required)
	out := make([]Ranking, len(candidates))
	for i, c := range candidates {
		skills := InferSkillsetFromRole(c.Role)
		out[i] = Ranking{
			Candidate: c,
			Skills:    skills,
			Score:     scoreSkills(skills, required),
			Planner:   planning && plannerRole.MatchString(strings.ToLower(c.Role)),
		}
	}
	slices.SortStableFunc(out, func(a, b Ranking) int {
		if a.Planner != b.Planner {
			if a.Planner {
				return -1
			}
			return 1
		}
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		return strings.Compare(a.Candidate.Name, b.Candidate.Name)
	})
	return out
}

// AutoDelegate assigns tasks to candidates and returns the updated tasks.
// The input slice is left untouched.
//
// Without candidates, each unassigned task only gets a note saying so.
// Otherwise every unassigned task, or every task when force is set, goes to
// the best ranked candidate: planner roles first for planning work, then
// score, then name. The best candidate is always assigned; a score under
// LowConfidence is called out in the note. When force is set, earlier
// engine notes are removed before the new one is written.
func AutoDelegate(tasks []workflow.Task, candidates []Candidate, force bool) []workflow.Task {
	out := make([]workflow.Task, len(tasks))
	for i := range tasks {
		t := tasks[i]
		t.Output = slices.Clone(t.Output)
		out[i] = t
	}

	if len(candidates) == 0 {
		for i := range out {
			if !out[i].Assignee.IsAssigned() {
				out[i].Notes = appendNote(out[i].NotesText(), NoteMarker+" No assignees available.")
			}
		}
		return out
	}

	for i := range out {
		t := &out[i]
		if t.Assignee.IsAssigned() && !force {
			continue
		}

		notes := t.NotesText()
		if force {
			notes = stripEngineNotes(notes)
		}

		best := rank(InferRequiredSkillset(t), candidates)[0]
		c := best.Candidate
		t.Assignee = workflow.AssignedTo(c.Name, c.Email, c.Role)
		t.Notes = appendNote(notes, assignmentNote(best))
	}
	return out
}

func assignmentNote(r Ranking) string {
	label := "low confidence - please review"
	if r.Score >= LowConfidence {
		label = fmt.Sprintf("%d%% confidence", int(math.Round(r.Score*100)))
	}
	return fmt.Sprintf("%s Assigned to %s (%s)", NoteMarker, r.Candidate.Name, label)
}

func stripEngineNotes(notes string) string {
	lines := strings.Split(notes, "\n")
	kept := lines[:0:0]
	for _, l := range lines {
		if !strings.Contains(l, NoteMarker) {
			kept = append(kept, l)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func appendNote(notes, line string) *string {
	if notes != "" {
		line = notes + "\n" + line
	}
	return &line
}
