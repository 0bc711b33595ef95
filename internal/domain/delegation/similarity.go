package delegation

import (
	"strings"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

// Similarity is the Jaccard index of two token sets: the size of their
// intersection over the size of their union. Two empty sets score 0.
func Similarity(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	union := len(setA)
	inter := 0
	for t := range setB {
		if setA[t] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// PhraseSimilarity compares two phrases as sets of lowercased words.
func PhraseSimilarity(a, b string) float64 {
	return Similarity(strings.Fields(strings.ToLower(a)), strings.Fields(strings.ToLower(b)))
}

// MatchScore rates how well a candidate fits a task: the mean phrase
// similarity over every pair of role skill and required skill. It is 0 when
// either side has no skills.
func MatchScore(c Candidate, t *workflow.Task) float64 {
	return scoreSkills(InferSkillsetFromRole(c.Role), InferRequiredSkillset(t))
}

func scoreSkills(have, need Skillset) float64 {
	if len(have) == 0 || len(need) == 0 {
		return 0
	}
	var total float64
	for _, h := range have {
		for _, n := range need {
			total += PhraseSimilarity(h, n)
		}
	}
	return total / float64(len(have)*len(need))
}

func toSet(tokens []string) map[string]bool {
	s := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		s[t] = true
	}
	return s
}
