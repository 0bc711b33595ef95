package delegation

import (
	"strings"
	"unicode/utf8"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

// Skillset is a deduplicated list of skill tokens in discovery order.
type Skillset []string

// Has reports whether token is in the set.
func (s Skillset) Has(token string) bool {
	for _, t := range s {
		if t == token {
			return true
		}
	}
	return false
}

type keywordSkills struct {
	keyword string
	skills  []string
}

// roleKeywords maps role text fragments to the skills they imply.
var roleKeywords = []keywordSkills{
	// management and planning
	{"manager", []string{"management", "planning", "coordination", "leadership", "organization", "requirements", "strategy"}},
	{"product", []string{"product", "requirements", "planning", "strategy", "roadmap", "analysis", "features"}},
	{"pm", []string{"product", "requirements", "planning", "strategy", "management", "coordination"}},
	{"project", []string{"planning", "coordination", "management", "requirements", "organization"}},
	{"기획", []string{"planning", "requirements", "strategy", "product", "management", "analysis"}},
	{"planner", []string{"planning", "requirements", "strategy", "organization"}},

	// analysis
	{"analyst", []string{"analysis", "research", "data", "insights", "reporting", "requirements"}},
	{"ba", []string{"analysis", "requirements", "planning", "business", "documentation"}},
	{"분석가", []string{"analysis", "research", "requirements", "insights"}},

	// development
	{"developer", []string{"coding", "programming", "development", "technical", "implementation"}},
	{"engineer", []string{"coding", "programming", "development", "technical", "implementation", "architecture"}},
	{"frontend", []string{"frontend", "ui", "web", "javascript", "react", "css", "development"}},
	{"backend", []string{"backend", "server", "api", "database", "architecture", "development"}},
	{"fullstack", []string{"frontend", "backend", "web", "development", "full-stack"}},
	{"개발자", []string{"coding", "programming", "development", "technical", "implementation"}},

	// design
	{"designer", []string{"design", "ui", "ux", "visual", "graphics", "creative"}},
	{"디자이너", []string{"design", "ui", "ux", "visual", "creative"}},

	// marketing and sales
	{"marketing", []string{"marketing", "promotion", "content", "advertising", "communication"}},
	{"sales", []string{"sales", "business", "client", "revenue", "negotiation"}},

	// qa
	{"qa", []string{"testing", "quality", "validation", "verification", "bug"}},
	{"tester", []string{"testing", "quality", "qa", "validation"}},

	// devops
	{"devops", []string{"deployment", "infrastructure", "automation", "ci/cd", "operations"}},
	{"ops", []string{"operations", "deployment", "infrastructure", "maintenance"}},

	{"data", []string{"data", "analytics", "analysis", "statistics", "insights"}},

	// writing
	{"writer", []string{"writing", "content", "documentation", "communication", "creative"}},
	{"technical writer", []string{"writing", "documentation", "technical writing", "communication"}},
}

// taskKeywords maps task text fragments to the skills the task requires.
var taskKeywords = []keywordSkills{
	// design
	{"design", []string{"design", "ui", "ux", "visual", "creative"}},
	{"디자인", []string{"design", "ui", "ux", "visual", "creative"}},
	{"ui", []string{"frontend", "ui", "design"}},
	{"ux", []string{"ux", "design", "user experience"}},
	{"인터페이스", []string{"frontend", "ui", "design"}},
	{"화면", []string{"frontend", "ui", "design"}},

	// development
	{"code", []string{"coding", "programming", "development", "technical"}},
	{"develop", []string{"coding", "programming", "development", "technical"}},
	{"개발", []string{"coding", "programming", "development", "technical"}},
	{"implement", []string{"coding", "programming", "development", "technical", "implementation"}},
	{"구현", []string{"coding", "programming", "development", "technical", "implementation"}},
	{"프로그래밍", []string{"coding", "programming", "development", "technical"}},

	// testing
	{"test", []string{"testing", "quality", "qa", "verification"}},
	{"테스트", []string{"testing", "quality", "qa", "verification"}},
	{"검증", []string{"testing", "quality", "qa", "verification"}},
	{"qa", []string{"testing", "quality", "qa", "verification"}},

	// documentation
	{"write", []string{"writing", "content", "documentation", "communication"}},
	{"document", []string{"writing", "documentation", "technical writing"}},
	{"문서", []string{"writing", "documentation", "technical writing"}},
	{"작성", []string{"writing", "content", "documentation"}},

	// analysis
	{"analyze", []string{"analysis", "data", "research", "insights"}},
	{"분석", []string{"analysis", "data", "research", "insights"}},
	{"research", []string{"research", "analysis", "investigation"}},
	{"조사", []string{"research", "analysis", "investigation"}},
	{"연구", []string{"research", "analysis", "investigation"}},

	// planning
	{"plan", []string{"planning", "strategy", "organization", "management"}},
	{"계획", []string{"planning", "strategy", "organization", "management"}},
	{"기획", []string{"planning", "strategy", "organization", "management"}},
	{"manage", []string{"management", "coordination", "leadership"}},
	{"관리", []string{"management", "coordination", "leadership"}},

	// marketing
	{"market", []string{"marketing", "promotion", "communication"}},
	{"마케팅", []string{"marketing", "promotion", "communication"}},
	{"홍보", []string{"marketing", "promotion", "communication"}},

	// deployment and operations
	{"deploy", []string{"deployment", "devops", "infrastructure"}},
	{"배포", []string{"deployment", "devops", "infrastructure"}},
	{"운영", []string{"deployment", "devops", "infrastructure", "operations"}},
	{"유지보수", []string{"maintenance", "operations", "support"}},

	// backend
	{"api", []string{"backend", "api", "development"}},
	{"backend", []string{"backend", "server", "api"}},
	{"백엔드", []string{"backend", "server", "api"}},
	{"서버", []string{"backend", "server", "api"}},
	{"database", []string{"backend", "database", "data"}},
	{"데이터베이스", []string{"backend", "database", "data"}},

	// frontend
	{"frontend", []string{"frontend", "ui", "web"}},
	{"프론트엔드", []string{"frontend", "ui", "web"}},
	{"웹", []string{"frontend", "web", "development"}},

	// ai and ml
	{"ai", []string{"ai", "machine learning", "data", "model"}},
	{"ml", []string{"machine learning", "ai", "data", "model"}},
	{"인공지능", []string{"ai", "machine learning", "data", "model"}},
	{"모델", []string{"ai", "machine learning", "data", "model"}},
	{"학습", []string{"machine learning", "ai", "training"}},
	{"머신러닝", []string{"machine learning", "ai", "data"}},

	// requirements
	{"요구사항", []string{"analysis", "planning", "requirements", "management"}},
	{"정의", []string{"analysis", "planning", "requirements"}},
	{"기능", []string{"development", "implementation", "features"}},

	{"연동", []string{"integration", "api", "development", "backend"}},
}

// Fallback extraction when no task keyword matches.
const (
	fallbackWords      = 5
	fallbackMinWordLen = 4
)

// InferSkillsetFromRole returns the skills implied by a role label. Every
// table keyword found as a substring contributes its skills. A role matching
// no keyword is its own single skill; a blank role has no skills.
func InferSkillsetFromRole(role string) Skillset {
	lower := strings.ToLower(role)
	if strings.TrimSpace(lower) == "" {
		return Skillset{}
	}
	if s := matchKeywords(lower, roleKeywords); len(s) > 0 {
		return s
	}
	return Skillset{lower}
}

// InferRequiredSkillset returns the skills a task appears to need, read from
// its name, description and outputs. Without a keyword match it falls back
// to the first five words of at least four characters.
func InferRequiredSkillset(t *workflow.Task) Skillset {
	combined := strings.ToLower(t.Name + " " + t.Description + " " + strings.Join(t.Output, " "))
	if s := matchKeywords(combined, taskKeywords); len(s) > 0 {
		return s
	}

	var words []string
	for _, w := range strings.Fields(combined) {
		if utf8.RuneCountInString(w) >= fallbackMinWordLen {
			words = append(words, w)
			if len(words) == fallbackWords {
				break
			}
		}
	}
	return dedupe(words)
}

func matchKeywords(text string, table []keywordSkills) Skillset {
	var skills []string
	for _, k := range table {
		if strings.Contains(text, k.keyword) {
			skills = append(skills, k.skills...)
		}
	}
	return dedupe(skills)
}

func dedupe(tokens []string) Skillset {
	out := make(Skillset, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
