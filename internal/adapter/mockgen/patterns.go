package mockgen

// pattern is a canned task matched by keywords in the instruction.
type pattern struct {
	keywords    []string
	name        string
	description string
}

// taskPatterns are checked in order; every matching pattern becomes a task.
var taskPatterns = []pattern{
	{[]string{"design", "디자인"}, "Design",
		"Produce the visual design from the requirements while following the brand guidelines and UX principles. Deliver the design files (Figma/PNG) and a design specification."},
	{[]string{"develop", "code", "개발", "코드"}, "Development",
		"Implement the functionality as specified, writing clean and maintainable code. Deliver the source code and implementation notes."},
	{[]string{"review", "리뷰", "검토"}, "Review",
		"Review the deliverables for quality, correctness and completeness, giving constructive feedback. Deliver review feedback and approval notes."},
	{[]string{"test", "테스트"}, "Testing",
		"Test thoroughly to find defects and assure quality, documenting cases and results. Deliver test results and bug reports."},
	{[]string{"approve", "승인"}, "Approval",
		"Check that every requirement is met and quality standards are satisfied, then give final approval. Deliver the approval record."},
	{[]string{"plan", "계획"}, "Planning",
		"Define scope, goals and requirements, then lay out a timeline and the resources needed. Deliver the project plan and requirements document."},
	{[]string{"create", "make", "만들", "생성"}, "Creation",
		"Produce the required deliverables to specification with attention to detail. Deliver the finished work and its documentation."},
	{[]string{"research", "조사", "분석"}, "Research",
		"Gather and analyse information from several sources and turn it into actionable insight. Deliver the findings and an analysis report."},
	{[]string{"write", "작성"}, "Writing",
		"Write clear, well structured content with correct grammar and style. Deliver the written content."},
	{[]string{"deploy", "배포"}, "Deployment",
		"Release the application or feature to production and watch the rollout until it succeeds. Deliver deployment logs and release notes."},
}

var posterKeywords = []string{"poster", "포스터", "marketing", "마케팅"}

var posterTasks = []pattern{
	{nil, "Design Marketing Poster",
		"Create a marketing poster that carries the key message with brand elements and appeals to the target audience. Deliver the poster design and visual assets."},
	{nil, "Review Poster",
		"Assess the poster for impact and brand alignment, with detailed feedback on visuals and messaging. Deliver review feedback and revision notes."},
	{nil, "Final Approval",
		"Do a final check that all feedback was applied and the poster meets quality standards. Deliver the approved, print-ready files."},
}

var featureKeywords = []string{"feature", "기능"}

var featureTasks = []pattern{
	{nil, "Plan Feature",
		"Write the detailed specification for the new feature, covering requirements, user stories and acceptance criteria. Deliver the feature specification."},
	{nil, "Implement Feature",
		"Build the feature to specification with unit tests that keep quality high. Deliver the source code and unit tests."},
	{nil, "Test Feature",
		"Test the feature end to end, confirming requirements and edge cases. Deliver test results and a QA report."},
}

var genericTasks = []pattern{
	{nil, "Plan & Prepare",
		"Analyse the requirements and build a plan naming goals, resources and risks. Deliver the plan and requirements document."},
	{nil, "Execute Work",
		"Carry out the planned work along the roadmap while keeping quality high. Deliver the results of the work."},
	{nil, "Review & Finalize",
		"Review everything against the initial requirements and make final adjustments from feedback. Deliver the completed work."},
}

// roleHints prefer a candidate whose role contains one of roles when the
// task name contains one of words.
var roleHints = []struct {
	words []string
	roles []string
}{
	{[]string{"design"}, []string{"design"}},
	{[]string{"develop", "code"}, []string{"develop", "engineer"}},
	{[]string{"test"}, []string{"qa", "test"}},
	{[]string{"approve", "review"}, []string{"manager", "lead"}},
}
