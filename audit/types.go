package audit

import "time"

// Severity levels for audit findings, from most to least urgent.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

var severityRank = map[string]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

// Issue is a single finding produced by one analyzer.
type Issue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// RankedIssue is an issue tagged with the analyzer that produced it.
type RankedIssue struct {
	Component string `json:"component"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// ComponentScore is the isolated result of one analyzer.
type ComponentScore struct {
	Score  int      `json:"score"`
	Issues []Issue  `json:"issues"`
	Passed []string `json:"passed"`
}

// ComponentScores groups the seven analyzer results.
type ComponentScores struct {
	Meta          ComponentScore `json:"meta"`
	Content       ComponentScore `json:"content"`
	Technical     ComponentScore `json:"technical"`
	Mobile        ComponentScore `json:"mobile"`
	Performance   ComponentScore `json:"performance"`
	Security      ComponentScore `json:"security"`
	Accessibility ComponentScore `json:"accessibility"`
}

// ComprehensiveAuditResult is the full audit output handed to the caller.
type ComprehensiveAuditResult struct {
	URL             string          `json:"url"`
	Timestamp       time.Time       `json:"timestamp"`
	OverallScore    int             `json:"overall_score"`
	Scores          ComponentScores `json:"scores"`
	Recommendations []RankedIssue   `json:"recommendations"`
	Grade           string          `json:"grade"`
}

// ImageFact describes one image tag found in the markup.
type ImageFact struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	HasAlt bool   `json:"hasAlt"`
}

// LinkFact describes one anchor tag found in the markup.
type LinkFact struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Headings collects heading text by level.
type Headings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
}

// ContentFacts is the structured view of a page that analyzers consume.
// It is built once per audit and never mutated afterwards.
type ContentFacts struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Keywords    []string    `json:"keywords"`
	Headings    Headings    `json:"headings"`
	Images      []ImageFact `json:"images"`
	Links       []LinkFact  `json:"links"`
	WordCount   int         `json:"wordCount"`
}

// Grade maps a 0-100 score to a letter grade. The 0-100 scale is the
// canonical one; callers working with fractions convert before calling.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// checklist accumulates points and findings while an analyzer runs.
type checklist struct {
	score  int
	issues []Issue
	passed []string
}

func newChecklist() *checklist {
	return &checklist{
		issues: make([]Issue, 0, 8),
		passed: make([]string, 0, 8),
	}
}

// award adds points for a passed check.
func (c *checklist) award(points int, label string) {
	c.score += points
	c.passed = append(c.passed, label)
}

// flag records a failed or partial check without awarding points.
func (c *checklist) flag(severity, message string) {
	c.issues = append(c.issues, Issue{Severity: severity, Message: message})
}

// partial awards a reduced number of points and records the shortfall.
func (c *checklist) partial(points int, severity, message string) {
	c.score += points
	c.issues = append(c.issues, Issue{Severity: severity, Message: message})
}

func (c *checklist) result() ComponentScore {
	return ComponentScore{
		Score:  clampScore(c.score),
		Issues: c.issues,
		Passed: c.passed,
	}
}
