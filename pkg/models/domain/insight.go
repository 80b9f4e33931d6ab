package domain

type Severity string

const (
	SeverityCritical    Severity = "critical"
	SeverityWarning     Severity = "warning"
	SeverityOpportunity Severity = "opportunity"
	SeveritySuccess     Severity = "success"
)

type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Insight is a rule-triggered observation plus recommendation. Insights are
// immutable once emitted and ordered by severity for display.
type Insight struct {
	Category       string
	Severity       Severity
	Message        string
	Recommendation string
	Priority       Priority
}

// severityRank orders severities for display: critical first, success last.
func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityOpportunity:
		return 2
	case SeveritySuccess:
		return 3
	default:
		return 4
	}
}

// LessSevere reports whether a sorts before b, keeping declaration order
// stable within the same severity.
func LessSevere(a, b Severity) bool {
	return severityRank(a) < severityRank(b)
}
