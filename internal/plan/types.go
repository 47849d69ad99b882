// Package plan generates study plans through a draft → verify → fix loop
// that retains every intermediate version for audit and diff display.
package plan

// Topic is one syllabus topic scheduled in a plan.
type Topic struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
	Rationale  string `json:"rationale"`
}

// DailyPlan is one day of a study plan.
type DailyPlan struct {
	Day            int     `json:"day"`
	Theme          string  `json:"theme"`
	Topics         []Topic `json:"topics"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// StudyPlan is a complete multi-day study schedule.
type StudyPlan struct {
	ExamName       string      `json:"exam_name"`
	TotalDays      int         `json:"total_days"`
	Overview       string      `json:"overview"`
	Schedule       []DailyPlan `json:"schedule"`
	CriticalTopics []string    `json:"critical_topics"`
}

// Verification is the critique of one plan version against the syllabus and
// workload constraints.
type Verification struct {
	IsValid            bool     `json:"is_valid"`
	MissingTopics      []string `json:"missing_topics"`
	OverloadedDays     []int    `json:"overloaded_days"`
	PrerequisiteIssues []string `json:"prerequisite_issues"`
	Critique           string   `json:"critique"`
}

// Version is one snapshot in the correction loop's history. Verification is
// nil for a fix that was never re-verified before the iteration budget ran
// out.
type Version struct {
	Version      int           `json:"version"`
	Plan         StudyPlan     `json:"plan"`
	Verification *Verification `json:"verification,omitempty"`
	Accepted     bool          `json:"accepted"`
}

// Summary condenses the final verification for display.
type Summary struct {
	CoveragePercent         float64 `json:"coverage_percent"`
	OverloadedDaysCount     int     `json:"overloaded_days_count"`
	PrerequisiteIssuesCount int     `json:"prerequisite_issues_count"`
	IsValid                 bool    `json:"is_valid"`
	IterationsUsed          int     `json:"iterations_used"`
}

// Result is the outcome of a verified plan generation run.
type Result struct {
	FinalPlan             StudyPlan `json:"final_plan"`
	Versions              []Version `json:"versions"`
	SelfCorrectionApplied bool      `json:"self_correction_applied"`
	Summary               Summary   `json:"verification_summary"`
}

// EventType tags one notification from the streaming variant of the loop.
type EventType string

const (
	EventStatus       EventType = "status"
	EventDraft        EventType = "draft"
	EventVerification EventType = "verification"
	EventComplete     EventType = "complete"
)

// Event is one progress notification. The streaming variant emits events in
// exactly the order the non-streaming control flow would produce them.
type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message,omitempty"`
	Version *Version  `json:"version,omitempty"`
	Result  *Result   `json:"result,omitempty"`
}
