// Package router classifies free-text user input into an exam/subject scope
// and guards downstream content generation against out-of-scope syllabus
// leakage.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/syllabus"
)

// Intent is the user's classified goal.
type Intent string

const (
	IntentPlan      Intent = "plan"
	IntentExplain   Intent = "explain"
	IntentQuiz      Intent = "quiz"
	IntentAutopilot Intent = "autopilot"
	IntentUnknown   Intent = "unknown"
)

// Exam is a supported exam track.
type Exam string

const (
	ExamNEET Exam = "neet"
	ExamJEE  Exam = "jee"
	ExamUPSC Exam = "upsc"
	ExamCAT  Exam = "cat"
	ExamNone Exam = "none"
)

// Scope narrows a request to a subject slice of an exam's syllabus.
type Scope struct {
	Subject    string   `json:"subject"`
	SubSubject string   `json:"sub_subject,omitempty"`
	Topics     []string `json:"topics,omitempty"`
}

// Decision is the router's classification of one user request. It is
// advisory: callers may surface NeedsClarification but must not block on it.
type Decision struct {
	Intent             Intent  `json:"intent"`
	Exam               Exam    `json:"exam"`
	Scope              Scope   `json:"scope"`
	Confidence         float64 `json:"confidence"`
	NeedsClarification bool    `json:"needs_clarification"`
	ClarifyingQuestion string  `json:"clarifying_question,omitempty"`
}

// Router performs LLM-backed intent and scope classification.
type Router struct {
	provider llm.Provider
}

// New creates a router backed by the given provider.
func New(provider llm.Provider) *Router {
	return &Router{provider: provider}
}

// Route classifies freeText into a Decision. currentExam, when non-empty,
// biases exam detection toward the caller's existing context.
func (r *Router) Route(ctx context.Context, freeText, currentExam string) (*Decision, error) {
	ctx = llm.WithPurpose(ctx, "intent-routing")

	userMsg, err := buildRouteMessage(freeText, currentExam)
	if err != nil {
		return nil, fmt.Errorf("build routing prompt: %w", err)
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System: routeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      DecisionSchema,
		MaxTokens:   512,
		Temperature: 0.0,
	})
	if err != nil {
		return nil, &ScopeRoutingError{Err: err}
	}

	var d Decision
	if err := json.Unmarshal(resp.Content, &d); err != nil {
		return nil, &ScopeRoutingError{Err: fmt.Errorf("parse routing response: %w", err)}
	}
	return &d, nil
}

// SafeSyllabus returns the narrowest syllabus text matching the decision's
// scope. See syllabus.Safe for the resolution order.
func SafeSyllabus(d *Decision) string {
	if d == nil || d.Exam == ExamNone {
		return ""
	}
	return syllabus.Safe(string(d.Exam), d.Scope.Subject, d.Scope.SubSubject)
}

// ScopeRoutingError wraps a failed routing call. Callers recover by falling
// back to the unscoped syllabus text.
type ScopeRoutingError struct {
	Err error
}

func (e *ScopeRoutingError) Error() string {
	return fmt.Sprintf("scope routing failed: %v", e.Err)
}

func (e *ScopeRoutingError) Unwrap() error { return e.Err }

const routeSystemPrompt = `You classify requests for an exam preparation app.

Instructions:
- Identify the INTENT: plan (wants a schedule), explain (wants a concept taught), quiz (wants to be tested), autopilot (wants an unattended study session), or unknown.
- Identify the EXAM: neet, jee, upsc, or cat. If the input does not name one but the current context does, use the context. Otherwise use none.
- Identify the SCOPE: subject, optional sub-subject (chemistry splits into organic, inorganic, physical), and any named topics.
- Set needs_clarification true only when the request cannot be acted on at all, and supply one short clarifying question.`

var routeUserTemplate = template.Must(template.New("route").Parse(`Current context exam: {{if .CurrentExam}}{{.CurrentExam}}{{else}}(none){{end}}

User input: "{{.FreeText}}"`))

func buildRouteMessage(freeText, currentExam string) (string, error) {
	var buf bytes.Buffer
	err := routeUserTemplate.Execute(&buf, struct {
		FreeText    string
		CurrentExam string
	}{freeText, currentExam})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
