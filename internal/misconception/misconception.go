// Package misconception diagnoses the conceptual confusion behind a wrong
// quiz answer and produces a counter-example plus a redemption question.
package misconception

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/quiz"
)

// Analysis is the diagnosis of one wrong answer.
type Analysis struct {
	WrongOptionChosen  string        `json:"wrong_option_chosen"`
	InferredConfusion  string        `json:"inferred_confusion"`
	CounterExample     string        `json:"counter_example"`
	Explanation        string        `json:"explanation"`
	RedemptionQuestion quiz.Question `json:"redemption_question"`
}

// Analyzer performs LLM-backed misconception diagnosis.
type Analyzer struct {
	provider llm.Provider
}

// New creates an analyzer backed by the given provider.
func New(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Diagnose infers the confusion behind choosing wrongIndex on q, constructs
// a counter-example that breaks that logic, and generates a fresh redemption
// question testing the same edge case.
func (a *Analyzer) Diagnose(ctx context.Context, q *quiz.Question, wrongIndex int, topicContext string) (*Analysis, error) {
	ctx = llm.WithPurpose(ctx, "misconception-diagnosis")

	if wrongIndex < 0 || wrongIndex >= len(q.Options) {
		return nil, fmt.Errorf("wrong answer index %d out of range for %d options", wrongIndex, len(q.Options))
	}

	userMsg, err := buildDiagnoseMessage(q, wrongIndex, topicContext)
	if err != nil {
		return nil, fmt.Errorf("build diagnosis prompt: %w", err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System: diagnoseSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      AnalysisSchema,
		MaxTokens:   2048,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("misconception diagnosis failed: %w", err)
	}

	var out Analysis
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse diagnosis response: %w", err)
	}
	return &out, nil
}

const diagnoseSystemPrompt = `You are a master teacher specializing in diagnosing student misconceptions.

Task:
1. INFER: why did the student pick this specific wrong option? What confusion does it reveal?
2. BUST: provide a counter-example that makes the student's logic fail in a clear way.
3. EXPLAIN: briefly explain the correct concept.
4. REDEEM: create a NEW question of the same difficulty that tests the same edge case.`

var diagnoseTemplate = template.Must(template.New("diagnose").Parse(`A student answered this question incorrectly.

QUESTION: {{.Question}}
STUDENT CHOSE: {{.StudentChoice}}
CORRECT ANSWER: {{.CorrectChoice}}

CONTEXT:
{{.Context}}`))

func buildDiagnoseMessage(q *quiz.Question, wrongIndex int, topicContext string) (string, error) {
	if len(topicContext) > 2000 {
		topicContext = topicContext[:2000]
	}
	var buf bytes.Buffer
	err := diagnoseTemplate.Execute(&buf, struct {
		Question, StudentChoice, CorrectChoice, Context string
	}{q.Text, q.Options[wrongIndex], q.Options[q.CorrectOptionIndex], topicContext})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
