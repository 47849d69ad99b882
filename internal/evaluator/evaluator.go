// Package evaluator analyzes quiz performance: per-topic mastery breakdown,
// misconceptions found in the wrong answers, and prioritized study
// recommendations.
package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/exammentor/exammentor/internal/llm"
)

// maxContextChars bounds how much study material is embedded in a prompt.
const maxContextChars = 3000

// QuizAnswer is one answered question with its grading outcome.
type QuizAnswer struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	ConceptTested string `json:"concept_tested"`
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// TopicMastery is the per-topic slice of an analysis.
type TopicMastery struct {
	Topic    string `json:"topic"`
	Score    int    `json:"score"`
	Status   string `json:"status"` // mastered, learning, weak, or pending
	Strength string `json:"strength"`
	Weakness string `json:"weakness"`
}

// Misconception is one misunderstanding inferred from the wrong answers.
type Misconception struct {
	Concept         string `json:"concept"`
	Description     string `json:"description"`
	Correction      string `json:"correction"`
	SuggestedReview string `json:"suggested_review"`
}

// StudyRecommendation is one prioritized next action.
type StudyRecommendation struct {
	Priority     int    `json:"priority"` // 1 = highest
	Topic        string `json:"topic"`
	Action       string `json:"action"`
	TimeEstimate string `json:"time_estimate"`
}

// PerformanceAnalysis is the full insight report for one quiz run.
type PerformanceAnalysis struct {
	OverallScore    int                   `json:"overall_score"`
	Summary         string                `json:"summary"`
	TopicMastery    []TopicMastery        `json:"topic_mastery"`
	Misconceptions  []Misconception       `json:"misconceptions"`
	Recommendations []StudyRecommendation `json:"recommendations"`
	Encouragement   string                `json:"encouragement"`
}

// Evaluator performs LLM-backed performance analysis.
type Evaluator struct {
	provider llm.Provider
}

// New creates an evaluator backed by the given provider.
func New(provider llm.Provider) *Evaluator {
	return &Evaluator{provider: provider}
}

// Analyze reviews a graded quiz on topic and produces mastery breakdown,
// misconceptions, and prioritized recommendations.
func (e *Evaluator) Analyze(ctx context.Context, answers []QuizAnswer, topic, studyContext string) (*PerformanceAnalysis, error) {
	ctx = llm.WithPurpose(ctx, "performance-analysis")

	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers to analyze")
	}

	userMsg, err := buildAnalyzeMessage(answers, topic, studyContext)
	if err != nil {
		return nil, fmt.Errorf("build analysis prompt: %w", err)
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: analyzeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      PerformanceAnalysisSchema,
		MaxTokens:   4096,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("performance analysis failed: %w", err)
	}

	var out PerformanceAnalysis
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	return &out, nil
}

const analyzeSystemPrompt = `You are an expert learning analyst and educational psychologist.

Requirements:
1. Calculate overall mastery and break it down by sub-topic.
2. Identify specific misconceptions from wrong answers.
3. Prioritize what to study next, most impactful first.
4. Provide actionable, specific recommendations.
5. Be encouraging - focus on growth mindset.`

var analyzeTemplate = template.Must(template.New("analyze").Parse(`Analyze this student's quiz performance on "{{.Topic}}".

QUIZ RESULTS ({{.Correct}}/{{.Total}} correct):
{{.Results}}

STUDY CONTEXT:
{{.Context}}`))

func buildAnalyzeMessage(answers []QuizAnswer, topic, studyContext string) (string, error) {
	if len(studyContext) > maxContextChars {
		studyContext = studyContext[:maxContextChars]
	}

	var results bytes.Buffer
	correct := 0
	for _, a := range answers {
		mark := "WRONG"
		if a.IsCorrect {
			mark = "CORRECT"
			correct++
		}
		fmt.Fprintf(&results, "Q: %s\n   Concept: %s\n   Student: %s | Correct: %s | %s\n",
			a.QuestionText, a.ConceptTested, a.StudentAnswer, a.CorrectAnswer, mark)
	}

	var buf bytes.Buffer
	err := analyzeTemplate.Execute(&buf, struct {
		Topic, Results, Context string
		Correct, Total          int
	}{topic, results.String(), studyContext, correct, len(answers)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
