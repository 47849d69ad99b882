// Package quiz generates adaptive quizzes, grades submitted answers, and
// produces per-answer feedback.
package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/exammentor/exammentor/internal/llm"
)

// maxContextChars bounds how much study material is embedded in a prompt.
const maxContextChars = 5000

// Question is one multiple-choice quiz question.
type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation"`
	Difficulty         string   `json:"difficulty"`
	ConceptTested      string   `json:"concept_tested"`
}

// Quiz is a generated set of questions on one topic.
type Quiz struct {
	Topic               string     `json:"topic"`
	Questions           []Question `json:"questions"`
	TimeEstimateMinutes int        `json:"time_estimate_minutes"`
}

// Evaluation is personalized feedback on one submitted answer.
type Evaluation struct {
	IsCorrect      bool   `json:"is_correct"`
	Feedback       string `json:"feedback"`
	Misconception  string `json:"misconception,omitempty"`
	HintForSimilar string `json:"hint_for_similar"`
}

// Config holds generation parameters.
type Config struct {
	NumQuestions int
	Difficulty   string
	MaxTokens    int
	Temperature  float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		NumQuestions: 5,
		Difficulty:   "medium",
		MaxTokens:    4096,
		Temperature:  0.6,
	}
}

// Generator produces quizzes and answer evaluations.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// NewGenerator creates a quiz generator.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	if cfg.NumQuestions <= 0 {
		cfg.NumQuestions = DefaultConfig().NumQuestions
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = DefaultConfig().Difficulty
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Generator{provider: provider, cfg: cfg}
}

// Generate creates a quiz on topic with the configured question count.
// previousMistakes, when non-empty, lists misconceptions the questions should
// preferentially target.
func (g *Generator) Generate(ctx context.Context, topic, studyContext string, previousMistakes []string) (*Quiz, error) {
	return g.GenerateN(ctx, topic, studyContext, g.cfg.NumQuestions, previousMistakes)
}

// GenerateN is Generate with an explicit question count.
func (g *Generator) GenerateN(ctx context.Context, topic, studyContext string, numQuestions int, previousMistakes []string) (*Quiz, error) {
	ctx = llm.WithPurpose(ctx, "quiz-generate")

	if numQuestions <= 0 {
		numQuestions = g.cfg.NumQuestions
	}
	cfg := g.cfg
	cfg.NumQuestions = numQuestions
	userMsg, err := buildQuizMessage(topic, studyContext, cfg, previousMistakes)
	if err != nil {
		return nil, fmt.Errorf("build quiz prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: quizSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	var q Quiz
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}
	// Models sometimes omit ids; every question needs a stable one for
	// answer tracking.
	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = uuid.NewString()
		}
	}
	return &q, nil
}

// Grade compares an answer index to the question's correct index. It is a
// pure comparison with no model call.
func Grade(q *Question, answerIndex int) bool {
	return answerIndex == q.CorrectOptionIndex
}

// Evaluate produces personalized feedback for a submitted answer.
func (g *Generator) Evaluate(ctx context.Context, q *Question, answerIndex int, topicContext string) (*Evaluation, error) {
	ctx = llm.WithPurpose(ctx, "answer-evaluate")

	if answerIndex < 0 || answerIndex >= len(q.Options) {
		return nil, fmt.Errorf("answer index %d out of range for %d options", answerIndex, len(q.Options))
	}

	userMsg, err := buildEvaluateMessage(q, answerIndex, topicContext)
	if err != nil {
		return nil, fmt.Errorf("build evaluation prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: evaluateSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("answer evaluation failed: %w", err)
	}

	var e Evaluation
	if err := json.Unmarshal(resp.Content, &e); err != nil {
		return nil, fmt.Errorf("parse evaluation response: %w", err)
	}
	// Correctness is determined locally, never trusted from the model.
	e.IsCorrect = Grade(q, answerIndex)
	return &e, nil
}

const quizSystemPrompt = `You are an expert question writer for competitive exams.

Requirements:
1. Questions test deep understanding, not memorization.
2. Mix conceptual and application-based questions.
3. Wrong options are plausible common mistakes.
4. Explanations teach, not just state the answer.
5. Each question tests one specific concept.
6. Every question has exactly 4 options.`

const evaluateSystemPrompt = `You give a student feedback on one quiz answer.

Provide:
1. Personalized feedback: encouraging if correct, constructive if wrong.
2. If wrong, the specific misconception that led to the error.
3. A tip for approaching similar questions.`

type quizInput struct {
	Topic        string
	Context      string
	NumQuestions int
	Difficulty   string
	Mistakes     string
}

var quizTemplate = template.Must(template.New("quiz").Parse(`Create a {{.NumQuestions}}-question quiz on "{{.Topic}}".

CONTEXT FROM STUDY MATERIAL:
{{.Context}}

DIFFICULTY: {{.Difficulty}}
{{if .Mistakes}}
The student has previously struggled with these concepts:
{{.Mistakes}}

Include questions that specifically address these misconceptions.
{{end}}`))

func buildQuizMessage(topic, studyContext string, cfg Config, previousMistakes []string) (string, error) {
	if len(studyContext) > maxContextChars {
		studyContext = studyContext[:maxContextChars]
	}
	var buf bytes.Buffer
	err := quizTemplate.Execute(&buf, quizInput{
		Topic:        topic,
		Context:      studyContext,
		NumQuestions: cfg.NumQuestions,
		Difficulty:   cfg.Difficulty,
		Mistakes:     strings.Join(previousMistakes, ", "),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var evaluateTemplate = template.Must(template.New("evaluate").Parse(`A student answered a question about "{{.Concept}}".

QUESTION: {{.Question}}
STUDENT CHOSE: {{.StudentAnswer}}
CORRECT ANSWER: {{.CorrectAnswer}}
STUDENT WAS: {{.Outcome}}

CONTEXT:
{{.Context}}`))

func buildEvaluateMessage(q *Question, answerIndex int, topicContext string) (string, error) {
	if len(topicContext) > 2000 {
		topicContext = topicContext[:2000]
	}
	outcome := "INCORRECT"
	if Grade(q, answerIndex) {
		outcome = "CORRECT"
	}
	var buf bytes.Buffer
	err := evaluateTemplate.Execute(&buf, struct {
		Concept, Question, StudentAnswer, CorrectAnswer, Outcome, Context string
	}{
		q.ConceptTested, q.Text,
		q.Options[answerIndex], q.Options[q.CorrectOptionIndex],
		outcome, topicContext,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
