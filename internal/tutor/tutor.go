// Package tutor produces structured and streamed topic explanations in the
// Feynman style: intuition first, then steps, example, and pitfall.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/exammentor/exammentor/internal/llm"
)

// maxContextChars bounds how much study material is embedded in a prompt.
const maxContextChars = 5000

// Step is one stage of a structured explanation.
type Step struct {
	StepNumber int    `json:"step_number"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Analogy    string `json:"analogy,omitempty"`
}

// Explanation is a complete structured lesson on one topic.
type Explanation struct {
	Topic            string `json:"topic"`
	Intuition        string `json:"intuition"`
	Steps            []Step `json:"steps"`
	RealWorldExample string `json:"real_world_example"`
	CommonPitfall    string `json:"common_pitfall"`
	PracticeQuestion string `json:"practice_question,omitempty"`
}

// Config holds generation parameters for the tutor.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.5,
	}
}

// Tutor generates topic explanations.
type Tutor struct {
	provider llm.Provider
	cfg      Config
}

// New creates a tutor backed by the given provider.
func New(provider llm.Provider, cfg Config) *Tutor {
	if cfg.MaxTokens <= 0 {
		cfg = DefaultConfig()
	}
	return &Tutor{provider: provider, cfg: cfg}
}

// Explain generates a complete structured explanation of topic. studyContext
// is the syllabus slice or study material the explanation must stay inside;
// difficulty is easy, medium, or hard.
func (t *Tutor) Explain(ctx context.Context, topic, studyContext, difficulty string) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, "tutor-explain")

	userMsg, err := buildExplainMessage(topic, studyContext, difficulty)
	if err != nil {
		return nil, fmt.Errorf("build explanation prompt: %w", err)
	}

	resp, err := t.provider.Generate(ctx, llm.Request{
		System: tutorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: t.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation generation failed: %w", err)
	}

	var e Explanation
	if err := json.Unmarshal(resp.Content, &e); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	return &e, nil
}

// StreamExplain streams a markdown explanation for live display. Providers
// without native streaming fall back to a single-fragment stream.
func (t *Tutor) StreamExplain(ctx context.Context, topic, studyContext, difficulty string) (llm.Stream, error) {
	ctx = llm.WithPurpose(ctx, "tutor-stream")

	userMsg, err := buildExplainMessage(topic, studyContext, difficulty)
	if err != nil {
		return nil, fmt.Errorf("build explanation prompt: %w", err)
	}

	req := llm.Request{
		System: tutorSystemPrompt + "\n\nUse markdown formatting. Be encouraging but accurate.",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: t.cfg.Temperature,
	}
	return llm.StreamFrom(ctx, t.provider, req)
}

// depthInstruction adjusts explanation depth per difficulty.
func depthInstruction(difficulty string) string {
	switch difficulty {
	case "easy":
		return "Use simple language, many analogies, avoid jargon"
	case "hard":
		return "Be comprehensive, include edge cases and advanced concepts"
	default:
		return "Balance depth with clarity, include some technical terms"
	}
}

const tutorSystemPrompt = `You are an expert tutor using the Feynman Technique. You explain exam topics so a student builds real intuition.

Structure every explanation:
1. Intuition: a simple analogy or mental model.
2. Deep explanation: step-by-step breakdown, showing the reasoning.
3. Real example: a concrete real-world application.
4. Common mistake: warn about a typical misconception.
5. Quick check: a simple question to test understanding.`

var explainTemplate = template.Must(template.New("explain").Parse(`Explain "{{.Topic}}" to a student preparing for their exam.

CONTEXT FROM THEIR STUDY MATERIAL:
{{.Context}}

EXPLANATION STYLE ({{.Difficulty}}):
{{.Depth}}`))

func buildExplainMessage(topic, studyContext, difficulty string) (string, error) {
	if difficulty == "" {
		difficulty = "medium"
	}
	if len(studyContext) > maxContextChars {
		studyContext = studyContext[:maxContextChars]
	}
	var buf bytes.Buffer
	err := explainTemplate.Execute(&buf, struct {
		Topic, Context, Difficulty, Depth string
	}{topic, studyContext, difficulty, depthInstruction(difficulty)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
