package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/router"
)

// maxSyllabusChars bounds how much syllabus text is embedded in a prompt.
const maxSyllabusChars = 10000

// Config holds generation parameters for the plan loop.
type Config struct {
	// MaxIterations bounds the verify → fix cycles after the first draft.
	MaxIterations int
	MaxTokens     int
	Temperature   float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 2,
		MaxTokens:     8192,
		Temperature:   0.4,
	}
}

// Generator drafts study plans and runs the self-correction loop.
type Generator struct {
	provider llm.Provider
	router   *router.Router
	cfg      Config
	logger   *slog.Logger
}

// NewGenerator creates a plan generator. scopeRouter may be nil, in which
// case goals are never narrowed and the raw syllabus text is used as-is.
func NewGenerator(provider llm.Provider, scopeRouter *router.Router, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Generator{provider: provider, router: scopeRouter, cfg: cfg, logger: logger}
}

// Request describes a plan generation job.
type Request struct {
	SyllabusText string
	ExamType     string
	Goal         string
	Days         int
}

// Generate drafts a single study plan with no verification pass.
func (g *Generator) Generate(ctx context.Context, req Request) (*StudyPlan, error) {
	ctx = llm.WithPurpose(ctx, "plan-draft")

	userMsg, err := renderTemplate(draftTemplate, draftInput{
		ExamType: req.ExamType,
		Goal:     req.Goal,
		Days:     days(req),
		Syllabus: truncate(req.SyllabusText, maxSyllabusChars),
	})
	if err != nil {
		return nil, fmt.Errorf("build draft prompt: %w", err)
	}

	return g.callForPlan(ctx, userMsg)
}

// GenerateVerified runs the full draft → verify → fix loop and returns the
// final plan with its complete version history.
func (g *Generator) GenerateVerified(ctx context.Context, req Request) (*Result, error) {
	return g.run(ctx, req, nil)
}

// GenerateVerifiedStream runs the same loop but reports progress through
// emit. Events are delivered in the exact order the loop produces them;
// emit must not block indefinitely.
func (g *Generator) GenerateVerifiedStream(ctx context.Context, req Request, emit func(Event)) (*Result, error) {
	if emit == nil {
		emit = func(Event) {}
	}
	return g.run(ctx, req, emit)
}

func (g *Generator) run(ctx context.Context, req Request, emit func(Event)) (*Result, error) {
	notify := func(ev Event) {
		if emit != nil {
			emit(ev)
		}
	}

	req.SyllabusText = g.scopeSyllabus(ctx, req)

	notify(Event{Type: EventStatus, Message: "drafting initial plan"})
	draft, err := g.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	versions := []Version{{Version: 1, Plan: *draft}}
	notify(Event{Type: EventDraft, Version: &versions[0]})

	iterations := 0
	accepted := false
	for i := 0; i < g.cfg.MaxIterations; i++ {
		current := &versions[len(versions)-1]

		notify(Event{Type: EventStatus, Message: fmt.Sprintf("verifying version %d", current.Version)})
		verification, err := g.verify(ctx, &current.Plan, req.SyllabusText)
		if err != nil {
			return nil, err
		}
		iterations++
		current.Verification = verification
		notify(Event{Type: EventVerification, Version: current})

		if verification.IsValid {
			current.Accepted = true
			accepted = true
			break
		}

		notify(Event{Type: EventStatus, Message: fmt.Sprintf("fixing issues found in version %d", current.Version)})
		fixed, err := g.fix(ctx, &current.Plan, verification, req)
		if err != nil {
			return nil, err
		}
		next := Version{Version: current.Version + 1, Plan: *fixed}
		versions = append(versions, next)
		notify(Event{Type: EventDraft, Version: &versions[len(versions)-1]})
	}

	// Budget exhausted with no accepted version: take the last one rather
	// than returning nothing.
	if !accepted {
		versions[len(versions)-1].Accepted = true
	}

	final := versions[len(versions)-1]
	result := &Result{
		FinalPlan:             final.Plan,
		Versions:              versions,
		SelfCorrectionApplied: len(versions) > 1,
		Summary:               summarize(versions, iterations),
	}
	notify(Event{Type: EventComplete, Result: result})
	return result, nil
}

// scopeSyllabus narrows the syllabus text to the goal's routed scope. Any
// routing failure falls back to the unscoped text; planning never blocks on
// the router.
func (g *Generator) scopeSyllabus(ctx context.Context, req Request) string {
	if g.router == nil || req.Goal == "" {
		return req.SyllabusText
	}
	decision, err := g.router.Route(ctx, req.Goal, req.ExamType)
	if err != nil {
		g.logger.Warn("scope routing failed, using unscoped syllabus", "exam", req.ExamType, "error", err)
		return req.SyllabusText
	}
	if scoped := router.SafeSyllabus(decision); scoped != "" {
		return scoped
	}
	return req.SyllabusText
}

func (g *Generator) verify(ctx context.Context, p *StudyPlan, syllabusText string) (*Verification, error) {
	ctx = llm.WithPurpose(ctx, "plan-verify")

	planJSON, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("serialize plan for verification: %w", err)
	}
	userMsg, err := renderTemplate(verifyTemplate, verifyInput{
		Plan:     string(planJSON),
		Syllabus: truncate(syllabusText, maxSyllabusChars),
	})
	if err != nil {
		return nil, fmt.Errorf("build verification prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: verifySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      VerificationSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: 0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("plan verification failed: %w", err)
	}

	var v Verification
	if err := json.Unmarshal(resp.Content, &v); err != nil {
		return nil, fmt.Errorf("parse verification response: %w", err)
	}
	return &v, nil
}

func (g *Generator) fix(ctx context.Context, p *StudyPlan, v *Verification, req Request) (*StudyPlan, error) {
	ctx = llm.WithPurpose(ctx, "plan-fix")

	planJSON, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("serialize plan for fix: %w", err)
	}
	userMsg, err := renderTemplate(fixTemplate, fixInput{
		Plan:               string(planJSON),
		Critique:           v.Critique,
		MissingTopics:      v.MissingTopics,
		OverloadedDays:     v.OverloadedDays,
		PrerequisiteIssues: v.PrerequisiteIssues,
		Days:               days(req),
		ExamType:           req.ExamType,
	})
	if err != nil {
		return nil, fmt.Errorf("build fix prompt: %w", err)
	}

	return g.callForPlan(ctx, userMsg)
}

func (g *Generator) callForPlan(ctx context.Context, userMsg string) (*StudyPlan, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: draftSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      StudyPlanSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	var p StudyPlan
	if err := json.Unmarshal(resp.Content, &p); err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}
	return &p, nil
}

// summarize builds the display summary from the latest verified version.
// Coverage loses 5 points per missing topic, clamped to [0,100].
func summarize(versions []Version, iterations int) Summary {
	var last *Verification
	for i := len(versions) - 1; i >= 0; i-- {
		if versions[i].Verification != nil {
			last = versions[i].Verification
			break
		}
	}
	s := Summary{CoveragePercent: 100, IsValid: true, IterationsUsed: iterations}
	if last == nil {
		return s
	}
	coverage := 100 - 5*float64(len(last.MissingTopics))
	if coverage < 0 {
		coverage = 0
	}
	s.CoveragePercent = coverage
	s.OverloadedDaysCount = len(last.OverloadedDays)
	s.PrerequisiteIssuesCount = len(last.PrerequisiteIssues)
	s.IsValid = last.IsValid
	return s
}

func days(req Request) int {
	if req.Days <= 0 {
		return 7
	}
	return req.Days
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func renderTemplate(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const draftSystemPrompt = `You are an expert exam strategist. You create realistic, prioritized study plans.

Instructions:
- Prioritize high-weight topics based on exam patterns.
- Group related concepts together for better retention.
- Start with foundational concepts and build to complex ones.
- Include revision days for spaced repetition.
- Be realistic with time estimates: never schedule more than 8 hours in a day.
- Identify the 3-5 most critical topics with the highest impact.`

const verifySystemPrompt = `You are a strict study-plan auditor. Check a plan against the syllabus and constraints and report every violation.

Constraints:
- Coverage: every major syllabus topic must appear somewhere in the schedule.
- Workload: no day may exceed 8 hours.
- Ordering: prerequisite topics must come before the topics that depend on them.
- Revision: the plan must reserve time for revision.
Set is_valid true only when all constraints pass.`

type draftInput struct {
	ExamType string
	Goal     string
	Days     int
	Syllabus string
}

var draftTemplate = template.Must(template.New("draft").Parse(`Create a {{.Days}}-day study plan for the {{.ExamType}} exam.

STUDENT GOAL:
{{.Goal}}

SYLLABUS:
{{.Syllabus}}`))

type verifyInput struct {
	Plan     string
	Syllabus string
}

var verifyTemplate = template.Must(template.New("verify").Parse(`Audit this study plan.

PLAN:
{{.Plan}}

SYLLABUS IT MUST COVER:
{{.Syllabus}}`))

type fixInput struct {
	Plan               string
	Critique           string
	MissingTopics      []string
	OverloadedDays     []int
	PrerequisiteIssues []string
	Days               int
	ExamType           string
}

var fixTemplate = template.Must(template.New("fix").Parse(`Revise this {{.Days}}-day {{.ExamType}} study plan to fix the auditor's findings. Keep everything that was not criticized.

CURRENT PLAN:
{{.Plan}}

AUDITOR CRITIQUE:
{{.Critique}}

MISSING TOPICS:
{{range .MissingTopics}}- {{.}}
{{end}}
OVERLOADED DAYS:
{{range .OverloadedDays}}- day {{.}}
{{end}}
PREREQUISITE ISSUES:
{{range .PrerequisiteIssues}}- {{.}}
{{end}}`))
