package autopilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync/atomic"
	"text/template"
	"time"

	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/misconception"
	"github.com/exammentor/exammentor/internal/quiz"
	"github.com/exammentor/exammentor/internal/store"
	"github.com/exammentor/exammentor/internal/tutor"
)

// Deps are the collaborators an engine drives. Sessions may be nil; step
// persistence is best-effort either way.
type Deps struct {
	Provider llm.Provider
	Tutor    *tutor.Tutor
	Quiz     *quiz.Generator
	Analyzer *misconception.Analyzer
	Sessions store.SessionRepo
	Logger   *slog.Logger

	// OnExit runs after the loop goroutine finishes, whatever the outcome.
	// Used by the registry to drop the engine entry.
	OnExit func()
}

// Config tunes the loop's pacing.
type Config struct {
	LessonsPerTopic int
	// AnswerWait bounds how long the loop waits for a submitted answer
	// before falling back to the simulated student.
	AnswerWait time.Duration
	// PausePoll is the sleep between pause-flag checks.
	PausePoll time.Duration
	// TopicDelay is the breather between topic cycles.
	TopicDelay time.Duration
	// LessonDelay is the gap between the two teaching passes.
	LessonDelay time.Duration
}

// DefaultConfig returns the standard pacing.
func DefaultConfig() Config {
	return Config{
		LessonsPerTopic: 2,
		AnswerWait:      10 * time.Second,
		PausePoll:       time.Second,
		TopicDelay:      time.Second,
		LessonDelay:     500 * time.Millisecond,
	}
}

// Engine runs one session's autonomous study loop. Control actions set flags
// observed cooperatively at loop checkpoints; in-flight generation calls are
// never forcibly aborted.
type Engine struct {
	session *Session
	deps    Deps
	cfg     Config
	logger  *slog.Logger

	running atomic.Bool
	paused  atomic.Bool
	answers chan int
	done    chan struct{}
	rng     *rand.Rand
}

// NewEngine creates an engine for the given session.
func NewEngine(session *Session, deps Deps, cfg Config) *Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.LessonsPerTopic <= 0 {
		cfg.LessonsPerTopic = DefaultConfig().LessonsPerTopic
	}
	if cfg.PausePoll <= 0 {
		cfg.PausePoll = DefaultConfig().PausePoll
	}
	return &Engine{
		session: session,
		deps:    deps,
		cfg:     cfg,
		logger:  deps.Logger.With("session_id", session.ID()),
		answers: make(chan int, 16),
		done:    make(chan struct{}),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Session returns the session this engine drives.
func (e *Engine) Session() *Session { return e.session }

// Start launches the loop goroutine and returns immediately. Calling Start
// on an already-running engine is a no-op.
func (e *Engine) Start(ctx context.Context) *Session {
	if !e.running.CompareAndSwap(false, true) {
		return e.session
	}
	go e.run(ctx)
	return e.session
}

// Pause halts progression at the next checkpoint. The step in flight still
// completes.
func (e *Engine) Pause() { e.paused.Store(true) }

// Resume clears the pause flag.
func (e *Engine) Resume() {
	e.paused.Store(false)
	if e.running.Load() {
		e.session.setStatus(StatusRunning)
	}
}

// Stop ends the loop at the next checkpoint. In-flight generation calls
// complete and their results are discarded.
func (e *Engine) Stop() { e.running.Store(false) }

// SubmitAnswer delivers one answer index to the in-progress quiz. It never
// blocks; answers beyond the buffer are dropped.
func (e *Engine) SubmitAnswer(index int) {
	select {
	case e.answers <- index:
	default:
	}
}

// Done is closed when the loop goroutine exits.
func (e *Engine) Done() <-chan struct{} { return e.done }

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)
	defer func() {
		if r := recover(); r != nil {
			e.session.setStatus(StatusError)
			e.logger.Error("autopilot loop panicked", "panic", r)
		}
		e.running.Store(false)
		if e.deps.OnExit != nil {
			e.deps.OnExit()
		}
	}()

	e.session.setStatus(StatusRunning)
	target := e.session.target()
	e.logStep(ActionSessionStarted, map[string]any{
		"target_duration": int(target / time.Minute),
		"exam_type":       e.session.exam(),
	}, fmt.Sprintf("Starting %d-minute autonomous learning session", int(target/time.Minute)), 0)

	start := time.Now()
	wasPaused := false

	for e.running.Load() && ctx.Err() == nil {
		if e.paused.Load() {
			if !wasPaused {
				wasPaused = true
				e.session.setStatus(StatusPaused)
				e.logStep(ActionSessionPaused, map[string]any{}, "Session paused by user", 0)
			}
			time.Sleep(e.cfg.PausePoll)
			continue
		}
		if wasPaused {
			wasPaused = false
			e.session.setStatus(StatusRunning)
		}

		elapsed := time.Since(start)
		e.session.setElapsed(elapsed)
		if target > 0 && elapsed >= target {
			break
		}

		e.session.setPhase(PhaseSelectingTopic)
		topic, err := e.selectTopic(ctx)
		if err != nil {
			e.fail("topic selection", err)
			return
		}
		if topic == "" {
			e.logStep(ActionSelfCorrection, map[string]any{"issue": "no_topics_available"},
				"No more topics to study. Ending session early.", 0)
			break
		}
		e.session.noteTopic(topic)

		interrupted := false
		for lesson := 1; lesson <= e.cfg.LessonsPerTopic; lesson++ {
			if !e.running.Load() || e.paused.Load() {
				interrupted = true
				break
			}
			if err := e.teach(ctx, topic, lesson); err != nil {
				e.fail("teaching", err)
				return
			}
			time.Sleep(e.cfg.LessonDelay)
		}
		if interrupted || !e.running.Load() || e.paused.Load() {
			continue
		}

		qz, err := e.runQuiz(ctx, topic)
		if err != nil {
			e.fail("quiz generation", err)
			return
		}
		if len(qz.Questions) > 0 {
			e.analyze(ctx, topic, qz)
		}
		e.session.completeTopic()

		e.session.setElapsed(time.Since(start))
		time.Sleep(e.cfg.TopicDelay)
	}

	e.session.setElapsed(time.Since(start))
	e.session.setStatus(StatusCompleted)
	done := e.session.topicsDone()
	e.logStep(ActionSessionCompleted, map[string]any{
		"topics_completed": done,
		"total_steps":      e.session.stepCount(),
		"duration_seconds": int(time.Since(start) / time.Second),
	}, fmt.Sprintf("Completed %d topics in %d minutes", done, int(time.Since(start)/time.Minute)), 0)
}

func (e *Engine) fail(stage string, err error) {
	e.session.setStatus(StatusError)
	e.logger.Error("autopilot session failed", "stage", stage, "error", err)
}

// selectTopic asks the model for the next best topic given the mastery table
// and what was already attempted. An empty return with nil error means no
// topics remain.
func (e *Engine) selectTopic(ctx context.Context) (string, error) {
	all := e.session.planTopics()
	attempted := e.session.attempted()
	var candidates []string
	for _, t := range all {
		if !slices.Contains(attempted, t) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}

	var lines bytes.Buffer
	for _, t := range all {
		m := e.session.masterySnapshot(t)
		fmt.Fprintf(&lines, "- %s: %.0f%% (attempts: %d)\n", t, m.Score, m.Attempts)
	}
	userMsg, err := renderTemplate(selectTemplate, selectInput{
		MasteryTable: lines.String(),
		Attempted:    attemptedOrNone(attempted),
		ExamType:     e.session.exam(),
	})
	if err != nil {
		return "", fmt.Errorf("build selection prompt: %w", err)
	}

	started := time.Now()
	resp, err := e.deps.Provider.Generate(llm.WithPurpose(ctx, "topic-selection"), llm.Request{
		System: selectSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      TopicSelectionSchema,
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("topic selection failed: %w", err)
	}

	var sel topicSelection
	if err := json.Unmarshal(resp.Content, &sel); err != nil {
		return "", fmt.Errorf("parse topic selection: %w", err)
	}
	// The model must pick from the remaining topics; anything else falls
	// back to the first candidate.
	if !slices.Contains(candidates, sel.SelectedTopic) {
		sel.SelectedTopic = candidates[0]
	}

	e.logStep(ActionTopicSelected, map[string]any{
		"topic":          sel.SelectedTopic,
		"priority_score": sel.PriorityScore,
		"difficulty":     sel.EstimatedDifficulty,
	}, sel.Reasoning, time.Since(started))

	return sel.SelectedTopic, nil
}

func (e *Engine) teach(ctx context.Context, topic string, lesson int) error {
	e.session.setPhase(PhaseTeaching)

	started := time.Now()
	e.logStep(ActionLessonStarted, map[string]any{
		"topic":         topic,
		"lesson_number": lesson,
	}, fmt.Sprintf("Starting micro-lesson %d for %s", lesson, topic), 0)

	studyContext := fmt.Sprintf("Exam: %s. This is micro-lesson %d/%d.", e.session.exam(), lesson, e.cfg.LessonsPerTopic)
	explanation, err := e.deps.Tutor.Explain(ctx, topic, studyContext, "medium")
	if err != nil {
		return err
	}

	e.logStep(ActionLessonCompleted, map[string]any{
		"topic":         topic,
		"lesson_number": lesson,
		"intuition":     explanation.Intuition,
	}, fmt.Sprintf("Completed micro-lesson %d. Covered: %s", lesson, truncate(explanation.Intuition, 100)), time.Since(started))
	return nil
}

func (e *Engine) runQuiz(ctx context.Context, topic string) (*quiz.Quiz, error) {
	e.session.setPhase(PhaseQuizzing)

	// Short check-in quizzes: 3 questions targeting the 3 most recent
	// misconceptions.
	const quizQuestions = 3
	targeted := e.session.recentMisconceptions(topic, quizQuestions)
	started := time.Now()
	qz, err := e.deps.Quiz.GenerateN(ctx, topic, "Exam: "+e.session.exam(), quizQuestions, targeted)
	if err != nil {
		return nil, err
	}

	reasoning := fmt.Sprintf("Generated %d-question quiz", len(qz.Questions))
	if len(targeted) > 0 {
		reasoning += fmt.Sprintf(" targeting previous misconceptions: %v", targeted)
	}
	e.logStep(ActionQuizGenerated, map[string]any{
		"topic":                   topic,
		"num_questions":           len(qz.Questions),
		"targeted_misconceptions": targeted,
	}, reasoning, time.Since(started))
	return qz, nil
}

// analyze collects answers, diagnoses wrong ones, and folds the score into
// the topic's mastery. Diagnosis failures are logged and skipped; they never
// abort the session.
func (e *Engine) analyze(ctx context.Context, topic string, qz *quiz.Quiz) {
	e.session.setPhase(PhaseAnalyzing)

	correct := 0
	var found []string
	for i := range qz.Questions {
		q := &qz.Questions[i]
		answer, simulated := e.collectAnswer(q)

		right := quiz.Grade(q, answer)
		if right {
			correct++
		}
		e.logStep(ActionAnswerEvaluated, map[string]any{
			"question_id":  q.ID,
			"answer_index": answer,
			"correct":      right,
			"simulated":    simulated,
		}, fmt.Sprintf("Answer %d of %d evaluated", i+1, len(qz.Questions)), 0)

		if right {
			continue
		}

		e.logStep(ActionMisconceptionDetected, map[string]any{
			"question":       truncate(q.Text, 100),
			"student_choice": q.Options[answer],
			"correct_answer": q.Options[q.CorrectOptionIndex],
		}, fmt.Sprintf("Student chose '%s' but correct was '%s'", q.Options[answer], q.Options[q.CorrectOptionIndex]), 0)

		started := time.Now()
		analysis, err := e.deps.Analyzer.Diagnose(ctx, q, answer,
			fmt.Sprintf("Topic: %s. Exam: %s", topic, e.session.exam()))
		if err != nil {
			e.logger.Warn("misconception analysis failed", "topic", topic, "error", err)
			continue
		}

		e.logStep(ActionMisconceptionBusted, map[string]any{
			"confusion":       analysis.InferredConfusion,
			"counter_example": truncate(analysis.CounterExample, 100),
		}, "Identified confusion: "+analysis.InferredConfusion, time.Since(started))
		found = append(found, analysis.InferredConfusion)
	}

	score := float64(correct) / float64(len(qz.Questions)) * 100
	old, updated := e.session.updateMastery(topic, score, found, time.Now().UTC())

	e.logStep(ActionTopicCompleted, map[string]any{
		"topic":       topic,
		"score":       score,
		"correct":     correct,
		"total":       len(qz.Questions),
		"old_mastery": old,
		"new_mastery": updated,
	}, fmt.Sprintf("Completed topic with %d/%d correct. Mastery updated to %.1f%%", correct, len(qz.Questions), updated), 0)
}

// collectAnswer returns the next submitted answer, clamped to the question's
// option range. When none arrives within AnswerWait, it simulates a student
// who answers correctly 70% of the time; the caller flags such answers in
// the step data.
func (e *Engine) collectAnswer(q *quiz.Question) (answer int, simulated bool) {
	// Prefer an already-submitted answer over the timer.
	select {
	case a := <-e.answers:
		return clampIndex(a, len(q.Options)), false
	default:
	}

	if e.cfg.AnswerWait > 0 {
		timer := time.NewTimer(e.cfg.AnswerWait)
		defer timer.Stop()
		select {
		case a := <-e.answers:
			return clampIndex(a, len(q.Options)), false
		case <-timer.C:
		}
	}

	if e.rng.Float64() < 0.7 || len(q.Options) < 2 {
		return q.CorrectOptionIndex, true
	}
	wrong := e.rng.Intn(len(q.Options) - 1)
	if wrong >= q.CorrectOptionIndex {
		wrong++
	}
	return wrong, true
}

// logStep appends one entry to the in-memory run log and mirrors it to the
// store's action history, fail-soft.
func (e *Engine) logStep(action Action, data map[string]any, reasoning string, duration time.Duration) {
	step := Step{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Data:      data,
		Reasoning: reasoning,
	}
	if duration > 0 {
		step.DurationMS = duration.Milliseconds()
	}
	e.session.appendStep(step)

	if e.deps.Sessions == nil {
		return
	}
	meta, err := json.Marshal(map[string]any{"data": data, "reasoning": reasoning})
	if err != nil {
		e.logger.Warn("failed to serialize step metadata", "action", action, "error", err)
		return
	}
	if err := e.deps.Sessions.AppendAction(context.Background(), e.session.ID(), string(action), string(meta)); err != nil {
		e.logger.Warn("failed to persist step", "action", action, "error", err)
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// truncate shortens s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut] + "..."
}

func attemptedOrNone(attempted []string) string {
	if len(attempted) == 0 {
		return "None yet"
	}
	var buf bytes.Buffer
	for i, t := range attempted {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(t)
	}
	return buf.String()
}

const selectSystemPrompt = `You are an intelligent tutor deciding which topic to teach next.

Select the best topic based on:
1. Lowest mastery scores should generally be prioritized.
2. Prerequisites should be studied before advanced topics.
3. Avoid repeating topics already attempted this session unless mastery is very low.
4. Consider spaced repetition for medium-mastery topics.`

type selectInput struct {
	MasteryTable string
	Attempted    string
	ExamType     string
}

var selectTemplate = template.Must(template.New("select").Parse(`AVAILABLE TOPICS:
{{.MasteryTable}}
ALREADY COMPLETED THIS SESSION:
{{.Attempted}}

EXAM TYPE: {{.ExamType}}`))

func renderTemplate(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
