package autopilot

import (
	"sync"
	"time"

	"github.com/exammentor/exammentor/internal/mastery"
	"github.com/exammentor/exammentor/internal/plan"
)

// Session is the state of one autopilot run. It is mutated only by its own
// engine; other readers take point-in-time copies through Snapshot.
type Session struct {
	mu sync.RWMutex

	id              string
	status          Status
	startedAt       *time.Time
	pausedAt        *time.Time
	completedAt     *time.Time
	targetDuration  time.Duration
	elapsed         time.Duration
	currentTopic    string
	currentPhase    string
	topicsCompleted int
	topicsAttempted []string
	mastery         map[string]*mastery.Mastery
	steps           []Step
	plan            *plan.StudyPlan
	examType        string
}

// NewSession creates an idle session.
func NewSession(id string) *Session {
	return &Session{
		id:           id,
		status:       StatusIdle,
		currentPhase: PhaseSelectingTopic,
		mastery:      map[string]*mastery.Mastery{},
		examType:     "NEET",
	}
}

// Configure attaches the plan snapshot, exam type, and time budget before a
// run starts.
func (s *Session) Configure(p *plan.StudyPlan, examType string, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
	if examType != "" {
		s.examType = examType
	}
	s.targetDuration = duration
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Steps returns a copy of the run log.
func (s *Session) Steps() []Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Snapshot is a point-in-time copy of a session for API responses.
type Snapshot struct {
	SessionID             string                     `json:"session_id"`
	Status                Status                     `json:"status"`
	StartedAt             *time.Time                 `json:"started_at,omitempty"`
	PausedAt              *time.Time                 `json:"paused_at,omitempty"`
	CompletedAt           *time.Time                 `json:"completed_at,omitempty"`
	TargetDurationMinutes int                        `json:"target_duration_minutes"`
	ElapsedSeconds        int                        `json:"elapsed_seconds"`
	CurrentTopic          string                     `json:"current_topic,omitempty"`
	CurrentPhase          string                     `json:"current_phase"`
	TopicsCompleted       int                        `json:"topics_completed"`
	TopicsAttempted       []string                   `json:"topics_attempted"`
	TopicMastery          map[string]mastery.Mastery `json:"topic_mastery"`
	Steps                 []Step                     `json:"steps"`
	ExamType              string                     `json:"exam_type"`
}

// Snapshot copies the session state under the lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		SessionID:             s.id,
		Status:                s.status,
		StartedAt:             s.startedAt,
		PausedAt:              s.pausedAt,
		CompletedAt:           s.completedAt,
		TargetDurationMinutes: int(s.targetDuration / time.Minute),
		ElapsedSeconds:        int(s.elapsed / time.Second),
		CurrentTopic:          s.currentTopic,
		CurrentPhase:          s.currentPhase,
		TopicsCompleted:       s.topicsCompleted,
		TopicsAttempted:       append([]string(nil), s.topicsAttempted...),
		TopicMastery:          make(map[string]mastery.Mastery, len(s.mastery)),
		Steps:                 make([]Step, len(s.steps)),
		ExamType:              s.examType,
	}
	for topic, m := range s.mastery {
		snap.TopicMastery[topic] = *m
	}
	copy(snap.Steps, s.steps)
	return snap
}

func (s *Session) appendStep(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
	now := time.Now().UTC()
	switch st {
	case StatusRunning:
		if s.startedAt == nil {
			s.startedAt = &now
		}
	case StatusPaused:
		s.pausedAt = &now
	case StatusCompleted, StatusError:
		s.completedAt = &now
	}
}

func (s *Session) setPhase(phase string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPhase = phase
}

func (s *Session) setElapsed(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = d
}

func (s *Session) noteTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTopic = topic
	s.topicsAttempted = append(s.topicsAttempted, topic)
}

func (s *Session) completeTopic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topicsCompleted++
}

func (s *Session) topicsDone() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topicsCompleted
}

func (s *Session) stepCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.steps)
}

func (s *Session) attempted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.topicsAttempted...)
}

func (s *Session) planTopics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.plan == nil {
		return nil
	}
	var topics []string
	for _, day := range s.plan.Schedule {
		for _, t := range day.Topics {
			topics = append(topics, t.Name)
		}
	}
	return topics
}

func (s *Session) exam() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.examType
}

func (s *Session) target() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targetDuration
}

// masterySnapshot returns a copy of the topic's mastery record, or a fresh
// one if the topic has not been attempted yet.
func (s *Session) masterySnapshot(topic string) mastery.Mastery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.mastery[topic]; ok {
		return *m
	}
	return *mastery.New(topic)
}

// recentMisconceptions returns up to n of the topic's newest misconception
// labels.
func (s *Session) recentMisconceptions(topic string, n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mastery[topic]
	if !ok {
		return nil
	}
	return m.RecentMisconceptions(n)
}

// updateMastery applies one quiz result and returns the old and new scores.
func (s *Session) updateMastery(topic string, scorePercent float64, misconceptions []string, now time.Time) (old, updated float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mastery[topic]
	if !ok {
		m = mastery.New(topic)
		s.mastery[topic] = m
	}
	old = m.Score
	m.Update(scorePercent, misconceptions, now)
	return old, m.Score
}
