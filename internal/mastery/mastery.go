// Package mastery tracks per-topic proficiency derived from quiz performance.
package mastery

import "time"

// Mastery holds the proficiency record for a single topic within a session.
type Mastery struct {
	Topic          string     `json:"topic"`
	Score          float64    `json:"score"` // 0-100
	Attempts       int        `json:"attempts"`
	Misconceptions []string   `json:"misconceptions"`
	LastAttempted  *time.Time `json:"last_attempted,omitempty"`
}

// New returns a fresh record for a topic.
func New(topic string) *Mastery {
	return &Mastery{Topic: topic}
}

// Update folds a new quiz score into the record.
//
// The first attempt takes the score as-is. Later attempts use a
// recency-weighted running average: the old score's weight is
// min(attempts, 3)/(attempts+1), so after three attempts the weighting
// stabilizes near 75%/25% and a single excellent or terrible quiz still
// moves the score meaningfully instead of drowning in history.
//
// Misconception labels are appended without deduplication — repeats are a
// frequency signal.
func (m *Mastery) Update(scorePercent float64, misconceptions []string, now time.Time) {
	if m.Attempts == 0 {
		m.Score = scorePercent
	} else {
		oldWeight := float64(min(m.Attempts, 3)) / float64(m.Attempts+1)
		m.Score = m.Score*oldWeight + scorePercent*(1-oldWeight)
	}

	m.Score = clamp(m.Score, 0, 100)
	m.Attempts++
	m.Misconceptions = append(m.Misconceptions, misconceptions...)
	m.LastAttempted = &now
}

// RecentMisconceptions returns up to n of the most recently recorded
// misconception labels, newest last.
func (m *Mastery) RecentMisconceptions(n int) []string {
	if n <= 0 || len(m.Misconceptions) == 0 {
		return nil
	}
	if len(m.Misconceptions) <= n {
		return m.Misconceptions
	}
	return m.Misconceptions[len(m.Misconceptions)-n:]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
