// Package syllabus holds the static syllabus registry and the scope guard
// that narrows content-generation requests to the matching syllabus slice.
package syllabus

import (
	"sort"
	"strings"
)

// Block is one subject's syllabus entry. Subjects with nested sub-subjects
// (NEET/JEE chemistry) carry the text per sub-subject in Sub; flat subjects
// carry it in Text.
type Block struct {
	Text string
	Sub  map[string]string
}

// Nested reports whether this subject is split into sub-subjects.
func (b Block) Nested() bool {
	return len(b.Sub) > 0
}

// Full returns the complete text of the block. For nested blocks the
// sub-subject sections are concatenated in stable order.
func (b Block) Full() string {
	if !b.Nested() {
		return b.Text
	}
	keys := make([]string, 0, len(b.Sub))
	for k := range b.Sub {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, b.Sub[k])
	}
	return strings.Join(parts, "\n\n")
}

// Lookup returns the subject block for an exam, or false if either is unknown.
func Lookup(exam, subject string) (Block, bool) {
	subjects, ok := registry[strings.ToLower(exam)]
	if !ok {
		return Block{}, false
	}
	b, ok := subjects[strings.ToLower(subject)]
	return b, ok
}

// Safe returns the narrowest syllabus text for the given scope.
//
// Resolution order: exact exam+subject match; partial (substring) subject
// match; for nested subjects, the sub-subject slice when present, else the
// whole nested block; finally the entire exam's syllabus as an unscoped
// fallback. The guard exists so a request scoped to one subject never
// silently receives content for an unrelated one.
func Safe(exam, subject, subSubject string) string {
	examKey := strings.ToLower(exam)
	subjects, ok := registry[examKey]
	if !ok {
		return ""
	}

	subjectKey := strings.ToLower(strings.TrimSpace(subject))
	block, found := subjects[subjectKey]

	// Partial match fallback: "organic chemistry" should still hit "chemistry".
	if !found && subjectKey != "" {
		for key, b := range subjects {
			if strings.Contains(subjectKey, key) || strings.Contains(key, subjectKey) {
				block, found = b, true
				break
			}
		}
	}

	if found {
		if block.Nested() {
			subKey := strings.ToLower(strings.TrimSpace(subSubject))
			if text, ok := block.Sub[subKey]; ok {
				return text
			}
			return block.Full()
		}
		return block.Text
	}

	// Unscoped fallback: the whole exam's tables.
	return ExamFull(examKey)
}

// ExamFull returns the concatenated syllabus of every subject in an exam.
func ExamFull(exam string) string {
	subjects, ok := registry[strings.ToLower(exam)]
	if !ok {
		return ""
	}
	keys := make([]string, 0, len(subjects))
	for k := range subjects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, subjects[k].Full())
	}
	return strings.Join(parts, "\n\n")
}

// Exams returns the known exam keys in stable order.
func Exams() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
