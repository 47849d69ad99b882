package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRepo_SaveAndLoadState(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	if err := repo.SaveState(ctx, "s-1", "PLANNING", `{"user_id":"u1"}`); err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}

	rec, err := repo.LoadState(ctx, "s-1")
	if err != nil {
		t.Fatalf("LoadState returned error: %v", err)
	}
	if rec == nil || rec.Phase != "PLANNING" || rec.Context != `{"user_id":"u1"}` {
		t.Errorf("unexpected record: %+v", rec)
	}

	// Upsert replaces the phase.
	if err := repo.SaveState(ctx, "s-1", "LEARNING", `{}`); err != nil {
		t.Fatalf("second SaveState returned error: %v", err)
	}
	rec, err = repo.LoadState(ctx, "s-1")
	if err != nil {
		t.Fatalf("LoadState after upsert returned error: %v", err)
	}
	if rec.Phase != "LEARNING" {
		t.Errorf("expected upserted phase LEARNING, got %s", rec.Phase)
	}
}

func TestSessionRepo_LoadStateUnknownSession(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Sessions().LoadState(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("LoadState returned error: %v", err)
	}
	if rec != nil {
		t.Errorf("unknown session should load as nil, got %+v", rec)
	}
}

func TestSessionRepo_HistoryPreservesAppendOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	actions := []string{"session_started", "topic_selected", "lesson_started"}
	for _, a := range actions {
		if err := repo.AppendAction(ctx, "s-2", a, `{}`); err != nil {
			t.Fatalf("AppendAction(%s) returned error: %v", a, err)
		}
	}
	// Another session's actions must not leak in.
	if err := repo.AppendAction(ctx, "other", "session_started", `{}`); err != nil {
		t.Fatalf("AppendAction returned error: %v", err)
	}

	history, err := repo.History(ctx, "s-2")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != len(actions) {
		t.Fatalf("expected %d records, got %d", len(actions), len(history))
	}
	for i, rec := range history {
		if rec.Action != actions[i] {
			t.Errorf("position %d: expected %s, got %s", i, actions[i], rec.Action)
		}
	}
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()

	for _, purpose := range []string{"plan-draft", "plan-verify", "plan-draft"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      purpose,
			InputTokens:  10,
			OutputTokens: 20,
			LatencyMs:    5,
			Success:      true,
		})
		if err != nil {
			t.Fatalf("AppendLLMRequest returned error: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents returned error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Newest first.
	if events[0].ID <= events[1].ID {
		t.Errorf("expected descending ids, got %d then %d", events[0].ID, events[1].ID)
	}

	drafts, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "plan-draft"})
	if err != nil {
		t.Fatalf("filtered query returned error: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("expected 2 plan-draft events, got %d", len(drafts))
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("limited query returned error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 event with Limit 1, got %d", len(limited))
	}
}
