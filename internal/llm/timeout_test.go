package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// blockingProvider waits for its context to be cancelled before returning.
type blockingProvider struct{}

func (b *blockingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (b *blockingProvider) ModelID() string { return "blocking" }

func TestTimeout_CancelsHungGenerate(t *testing.T) {
	p := WithTimeout(&blockingProvider{}, 5*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancel took too long: %v", elapsed)
	}
}

func TestTimeout_FastCallUnaffected(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"ok": true}`)})
	p := WithTimeout(mock, time.Minute)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok": true}` {
		t.Errorf("unexpected content: %s", resp.Content)
	}
}

func TestTimeout_ZeroDurationUnwrapped(t *testing.T) {
	mock := NewMockProvider()
	if p := WithTimeout(mock, 0); p != Provider(mock) {
		t.Error("zero timeout should return the provider unwrapped")
	}
}
