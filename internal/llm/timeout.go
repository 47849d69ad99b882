package llm

import (
	"context"
	"time"
)

// TimeoutProvider is a decorator that bounds each Generate call with a
// deadline. Stacked outside the retry decorator, the deadline covers the
// whole retry loop, matching the Config.Timeout contract.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so each Generate call is cancelled after d.
// A non-positive duration returns the provider unwrapped.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

// GenerateStream delegates without a deadline: a stream is consumed
// incrementally after this call returns, and cancelling its context here
// would tear it down mid-read. Callers bound streams themselves.
func (t *TimeoutProvider) GenerateStream(ctx context.Context, req Request) (Stream, error) {
	if s, ok := t.inner.(Streamer); ok {
		return s.GenerateStream(ctx, req)
	}
	return FallbackStream(ctx, t, req)
}
