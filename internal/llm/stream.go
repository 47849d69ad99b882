package llm

import (
	"context"
	"io"
	"sync"
)

// chunkStream serves a fixed list of fragments. Used by FallbackStream and
// the mock provider.
type chunkStream struct {
	mu     sync.Mutex
	chunks []string
	pos    int
	err    error
}

func newChunkStream(chunks []string) *chunkStream {
	return &chunkStream{chunks: chunks}
}

func (s *chunkStream) Recv() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.pos >= len(s.chunks) {
		return "", io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}

func (s *chunkStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = io.EOF
	return nil
}

// FallbackStream adapts a non-streaming Provider to the Stream contract by
// running a single Generate call and emitting the whole result as one
// fragment. Callers get live streaming where the provider supports it and a
// one-shot stream where it does not.
func FallbackStream(ctx context.Context, p Provider, req Request) (Stream, error) {
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	text := string(resp.Content)
	return newChunkStream([]string{text}), nil
}

// StreamFrom returns a Stream for the given provider, using native streaming
// when available.
func StreamFrom(ctx context.Context, p Provider, req Request) (Stream, error) {
	if s, ok := p.(Streamer); ok {
		return s.GenerateStream(ctx, req)
	}
	return FallbackStream(ctx, p, req)
}

// Drain reads a stream to completion and returns the concatenated text.
func Drain(s Stream) (string, error) {
	defer s.Close()
	var out []byte
	for {
		chunk, err := s.Recv()
		if err == io.EOF {
			return string(out), nil
		}
		if err != nil {
			return string(out), err
		}
		out = append(out, chunk...)
	}
}
