package translate

import (
	"context"
	"sync"
	"sync/atomic"
)

// stubClient is a deterministic, call-counting completion client.
type stubClient struct {
	calls    atomic.Int64
	complete func(system, user string) (string, error)
}

func (s *stubClient) Complete(ctx context.Context, system, user string) (string, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.complete(system, user)
}

// fixedClient always returns the given raw output.
func fixedClient(raw string) *stubClient {
	return &stubClient{complete: func(_, _ string) (string, error) {
		return raw, nil
	}}
}

// failingClient always returns the given error.
func failingClient(err error) *stubClient {
	return &stubClient{complete: func(_, _ string) (string, error) {
		return "", err
	}}
}

// memRecorder captures appended attempts for assertions.
type memRecorder struct {
	mu      sync.Mutex
	records []QueryRecord
	results []TranslationResult
}

func (m *memRecorder) Append(record QueryRecord, result TranslationResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	m.results = append(m.results, result)
}

func (m *memRecorder) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}
