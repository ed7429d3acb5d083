package tui

import (
	"context"
	"sync"
)

// testAsker is a canned Asker for tests.
type testAsker struct {
	mu      sync.Mutex
	answer  string
	err     error
	queries []string
}

func (a *testAsker) Ask(_ context.Context, query string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queries = append(a.queries, query)
	return a.answer, a.err
}
