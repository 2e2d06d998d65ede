package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of Asker for testing
type MockClient struct {
	// Mock return values
	ResultVal Result
	AskFunc   func(ctx context.Context, question string) Result

	// Call recorders
	mu        sync.Mutex
	Questions []string
}

// Ensure MockClient implements Asker
var _ Asker = (*MockClient)(nil)

func (m *MockClient) Ask(ctx context.Context, question string) Result {
	m.mu.Lock()
	m.Questions = append(m.Questions, question)
	m.mu.Unlock()

	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return m.ResultVal
}

// CallCount returns how many times Ask was called
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Questions)
}
