package mocks

import (
	"context"
)

// PostedRequest captures one call to the mock poster
type PostedRequest struct {
	Endpoint string
	Payload  string
}

// MockPoster is a mock implementation of the XMLPoster port. It records
// every posted payload and returns canned responses in order.
type MockPoster struct {
	Responses []string
	Err       error
	Calls     []PostedRequest
}

// NewMockPoster creates a poster that returns the given responses in
// sequence, repeating the last one once the list runs out
func NewMockPoster(responses ...string) *MockPoster {
	return &MockPoster{
		Responses: responses,
	}
}

// Post records the call and returns the next canned response
func (m *MockPoster) Post(ctx context.Context, endpoint string, payload string) (string, error) {
	m.Calls = append(m.Calls, PostedRequest{Endpoint: endpoint, Payload: payload})
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := len(m.Calls) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// LastCall returns the most recent posted request, or nil if none
func (m *MockPoster) LastCall() *PostedRequest {
	if len(m.Calls) == 0 {
		return nil
	}
	return &m.Calls[len(m.Calls)-1]
}
