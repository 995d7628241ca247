package core

import (
	"context"
	"iter"
)

// mockEmailJSON is a fixed valid response so the whole pipeline stays usable
// without live model credentials.
const mockEmailJSON = `{"subject_line": "Following up on this week's conversation", "body": "Hi there,\n\nThanks for taking the time to meet with us this week. I wanted to recap the key points we discussed and share a few next steps on our side.\n\n- We'll send over the updated integration guide by Friday.\n- Our support team is tracking the open ticket and will follow up directly.\n\nLet me know if anything else comes up in the meantime.\n\nBest,\nCloudFlow Sales"}`

// MockClient is the degraded CompletionClient used when no API key is
// configured. It answers every prompt with the same valid email JSON,
// chunked into fragments for the streaming path.
type MockClient struct {
	Response  string
	ChunkSize int
}

func NewMockClient() *MockClient {
	return &MockClient{Response: mockEmailJSON, ChunkSize: 16}
}

func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	return m.Response, nil
}

func (m *MockClient) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		size := m.ChunkSize
		if size <= 0 {
			size = 16
		}
		for start := 0; start < len(m.Response); start += size {
			end := min(start+size, len(m.Response))
			if !yield(m.Response[start:end], nil) {
				return
			}
		}
	}
}
