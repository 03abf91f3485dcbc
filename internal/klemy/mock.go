package klemy

import "context"

// MockClient for testing
type MockClient struct {
	Translation string
	Error       error
	Calls       int
}

func (m *MockClient) Translate(ctx context.Context, text string) (string, error) {
	m.Calls++
	return m.Translation, m.Error
}
