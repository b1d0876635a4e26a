package insight

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shopsmart/api/gemini"
)

// MockGenerator is a mock implementation of the Generator interface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, req gemini.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
