package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"talentvet/internal/domain"
	"talentvet/internal/port"
)

// MockCandidateExtractor is a mock implementation of port.CandidateExtractor.
type MockCandidateExtractor struct {
	mock.Mock
}

func (m *MockCandidateExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ExtractOutput), args.Error(1)
}

func (m *MockCandidateExtractor) Provider() domain.Provider {
	args := m.Called()
	return args.Get(0).(domain.Provider)
}
