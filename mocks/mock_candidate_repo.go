package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"talentvet/internal/domain"
	"talentvet/internal/port"
)

// MockCandidateRepo is a mock implementation of port.CandidateRepository.
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) Upsert(ctx context.Context, c *domain.Candidate) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCandidateRepo) FetchByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) FetchByPhone(ctx context.Context, phoneSuffix string) (*domain.Candidate, error) {
	args := m.Called(ctx, phoneSuffix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) ListIdentifiers(ctx context.Context) ([]port.CandidateIdentifier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.CandidateIdentifier), args.Error(1)
}
