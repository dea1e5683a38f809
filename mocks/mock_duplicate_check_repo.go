package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"talentvet/internal/domain"
)

// MockDuplicateCheckRepo is a mock implementation of port.DuplicateCheckRepository.
type MockDuplicateCheckRepo struct {
	mock.Mock
}

func (m *MockDuplicateCheckRepo) Insert(ctx context.Context, check *domain.DuplicateCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

func (m *MockDuplicateCheckRepo) RecordResolution(ctx context.Context, checkID uuid.UUID, resolution domain.Resolution, actor string) error {
	args := m.Called(ctx, checkID, resolution, actor)
	return args.Error(0)
}

func (m *MockDuplicateCheckRepo) ListBySource(ctx context.Context, sourceHash string) ([]domain.DuplicateCheck, error) {
	args := m.Called(ctx, sourceHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DuplicateCheck), args.Error(1)
}
