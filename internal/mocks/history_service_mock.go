// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Save(ctx context.Context, entry *model.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryService) List(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryEntry), args.Error(1)
}

func (m *MockHistoryService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHistoryService) Clear(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// NewMockHistoryService creates a new MockHistoryService and asserts its expectations on cleanup.
func NewMockHistoryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHistoryService {
	m := &MockHistoryService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
