// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"io"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) List(ctx context.Context) ([]model.BoxItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BoxItem), args.Error(1)
}

func (m *MockInventoryService) Upsert(ctx context.Context, items []model.BoxItem) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryService) Import(ctx context.Context, r io.Reader) (service.ImportResult, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(service.ImportResult), args.Error(1)
}

func (m *MockInventoryService) SeedDefaults(ctx context.Context, items []model.BoxItem) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}

// NewMockInventoryService creates a new MockInventoryService and asserts its expectations on cleanup.
func NewMockInventoryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockInventoryService {
	m := &MockInventoryService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
