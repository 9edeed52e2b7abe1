// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/packgenius/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCalculationService struct {
	mock.Mock
}

func (m *MockCalculationService) Calculate(ctx context.Context, req service.CalculationRequest) (service.CalculationOutcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(service.CalculationOutcome), args.Error(1)
}

// NewMockCalculationService creates a new MockCalculationService and asserts its expectations on cleanup.
func NewMockCalculationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCalculationService {
	m := &MockCalculationService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
