package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bikepulse/pkg/contracts/domain"
)

// MockTableSource is a mock for TableSource
type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) Tables(ctx context.Context) (*domain.Tables, error) {
	args := m.Called(ctx)
	tables, _ := args.Get(0).(*domain.Tables)
	return tables, args.Error(1)
}

// MockDataReadiness is a mock for DataReadiness
type MockDataReadiness struct {
	mock.Mock
}

func (m *MockDataReadiness) Ready() bool {
	return m.Called().Bool(0)
}

func (m *MockDataReadiness) LoadedAt() time.Time {
	return m.Called().Get(0).(time.Time)
}

// MockClientCounter is a mock for ClientCounter
type MockClientCounter struct {
	mock.Mock
}

func (m *MockClientCounter) ClientCount() int {
	return m.Called().Int(0)
}
