package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"zenith-npc-service/internal/messaging"
)

// MockResponsePublisher is a mock type for the messaging.ResponsePublisher
// interface.
type MockResponsePublisher struct {
	mock.Mock
}

func (_m *MockResponsePublisher) Publish(ctx context.Context, topic string, envelope messaging.GenerationResponseEnvelope) error {
	ret := _m.Called(ctx, topic, envelope)
	return ret.Error(0)
}

// NewMockResponsePublisher creates a new mock and registers the test cleanup
// assertion.
func NewMockResponsePublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockResponsePublisher {
	m := &MockResponsePublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ messaging.ResponsePublisher = (*MockResponsePublisher)(nil)
