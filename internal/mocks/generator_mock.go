package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"zenith-npc-service/internal/generator"
	"zenith-npc-service/internal/model"
)

// MockNPCGenerator is a mock type for the generator.NPCGenerator interface.
type MockNPCGenerator struct {
	mock.Mock
}

func (_m *MockNPCGenerator) GenerateOne(ctx context.Context, req model.GenerationRequest) (model.NPC, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(model.NPC), ret.Error(1)
}

func (_m *MockNPCGenerator) GenerateMany(ctx context.Context, count int, req model.GenerationRequest) []model.NPC {
	ret := _m.Called(ctx, count, req)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).([]model.NPC)
}

// NewMockNPCGenerator creates a new mock and registers the test cleanup
// assertion.
func NewMockNPCGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNPCGenerator {
	m := &MockNPCGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ generator.NPCGenerator = (*MockNPCGenerator)(nil)
