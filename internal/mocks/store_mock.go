package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"zenith-npc-service/internal/model"
	"zenith-npc-service/internal/storage"
)

// MockNPCStore is a mock type for the storage.NPCStore interface.
type MockNPCStore struct {
	mock.Mock
}

func (_m *MockNPCStore) SaveNPC(ctx context.Context, npc model.NPC) (string, error) {
	ret := _m.Called(ctx, npc)
	return ret.String(0), ret.Error(1)
}

func (_m *MockNPCStore) SaveBatch(ctx context.Context, npcs []model.NPC) []string {
	ret := _m.Called(ctx, npcs)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).([]string)
}

func (_m *MockNPCStore) SaveCollection(ctx context.Context, npcs []model.NPC) (string, error) {
	ret := _m.Called(ctx, npcs)
	return ret.String(0), ret.Error(1)
}

func (_m *MockNPCStore) ListNPCs(ctx context.Context) []model.StoredNPC {
	ret := _m.Called(ctx)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).([]model.StoredNPC)
}

func (_m *MockNPCStore) Stats(ctx context.Context) model.StorageStats {
	ret := _m.Called(ctx)
	return ret.Get(0).(model.StorageStats)
}

// NewMockNPCStore creates a new mock and registers the test cleanup
// assertion.
func NewMockNPCStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNPCStore {
	m := &MockNPCStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ storage.NPCStore = (*MockNPCStore)(nil)
