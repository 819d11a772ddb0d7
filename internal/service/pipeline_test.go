package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zenith-npc-service/internal/mocks"
	"zenith-npc-service/internal/model"
	"zenith-npc-service/internal/service"
)

func testNPC(name string) model.NPC {
	return model.NPC{
		Name:                   name,
		Age:                    34,
		Species:                "Human",
		PhysicalDescription:    "Broad-shouldered with a perpetually windburned face.",
		PersonalityDescription: "Talks too fast, haggles over everything, fiercely loyal.",
		ResidentDistrict:       "Merchant Quarter",
	}
}

func TestGenerate_MultipleSuccess(t *testing.T) {
	gen := mocks.NewMockNPCGenerator(t)
	store := mocks.NewMockNPCStore(t)
	pipeline := service.New(gen, store, zerolog.Nop())

	req := model.GenerationRequest{Count: 2, SpeciesPreference: "Human"}
	npcs := []model.NPC{testNPC("Asha Venn"), testNPC("Corin Blake")}

	gen.On("GenerateMany", mock.Anything, 2, req).Return(npcs).Once()
	store.On("SaveBatch", mock.Anything, npcs).Return([]string{"id-1", "id-2"}).Once()
	store.On("SaveCollection", mock.Anything, npcs).Return("coll-1", nil).Once()

	result, err := pipeline.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, result.GeneratedCount)
	assert.Equal(t, 2, result.RequestedCount)
	assert.Len(t, result.IndividualIDs, 2)
	assert.Equal(t, "coll-1", result.CollectionID)
}

func TestGenerate_PartialSuccess(t *testing.T) {
	gen := mocks.NewMockNPCGenerator(t)
	store := mocks.NewMockNPCStore(t)
	pipeline := service.New(gen, store, zerolog.Nop())

	req := model.GenerationRequest{Count: 3}
	npcs := []model.NPC{testNPC("Only Survivor")}

	gen.On("GenerateMany", mock.Anything, 3, req).Return(npcs).Once()
	store.On("SaveBatch", mock.Anything, npcs).Return([]string{"id-1"}).Once()
	store.On("SaveCollection", mock.Anything, npcs).Return("coll-1", nil).Once()

	result, err := pipeline.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, result.GeneratedCount)
	assert.Equal(t, 3, result.RequestedCount)
}

func TestGenerate_NoRecords_NoStorageCalls(t *testing.T) {
	gen := mocks.NewMockNPCGenerator(t)
	store := mocks.NewMockNPCStore(t)
	pipeline := service.New(gen, store, zerolog.Nop())

	req := model.GenerationRequest{Count: 1}
	gen.On("GenerateMany", mock.Anything, 1, req).Return([]model.NPC{}).Once()

	_, err := pipeline.Generate(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrNoRecordsGenerated)

	store.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SaveCollection", mock.Anything, mock.Anything)
}

func TestGenerate_SingleCount_NoCollection(t *testing.T) {
	gen := mocks.NewMockNPCGenerator(t)
	store := mocks.NewMockNPCStore(t)
	pipeline := service.New(gen, store, zerolog.Nop())

	req := model.GenerationRequest{} // defaults to count 1
	npcs := []model.NPC{testNPC("Solo")}

	gen.On("GenerateMany", mock.Anything, 1, req).Return(npcs).Once()
	store.On("SaveBatch", mock.Anything, npcs).Return([]string{"id-1"}).Once()

	result, err := pipeline.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, result.CollectionID)
	store.AssertNotCalled(t, "SaveCollection", mock.Anything, mock.Anything)
}

func TestGenerate_CollectionWriteFailurePropagates(t *testing.T) {
	gen := mocks.NewMockNPCGenerator(t)
	store := mocks.NewMockNPCStore(t)
	pipeline := service.New(gen, store, zerolog.Nop())

	req := model.GenerationRequest{Count: 2}
	npcs := []model.NPC{testNPC("A"), testNPC("B")}

	gen.On("GenerateMany", mock.Anything, 2, req).Return(npcs).Once()
	store.On("SaveBatch", mock.Anything, npcs).Return([]string{"id-1", "id-2"}).Once()
	store.On("SaveCollection", mock.Anything, npcs).Return("", model.ErrStorageUnavailable).Once()

	_, err := pipeline.Generate(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
}

func TestGenerateSingle_Success(t *testing.T) {
	gen := mocks.NewMockNPCGenerator(t)
	store := mocks.NewMockNPCStore(t)
	pipeline := service.New(gen, store, zerolog.Nop())

	req := model.GenerationRequest{Count: 1, DistrictPreference: "Tech District"}
	npc := testNPC("Mira Voss")

	gen.On("GenerateOne", mock.Anything, req).Return(npc, nil).Once()
	store.On("SaveNPC", mock.Anything, npc).Return("id-42", nil).Once()

	got, id, err := pipeline.GenerateSingle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, npc, got)
	assert.Equal(t, "id-42", id)
}

func TestGenerateSingle_GenerationFailure(t *testing.T) {
	gen := mocks.NewMockNPCGenerator(t)
	store := mocks.NewMockNPCStore(t)
	pipeline := service.New(gen, store, zerolog.Nop())

	req := model.GenerationRequest{Count: 1}
	gen.On("GenerateOne", mock.Anything, req).Return(model.NPC{}, model.ErrMalformedOutput).Once()

	_, _, err := pipeline.GenerateSingle(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrNoRecordsGenerated)
	store.AssertNotCalled(t, "SaveNPC", mock.Anything, mock.Anything)
}

func TestGenerateSingle_StorageFailurePropagates(t *testing.T) {
	gen := mocks.NewMockNPCGenerator(t)
	store := mocks.NewMockNPCStore(t)
	pipeline := service.New(gen, store, zerolog.Nop())

	req := model.GenerationRequest{Count: 1}
	npc := testNPC("Doomed Save")

	gen.On("GenerateOne", mock.Anything, req).Return(npc, nil).Once()
	store.On("SaveNPC", mock.Anything, npc).Return("", model.ErrStorageUnavailable).Once()

	_, _, err := pipeline.GenerateSingle(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
}
