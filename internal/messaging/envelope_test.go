package messaging_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenith-npc-service/internal/messaging"
	"zenith-npc-service/internal/model"
)

const defaultTopic = "npc-generation-response"

func TestDecodeRequestEnvelope_Nested(t *testing.T) {
	body := []byte(`{
		"request_id": "req-123",
		"response_topic": "my-replies",
		"request": {"count": 3, "species_preference": "Elf", "age_range": "50-200"}
	}`)

	env, err := messaging.DecodeRequestEnvelope(body, defaultTopic)
	require.NoError(t, err)

	assert.Equal(t, "req-123", env.RequestID)
	assert.Equal(t, "my-replies", env.ResponseTopic)
	assert.Equal(t, 3, env.Request.Count)
	assert.Equal(t, "Elf", env.Request.SpeciesPreference)
	assert.Equal(t, "50-200", env.Request.AgeRange)
}

func TestDecodeRequestEnvelope_FlatFallback(t *testing.T) {
	// Debug producers post generation parameters at the top level.
	body := []byte(`{"count": 2, "district_preference": "Tech District"}`)

	env, err := messaging.DecodeRequestEnvelope(body, defaultTopic)
	require.NoError(t, err)

	assert.Equal(t, 2, env.Request.Count)
	assert.Equal(t, "Tech District", env.Request.DistrictPreference)
	assert.Equal(t, defaultTopic, env.ResponseTopic, "missing response topic falls back to the default queue")

	_, parseErr := uuid.Parse(env.RequestID)
	assert.NoError(t, parseErr, "a missing request id must be generated")
}

func TestDecodeRequestEnvelope_FlatWithCorrelation(t *testing.T) {
	body := []byte(`{"request_id": "manual-1", "response_topic": "debug-out", "count": 1}`)

	env, err := messaging.DecodeRequestEnvelope(body, defaultTopic)
	require.NoError(t, err)

	assert.Equal(t, "manual-1", env.RequestID)
	assert.Equal(t, "debug-out", env.ResponseTopic)
	assert.Equal(t, 1, env.Request.Count)
}

func TestDecodeRequestEnvelope_Garbage(t *testing.T) {
	_, err := messaging.DecodeRequestEnvelope([]byte("not json at all"), defaultTopic)
	assert.Error(t, err)
}

func TestResponseEnvelopes(t *testing.T) {
	result := model.GenerationResult{
		NPCs:           []model.NPC{{Name: "A"}},
		IndividualIDs:  []string{"id-1"},
		CollectionID:   "coll-1",
		GeneratedCount: 1,
		RequestedCount: 2,
	}

	success := messaging.NewSuccessResponse("req-1", result)
	assert.Equal(t, "req-1", success.RequestID)
	assert.True(t, success.Response.Success)
	assert.Equal(t, 1, success.Response.GeneratedCount)
	assert.Equal(t, "coll-1", success.Response.CollectionID)
	assert.Empty(t, success.Response.Error)

	failure := messaging.NewFailureResponse("req-2", 5, model.ErrNoRecordsMessage)
	assert.Equal(t, "req-2", failure.RequestID)
	assert.False(t, failure.Response.Success)
	assert.Equal(t, 5, failure.Response.RequestedCount)
	assert.Equal(t, "Failed to generate any NPCs", failure.Response.Error)
}
