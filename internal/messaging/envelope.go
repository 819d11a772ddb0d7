package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"zenith-npc-service/internal/model"
)

// GenerationRequestEnvelope correlates an inbound generation request with the
// queue the caller wants the result delivered to.
type GenerationRequestEnvelope struct {
	RequestID     string                  `json:"request_id"`
	ResponseTopic string                  `json:"response_topic"`
	Request       model.GenerationRequest `json:"request"`
}

// GenerationResponse is the transport-shaped result of one generation run.
type GenerationResponse struct {
	Success        bool        `json:"success"`
	GeneratedCount int         `json:"generated_count"`
	RequestedCount int         `json:"requested_count"`
	NPCs           []model.NPC `json:"npcs,omitempty"`
	IndividualIDs  []string    `json:"individual_ids,omitempty"`
	CollectionID   string      `json:"collection_id,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// GenerationResponseEnvelope is published to the caller's response topic,
// tagged with the original request id.
type GenerationResponseEnvelope struct {
	RequestID string             `json:"request_id"`
	Response  GenerationResponse `json:"response"`
}

// flatRequest is the debug-producer shape: correlation fields and generation
// parameters all at the top level, every one of them optional.
type flatRequest struct {
	RequestID     string `json:"request_id"`
	ResponseTopic string `json:"response_topic"`
	model.GenerationRequest
}

// DecodeRequestEnvelope parses an inbound message body. The primary form is
// the nested envelope; as a fallback for manual/debug producers a flat JSON
// object is accepted, with a generated request id and the default response
// topic filled in where absent. A body that decodes to neither form is a
// decode failure and the message must be dropped (no response is possible).
func DecodeRequestEnvelope(body []byte, defaultResponseTopic string) (GenerationRequestEnvelope, error) {
	var env GenerationRequestEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.RequestID != "" && env.ResponseTopic != "" {
		return env, nil
	}

	var flat flatRequest
	if err := json.Unmarshal(body, &flat); err != nil {
		return GenerationRequestEnvelope{}, fmt.Errorf("undecodable request envelope: %w", err)
	}

	// A nested request block wins over top-level parameters when both decoded.
	request := env.Request
	if request == (model.GenerationRequest{}) {
		request = flat.GenerationRequest
	}
	env = GenerationRequestEnvelope{
		RequestID:     flat.RequestID,
		ResponseTopic: flat.ResponseTopic,
		Request:       request,
	}
	if env.RequestID == "" {
		env.RequestID = uuid.NewString()
	}
	if env.ResponseTopic == "" {
		env.ResponseTopic = defaultResponseTopic
	}
	return env, nil
}

// NewSuccessResponse shapes a pipeline result for the wire.
func NewSuccessResponse(requestID string, result model.GenerationResult) GenerationResponseEnvelope {
	return GenerationResponseEnvelope{
		RequestID: requestID,
		Response: GenerationResponse{
			Success:        true,
			GeneratedCount: result.GeneratedCount,
			RequestedCount: result.RequestedCount,
			NPCs:           result.NPCs,
			IndividualIDs:  result.IndividualIDs,
			CollectionID:   result.CollectionID,
		},
	}
}

// NewFailureResponse shapes an error for the wire.
func NewFailureResponse(requestID string, requestedCount int, message string) GenerationResponseEnvelope {
	return GenerationResponseEnvelope{
		RequestID: requestID,
		Response: GenerationResponse{
			Success:        false,
			RequestedCount: requestedCount,
			Error:          message,
		},
	}
}
