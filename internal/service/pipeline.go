package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"zenith-npc-service/internal/generator"
	"zenith-npc-service/internal/model"
	"zenith-npc-service/internal/storage"
)

// Service is the generate→validate→persist pipeline shared by the HTTP
// handlers and the queue consumer. Transports differ only in how they decode
// input and encode output.
type Service struct {
	gen    generator.NPCGenerator
	store  storage.NPCStore
	logger zerolog.Logger
}

// New wires the pipeline from its two collaborators.
func New(gen generator.NPCGenerator, store storage.NPCStore, logger zerolog.Logger) *Service {
	return &Service{
		gen:    gen,
		store:  store,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// GenerateSingle produces and persists exactly one NPC. Generation failure
// surfaces as ErrNoRecordsGenerated; a storage failure is propagated as-is.
func (s *Service) GenerateSingle(ctx context.Context, req model.GenerationRequest) (model.NPC, string, error) {
	npc, err := s.gen.GenerateOne(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Msg("single NPC generation failed")
		return model.NPC{}, "", fmt.Errorf("%w: %v", model.ErrNoRecordsGenerated, err)
	}
	id, err := s.store.SaveNPC(ctx, npc)
	if err != nil {
		return model.NPC{}, "", err
	}
	return npc, id, nil
}

// Generate produces up to req count NPCs, saves each one individually and,
// for multi-record requests, the whole batch as a collection document.
// Individual save failures are absorbed by the batch write; a collection
// write failure is propagated. Zero generated records abort before any
// storage call.
func (s *Service) Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResult, error) {
	count := req.NormalizedCount()
	result := model.GenerationResult{RequestedCount: count}

	npcs := s.gen.GenerateMany(ctx, count, req)
	if len(npcs) == 0 {
		s.logger.Error().Int("requested", count).Msg("generation produced no valid NPCs")
		return result, model.ErrNoRecordsGenerated
	}

	result.NPCs = npcs
	result.GeneratedCount = len(npcs)
	result.IndividualIDs = s.store.SaveBatch(ctx, npcs)

	if count > 1 {
		collectionID, err := s.store.SaveCollection(ctx, npcs)
		if err != nil {
			return result, err
		}
		result.CollectionID = collectionID
	}

	s.logger.Info().
		Int("requested", count).
		Int("generated", len(npcs)).
		Int("saved", len(result.IndividualIDs)).
		Str("collection_id", result.CollectionID).
		Msg("generation batch completed")
	return result, nil
}

// ListNPCs returns the stored individual NPCs.
func (s *Service) ListNPCs(ctx context.Context) []model.StoredNPC {
	return s.store.ListNPCs(ctx)
}

// Stats returns storage statistics.
func (s *Service) Stats(ctx context.Context) model.StorageStats {
	return s.store.Stats(ctx)
}
