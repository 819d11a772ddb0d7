package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zenith-npc-service/internal/model"
)

// NPCStore persists generated NPCs and reads them back.
type NPCStore interface {
	// SaveNPC writes one individual-kind document and returns its id.
	// A storage failure is propagated to the caller.
	SaveNPC(ctx context.Context, npc model.NPC) (string, error)
	// SaveBatch saves each NPC individually. A failed save is logged and
	// skipped; the call itself never fails and returns the ids that made it.
	SaveBatch(ctx context.Context, npcs []model.NPC) []string
	// SaveCollection writes all NPCs as one collection-kind document.
	// Callers must not invoke it with an empty slice.
	SaveCollection(ctx context.Context, npcs []model.NPC) (string, error)
	// ListNPCs returns all individual-kind documents. Read failures yield an
	// empty slice, not an error.
	ListNPCs(ctx context.Context) []model.StoredNPC
	// Stats counts stored documents by kind. Failures are reported inside
	// the returned struct.
	Stats(ctx context.Context) model.StorageStats
}

// individualDoc is the storage shape of a single generated NPC.
type individualDoc struct {
	model.NPC `bson:",inline"`
	CreatedAt time.Time `bson:"created_at"`
	Kind      string    `bson:"kind"`
}

// collectionDoc wraps a whole generation batch in one document.
type collectionDoc struct {
	Kind        string      `bson:"kind"`
	CreatedAt   time.Time   `bson:"created_at"`
	GeneratedAt string      `bson:"generated_at"`
	Count       int         `bson:"count"`
	NPCs        []model.NPC `bson:"npcs"`
}

// storedDoc is the read shape of an individual document.
type storedDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	model.NPC `bson:",inline"`
	CreatedAt time.Time `bson:"created_at"`
	Kind      string    `bson:"kind"`
}

// MongoStore implements NPCStore on a single MongoDB collection, with the
// kind field discriminating individual and collection documents.
type MongoStore struct {
	coll    *mongo.Collection
	backend string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewMongoStore wraps an already-connected client. The caller owns the
// client lifecycle.
func NewMongoStore(client *mongo.Client, database, collection string, logger zerolog.Logger) *MongoStore {
	return &MongoStore{
		coll:    client.Database(database).Collection(collection),
		backend: fmt.Sprintf("mongodb/%s.%s", database, collection),
		logger:  logger.With().Str("component", "storage").Logger(),
		now:     time.Now,
	}
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func (s *MongoStore) SaveNPC(ctx context.Context, npc model.NPC) (string, error) {
	doc := individualDoc{NPC: npc, CreatedAt: s.now().UTC(), Kind: model.KindIndividual}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		s.logger.Error().Err(err).Str("name", npc.Name).Msg("failed to save NPC")
		return "", fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}
	id := objectIDHex(res.InsertedID)
	s.logger.Info().Str("name", npc.Name).Str("id", id).Msg("saved NPC")
	return id, nil
}

func (s *MongoStore) SaveBatch(ctx context.Context, npcs []model.NPC) []string {
	return saveAll(ctx, s.SaveNPC, npcs, s.logger)
}

// saveAll runs one save per NPC, skipping failures. It never fails as a
// whole; the returned ids are the subset that made it to storage.
func saveAll(ctx context.Context, save func(context.Context, model.NPC) (string, error), npcs []model.NPC, logger zerolog.Logger) []string {
	ids := make([]string, 0, len(npcs))
	for _, npc := range npcs {
		id, err := save(ctx, npc)
		if err != nil {
			logger.Error().Err(err).Str("name", npc.Name).Msg("failed to save NPC in batch, skipping")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *MongoStore) SaveCollection(ctx context.Context, npcs []model.NPC) (string, error) {
	now := s.now().UTC()
	doc := collectionDoc{
		Kind:        model.KindCollection,
		CreatedAt:   now,
		GeneratedAt: now.Format(time.RFC3339),
		Count:       len(npcs),
		NPCs:        npcs,
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(npcs)).Msg("failed to save NPC collection")
		return "", fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}
	id := objectIDHex(res.InsertedID)
	s.logger.Info().Int("count", len(npcs)).Str("id", id).Msg("saved NPC collection")
	return id, nil
}

func (s *MongoStore) ListNPCs(ctx context.Context) []model.StoredNPC {
	cursor, err := s.coll.Find(ctx, bson.M{"kind": model.KindIndividual})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list NPCs, returning empty result")
		return []model.StoredNPC{}
	}
	defer cursor.Close(ctx)

	npcs := []model.StoredNPC{}
	for cursor.Next(ctx) {
		var doc storedDoc
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Error().Err(err).Msg("failed to decode stored NPC, skipping")
			continue
		}
		npcs = append(npcs, model.StoredNPC{
			ID:        doc.ID.Hex(),
			NPC:       doc.NPC,
			CreatedAt: doc.CreatedAt,
			Kind:      doc.Kind,
		})
	}
	if err := cursor.Err(); err != nil {
		s.logger.Error().Err(err).Msg("cursor error while listing NPCs")
	}
	return npcs
}

func (s *MongoStore) Stats(ctx context.Context) model.StorageStats {
	stats := model.StorageStats{Backend: s.backend}

	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count documents")
		stats.Error = err.Error()
		return stats
	}
	individual, err := s.coll.CountDocuments(ctx, bson.M{"kind": model.KindIndividual})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count individual documents")
		stats.Error = err.Error()
		return stats
	}
	collections, err := s.coll.CountDocuments(ctx, bson.M{"kind": model.KindCollection})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count collection documents")
		stats.Error = err.Error()
		return stats
	}

	stats.TotalDocuments = total
	stats.IndividualNPCs = individual
	stats.CollectionFiles = collections
	return stats
}

func objectIDHex(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", id)
}
