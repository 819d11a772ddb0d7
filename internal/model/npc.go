package model

import (
	"errors"
	"time"
)

// Kind discriminates individual NPC documents from collection documents
// inside the single storage collection.
const (
	KindIndividual = "individual"
	KindCollection = "collection"
)

// NPC is a generated citizen of Zenith. Field names match the JSON keys the
// AI is instructed to return, so a raw model response unmarshals directly.
type NPC struct {
	Name                   string `json:"Name" bson:"Name"`
	Age                    int    `json:"Age" bson:"Age"`
	Species                string `json:"Species" bson:"Species"`
	PhysicalDescription    string `json:"PhysicalDescription" bson:"PhysicalDescription"`
	PersonalityDescription string `json:"PersonalityDescription" bson:"PersonalityDescription"`
	ResidentDistrict       string `json:"ResidentDistrict" bson:"ResidentDistrict"`
}

// Validate checks that every field carries a value. A record failing this is
// discarded entirely, never stored partially.
func (n NPC) Validate() error {
	switch {
	case n.Name == "":
		return errors.New("npc: Name is empty")
	case n.Age == 0:
		return errors.New("npc: Age is missing or zero")
	case n.Species == "":
		return errors.New("npc: Species is empty")
	case n.PhysicalDescription == "":
		return errors.New("npc: PhysicalDescription is empty")
	case n.PersonalityDescription == "":
		return errors.New("npc: PersonalityDescription is empty")
	case n.ResidentDistrict == "":
		return errors.New("npc: ResidentDistrict is empty")
	}
	return nil
}

// GenerationRequest describes the desired output of one generation call.
// All preference fields are optional; empty means unconstrained.
type GenerationRequest struct {
	Count              int    `json:"count,omitempty"`
	SpeciesPreference  string `json:"species_preference,omitempty"`
	DistrictPreference string `json:"district_preference,omitempty"`
	AgeRange           string `json:"age_range,omitempty"`
}

// NormalizedCount returns the requested record count, defaulting to 1.
func (r GenerationRequest) NormalizedCount() int {
	if r.Count < 1 {
		return 1
	}
	return r.Count
}

// StoredNPC is an NPC read back from storage together with its metadata.
type StoredNPC struct {
	ID        string    `json:"id" bson:"-"`
	NPC       `bson:",inline"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Kind      string    `json:"kind" bson:"kind"`
}

// StorageStats summarizes the contents of the NPC store.
type StorageStats struct {
	TotalDocuments  int64  `json:"total_documents"`
	IndividualNPCs  int64  `json:"individual_npcs"`
	CollectionFiles int64  `json:"collection_files"`
	Backend         string `json:"backend"`
	Error           string `json:"error,omitempty"`
}

// GenerationResult is what the shared pipeline hands back to a transport
// adapter after a multi-record generation run.
type GenerationResult struct {
	NPCs           []NPC
	IndividualIDs  []string
	CollectionID   string
	GeneratedCount int
	RequestedCount int
}

// Sentinel errors of the generation pipeline. Wrapped with %w so callers can
// test with errors.Is.
var (
	// ErrMalformedOutput means the model returned text that did not parse or
	// validate as an NPC. Never retried; the batch loop counts it as a miss.
	ErrMalformedOutput = errors.New("malformed model output")
	// ErrOracleUnavailable means the completion API itself failed
	// (transport, auth, rate limit).
	ErrOracleUnavailable = errors.New("completion API unavailable")
	// ErrStorageUnavailable means the document store rejected an operation.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNoRecordsGenerated means a whole batch produced zero valid records.
	ErrNoRecordsGenerated = errors.New("failed to generate any NPCs")
)

// ErrNoRecordsMessage is the user-facing text for ErrNoRecordsGenerated,
// kept identical across both transports.
const ErrNoRecordsMessage = "Failed to generate any NPCs"
