package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"zenith-npc-service/internal/model"
)

// Fixed sampling parameters for NPC generation. These are design constants,
// not tunables.
const (
	generationTemperature = 0.8
	generationMaxTokens   = 500
)

// NPCGenerator produces validated NPC records from the completion API.
type NPCGenerator interface {
	// GenerateOne requests a single NPC. It returns ErrMalformedOutput when
	// the model response does not parse or validate, and ErrOracleUnavailable
	// when the API call itself fails. Neither is retried.
	GenerateOne(ctx context.Context, req model.GenerationRequest) (model.NPC, error)
	// GenerateMany calls GenerateOne count times sequentially and collects
	// the successes. The result may be shorter than count, or empty.
	GenerateMany(ctx context.Context, count int, req model.GenerationRequest) []model.NPC
}

// chatCompleter is the seam between the generator and go-openai, so tests
// can substitute a fake completion backend.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements NPCGenerator over an OpenAI-compatible chat API.
type Client struct {
	api    chatCompleter
	model  string
	logger zerolog.Logger
}

// Config carries the completion API settings.
type Config struct {
	APIKey  string
	BaseURL string // empty means the default OpenAI endpoint
	Model   string
}

// NewClient builds a generation client for the configured completion API.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generator: API key is not set")
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		model:  cfg.Model,
		logger: logger.With().Str("component", "generator").Logger(),
	}, nil
}

// newClientWithCompleter is used by tests to inject a fake API.
func newClientWithCompleter(api chatCompleter, modelName string, logger zerolog.Logger) *Client {
	return &Client{api: api, model: modelName, logger: logger}
}

// GenerateOne builds the prompt, runs one completion and parses the result.
func (c *Client) GenerateOne(ctx context.Context, req model.GenerationRequest) (model.NPC, error) {
	prompt := BuildPrompt(req)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("chat completion request failed")
		return model.NPC{}, fmt.Errorf("%w: %v", model.ErrOracleUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		c.logger.Error().Msg("chat completion returned no choices")
		return model.NPC{}, fmt.Errorf("%w: empty choices", model.ErrMalformedOutput)
	}

	content := stripCodeFences(resp.Choices[0].Message.Content)

	var npc model.NPC
	if err := json.Unmarshal([]byte(content), &npc); err != nil {
		c.logger.Error().Err(err).Str("raw", content).Msg("failed to parse model response as NPC JSON")
		return model.NPC{}, fmt.Errorf("%w: %v", model.ErrMalformedOutput, err)
	}
	if err := npc.Validate(); err != nil {
		c.logger.Error().Err(err).Str("raw", content).Msg("model response failed NPC validation")
		return model.NPC{}, fmt.Errorf("%w: %v", model.ErrMalformedOutput, err)
	}

	c.logger.Info().Str("name", npc.Name).Msg("generated NPC")
	return npc, nil
}

// GenerateMany runs count independent generations and keeps the successes.
// A failed generation is logged and skipped; it never aborts the batch.
func (c *Client) GenerateMany(ctx context.Context, count int, req model.GenerationRequest) []model.NPC {
	npcs := make([]model.NPC, 0, count)
	for i := 0; i < count; i++ {
		npc, err := c.GenerateOne(ctx, req)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", i+1).Int("count", count).Msg("failed to generate NPC")
			continue
		}
		npcs = append(npcs, npc)
	}
	return npcs
}

// stripCodeFences removes a surrounding markdown code fence, if the model
// wrapped its JSON in one, and trims whitespace.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
