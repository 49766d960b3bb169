package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   *model.ItineraryModelConfig
}

// NewItineraryChatModel creates the Gemini chat model used to generate itineraries.
// It is built once per process and shared by every request.
func NewItineraryChatModel(ctx context.Context, config ChatModelConfig) (*gemini.ChatModel, error) {
	if config.Model == nil {
		return nil, fmt.Errorf("itinerary model config is nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	gemCfg := &gemini.Config{
		Client:      client,
		Model:       config.Model.Model,
		Temperature: &config.Model.Temperature,
		MaxTokens:   &config.Model.MaxTokens,
	}
	if config.Model.ThinkingBudget > 0 {
		gemCfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(config.Model.ThinkingBudget),
		}
	}

	chatModel, err := gemini.NewChatModel(ctx, gemCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating itinerary model")
		return nil, fmt.Errorf("error creating itinerary model: %w", err)
	}

	logx.Debug().Str("model", config.Model.Model).Msg("Itinerary chat model ready")
	return chatModel, nil
}
