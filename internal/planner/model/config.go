package model

// ================ Config ================
type ItineraryModelConfig struct {
	Model          string  `envconfig:"ITINERARY_MODEL" default:"gemini-2.5-flash"`
	MaxTokens      int     `envconfig:"ITINERARY_MAX_TOKENS" default:"4096"`
	Temperature    float32 `envconfig:"ITINERARY_TEMPERATURE" default:"0.7"`
	ThinkingBudget int32   `envconfig:"ITINERARY_THINKING_BUDGET" default:"1024"`
}

type SessionConfig struct {
	TTL string `envconfig:"SESSION_TTL" default:"24h"`
}
