package model

import (
	"strings"
	"time"

	errx "github.com/wayfarer-labs/itinerary-planner/internal/core/error"
)

// PlanInput is the raw form submission.
type PlanInput struct {
	SessionID         string `json:"session_id,omitempty"`
	City              string `json:"city"`
	Interests         string `json:"interests"`
	AdditionalDetails string `json:"additional_details"`
}

// Validate rejects submissions that cannot produce a meaningful instruction.
// City and at least one non-empty interest are required; details are optional.
func (in PlanInput) Validate() error {
	if strings.TrimSpace(in.City) == "" {
		return errx.InputMalformed("city", "is required")
	}
	for _, interest := range SplitInterests(in.Interests) {
		if interest != "" {
			return nil
		}
	}
	return errx.InputMalformed("interests", "must contain at least one non-empty entry")
}

// PlanResult is returned to the caller once the itinerary was generated.
type PlanResult struct {
	SessionID string
	Itinerary string
	State     PlannerState
	Usage     *UsageCost
	CreatedAt time.Time
}

// UsageCost is the token usage of the itinerary model call, priced in USD.
type UsageCost struct {
	Model            string  `json:"model"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	InputCostUSD     float64 `json:"input_cost_usd"`
	OutputCostUSD    float64 `json:"output_cost_usd"`
	TotalCostUSD     float64 `json:"total_cost_usd"`
}
