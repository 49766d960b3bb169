package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
)

//go:embed template/itinerary_prompt.txt
var itinerarySystemPrompt string

// ItineraryRequest is the fixed human turn that follows the instruction.
const ItineraryRequest = "Create an itinerary for my trip."

// FormatInstruction renders the itinerary instruction for state via the Eino
// prompt component, which also emits prompt callbacks when invoked inside
// a graph. The result is a system message carrying the instruction followed
// by the fixed human request. It depends on nothing but state.
func FormatInstruction(ctx context.Context, state model.PlannerState) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(itinerarySystemPrompt),
		schema.UserMessage(ItineraryRequest),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"city":               state.City,
		"interests":          state.JoinedInterests(),
		"additional_details": state.AdditionalDetails,
	})
	if err != nil {
		return nil, fmt.Errorf("itinerary prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("itinerary prompt render: empty result")
	}
	return msgs, nil
}

// Instruction returns the rendered instruction text from FormatInstruction output.
func Instruction(msgs []*schema.Message) string {
	for _, m := range msgs {
		if m != nil && m.Role == schema.System {
			return m.Content
		}
	}
	return ""
}
