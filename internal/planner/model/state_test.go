package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/wayfarer-labs/itinerary-planner/internal/core/error"
)

func TestWithCity_AppendsOneUserMessage(t *testing.T) {
	inputs := []string{"Paris", "", "  Rio de Janeiro ", "東京", "a,b,c"}
	for _, raw := range inputs {
		base := PlannerState{}.WithCity("seed")
		next := base.WithCity(raw)

		require.Len(t, next.Messages, len(base.Messages)+1, "input %q", raw)
		last := next.Messages[len(next.Messages)-1]
		assert.Equal(t, schema.User, last.Role)
		assert.Equal(t, raw, last.Content)
		assert.Equal(t, raw, next.City)
	}
}

func TestWith_DoesNotMutateReceiver(t *testing.T) {
	s0 := PlannerState{}
	s1 := s0.WithCity("Rome")
	s2 := s1.WithInterests("art, pasta")
	s3 := s2.WithAdditionalDetails("3 days")
	s4 := s3.WithItinerary("Day 1: Colosseum")

	assert.Empty(t, s0.Messages)
	assert.Empty(t, s0.City)
	assert.Len(t, s1.Messages, 1)
	assert.Nil(t, s1.Interests)
	assert.Len(t, s2.Messages, 2)
	assert.Empty(t, s2.AdditionalDetails)
	assert.Len(t, s3.Messages, 3)
	assert.Empty(t, s3.Itinerary)
	assert.Len(t, s4.Messages, 4)

	// two branches from the same state must not overwrite each other
	a := s2.WithAdditionalDetails("a")
	b := s2.WithAdditionalDetails("b")
	assert.Equal(t, "a", a.Messages[2].Content)
	assert.Equal(t, "b", b.Messages[2].Content)
}

func TestWithInterests(t *testing.T) {
	s := PlannerState{}.WithInterests("museums , food")

	assert.Equal(t, []string{"museums", "food"}, s.Interests)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, "museums , food", s.Messages[0].Content)
	assert.Equal(t, "museums, food", s.JoinedInterests())
}

func TestSplitInterests(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"trims both sides", "museums , food", []string{"museums", "food"}},
		{"single", "art", []string{"art"}},
		{"wide whitespace", "  Paris, museums ,  food ", []string{"Paris", "museums", "food"}},
		{"trailing comma keeps empty token", "art, pasta,", []string{"art", "pasta", ""}},
		{"empty input", "", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitInterests(tt.raw))
		})
	}
}

func TestWithItinerary(t *testing.T) {
	s := PlannerState{}.WithItinerary("Day 1: ...")

	assert.Equal(t, "Day 1: ...", s.Itinerary)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, schema.Assistant, s.Messages[0].Role)
	assert.Equal(t, "Day 1: ...", s.Messages[0].Content)
}

func TestStage(t *testing.T) {
	s := PlannerState{}
	assert.Equal(t, StageUnfilled, s.Stage())

	s = s.WithCity("Tokyo").WithInterests("anime").WithAdditionalDetails("")
	assert.Equal(t, StageFilled, s.Stage())

	s = s.WithItinerary("Day 1")
	assert.Equal(t, StageRequested, s.Stage())
}

func TestPlanInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      PlanInput
		wantErr bool
	}{
		{"complete", PlanInput{City: "Rome", Interests: "art", AdditionalDetails: "2 days"}, false},
		{"details optional", PlanInput{City: "Rome", Interests: "art"}, false},
		{"trailing comma ok", PlanInput{City: "Rome", Interests: "art,"}, false},
		{"blank city", PlanInput{City: "  ", Interests: "art"}, true},
		{"no interests", PlanInput{City: "Rome", Interests: ""}, true},
		{"only commas", PlanInput{City: "Rome", Interests: " , ,"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, errx.ErrInputMalformed)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewUsageCost(t *testing.T) {
	assert.Nil(t, NewUsageCost("gemini-2.5-flash", nil))

	u := NewUsageCost("gemini-2.5-flash", &schema.TokenUsage{
		PromptTokens:     1_000_000,
		CompletionTokens: 1_000_000,
		TotalTokens:      2_000_000,
	})
	require.NotNil(t, u)
	assert.InDelta(t, 0.30, u.InputCostUSD, 1e-9)
	assert.InDelta(t, 2.50, u.OutputCostUSD, 1e-9)
	assert.InDelta(t, 2.80, u.TotalCostUSD, 1e-9)

	unknown := NewUsageCost("some-other-model", &schema.TokenUsage{PromptTokens: 10})
	assert.Zero(t, unknown.TotalCostUSD)
}
