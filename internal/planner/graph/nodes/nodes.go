package nodes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	errx "github.com/wayfarer-labs/itinerary-planner/internal/core/error"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/graph/prompts"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/metrics"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

// ===================== State accumulation =====================

// NewFieldInputNode passes the submission through unchanged. The field it
// stands for is folded into the state by the node's post-handler.
func NewFieldInputNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.PlanInput) (model.PlanInput, error) {
		return in, nil
	})
}

type fieldFold func(s model.PlannerState, in model.PlanInput) model.PlannerState

func newFoldPostHandler(node string, fold fieldFold) func(context.Context, model.PlanInput, *model.RunState) (model.PlanInput, error) {
	return func(ctx context.Context, in model.PlanInput, rs *model.RunState) (model.PlanInput, error) {
		if rs.SessionID == "" {
			rs.SessionID = in.SessionID
		}
		rs.Planner = fold(rs.Planner, in)
		logx.Debug().
			Str("session_id", rs.SessionID).
			Str("node", node).
			Int("messages", len(rs.Planner.Messages)).
			Msg("State updated")
		return in, nil
	}
}

// NewCityPostHandler folds the city into the state.
func NewCityPostHandler() func(context.Context, model.PlanInput, *model.RunState) (model.PlanInput, error) {
	return newFoldPostHandler(NodeInputCity, func(s model.PlannerState, in model.PlanInput) model.PlannerState {
		return s.WithCity(in.City)
	})
}

// NewInterestsPostHandler folds the comma-separated interests into the state.
func NewInterestsPostHandler() func(context.Context, model.PlanInput, *model.RunState) (model.PlanInput, error) {
	return newFoldPostHandler(NodeInputInterests, func(s model.PlannerState, in model.PlanInput) model.PlannerState {
		return s.WithInterests(in.Interests)
	})
}

// NewDetailsPostHandler folds the additional details into the state.
func NewDetailsPostHandler() func(context.Context, model.PlanInput, *model.RunState) (model.PlanInput, error) {
	return newFoldPostHandler(NodeInputDetails, func(s model.PlannerState, in model.PlanInput) model.PlannerState {
		return s.WithAdditionalDetails(in.AdditionalDetails)
	})
}

// ===================== Itinerary request =====================

// NewInstructionNode renders the instruction from the accumulated state.
func NewInstructionNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.PlanInput) ([]*schema.Message, error) {
		var state model.PlannerState
		err := compose.ProcessState(ctx, func(_ context.Context, rs *model.RunState) error {
			if stage := rs.Planner.Stage(); stage != model.StageFilled {
				return fmt.Errorf("state is %s, want %s", stage, model.StageFilled)
			}
			state = rs.Planner
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		return prompts.FormatInstruction(ctx, state)
	})
}

// NewItineraryChatModelPostHandler prices the call, rejects empty answers and
// folds the generated itinerary into the state.
func NewItineraryChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.RunState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, rs *model.RunState) (*schema.Message, error) {
		if out == nil || strings.TrimSpace(out.Content) == "" {
			logx.Warn().
				Str("session_id", rs.SessionID).
				Str("node", NodeItineraryChatModel).
				Msg("Model returned no itinerary text")
			return nil, errx.WrapModel(errx.ErrEmptyResponse)
		}

		if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			rs.Usage = model.NewUsageCost(modelName, out.ResponseMeta.Usage)
			logx.Debug().
				Str("session_id", rs.SessionID).
				Str("node", NodeItineraryChatModel).
				Str("model", modelName).
				Int("prompt_tokens", rs.Usage.PromptTokens).
				Int("completion_tokens", rs.Usage.CompletionTokens).
				Int("total_tokens", rs.Usage.TotalTokens).
				Float64("total_cost_usd", rs.Usage.TotalCostUSD).
				Msg("LLM usage")
		}

		rs.Planner = rs.Planner.WithItinerary(out.Content)
		return out, nil
	}
}

// NewFinalizerNode builds the PlanResult from state and archives the
// transcript when repo is non-nil. Archive failures are logged only.
func NewFinalizerNode(repo model.SessionRepository, m *metrics.Metrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *schema.Message) (*model.PlanResult, error) {
		var res *model.PlanResult
		err := compose.ProcessState(ctx, func(_ context.Context, rs *model.RunState) error {
			if rs.Planner.Stage() != model.StageRequested {
				return fmt.Errorf("state is %s, want %s", rs.Planner.Stage(), model.StageRequested)
			}
			res = &model.PlanResult{
				SessionID: rs.SessionID,
				Itinerary: rs.Planner.Itinerary,
				State:     rs.Planner,
				Usage:     rs.Usage,
				CreatedAt: time.Now().UTC(),
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		if res.Usage != nil {
			m.AddCost(res.Usage.TotalCostUSD)
		}

		if repo != nil {
			if err := repo.Save(ctx, model.NewSessionRecord(res)); err != nil {
				logx.Error().
					Err(err).
					Str("session_id", res.SessionID).
					Msg("Error archiving session transcript")
			} else {
				logx.Debug().
					Str("session_id", res.SessionID).
					Msg("Session transcript archived")
			}
		}

		return res, nil
	})
}
