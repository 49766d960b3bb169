package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	errx "github.com/wayfarer-labs/itinerary-planner/internal/core/error"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/graph/nodes"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/graph/observers"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/metrics"
	plannermodel "github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

const graphName = "ItineraryPlanner"

// Runner executes the compiled graph for one form submission.
type Runner interface {
	Invoke(ctx context.Context, in plannermodel.PlanInput) (*plannermodel.PlanResult, error)
}

// Config holds everything needed to compose the full itinerary graph
// end-to-end. It is a convenience layer over GraphConfig that also
// constructs the Gemini chat model.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       plannermodel.ItineraryModelConfig
	SessionRepo plannermodel.SessionRepository // optional
	Metrics     *metrics.Metrics               // optional
}

// GraphConfig holds all configuration needed to build the graph.
type GraphConfig struct {
	ChatModel   model.BaseChatModel
	ModelName   string
	SessionRepo plannermodel.SessionRepository
	Metrics     *metrics.Metrics
}

// GraphBuilder handles the construction of the itinerary graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[plannermodel.PlanInput, *plannermodel.PlanResult]
}

type graphRunner struct {
	runnable compose.Runnable[plannermodel.PlanInput, *plannermodel.PlanResult]
	metrics  *metrics.Metrics
}

// Invoke validates the submission, runs the graph and classifies failures:
// InputMalformed is returned before any model call, every later failure
// surfaces as RequestFailure. There is no retry and no partial result.
func (r *graphRunner) Invoke(ctx context.Context, in plannermodel.PlanInput) (*plannermodel.PlanResult, error) {
	start := time.Now()

	if err := in.Validate(); err != nil {
		r.metrics.ObserveRequest(metrics.OutcomeInputMalformed, time.Since(start))
		return nil, err
	}
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks(r.metrics)...))
	if err != nil {
		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("Itinerary request failed")
		r.metrics.ObserveRequest(metrics.OutcomeRequestFailure, time.Since(start))
		return nil, errx.WrapModel(err)
	}
	if out == nil || out.Itinerary == "" {
		r.metrics.ObserveRequest(metrics.OutcomeRequestFailure, time.Since(start))
		return nil, errx.WrapModel(errx.ErrEmptyResponse)
	}

	r.metrics.ObserveRequest(metrics.OutcomeSuccess, time.Since(start))
	logx.Info().
		Str("session_id", out.SessionID).
		Str("city", out.State.City).
		Dur("elapsed", time.Since(start)).
		Msg("Itinerary generated")
	return out, nil
}

// BuildItineraryGraph creates the Gemini chat model, builds the graph and returns a Runner.
func BuildItineraryGraph(ctx context.Context, cfg Config) (Runner, error) {
	cm, err := nodes.NewItineraryChatModel(ctx, nodes.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   &cfg.Model,
	})
	if err != nil {
		return nil, err
	}

	runner, err := NewRunner(ctx, &GraphConfig{
		ChatModel:   cm,
		ModelName:   cfg.Model.Model,
		SessionRepo: cfg.SessionRepo,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Itinerary graph built successfully")
	return runner, nil
}

// NewRunner compiles the graph around an already constructed chat model.
func NewRunner(ctx context.Context, config *GraphConfig) (Runner, error) {
	runnable, err := BuildGraph(ctx, config)
	if err != nil {
		return nil, err
	}
	return &graphRunner{runnable: runnable, metrics: config.Metrics}, nil
}

// BuildGraph constructs and returns the compiled itinerary graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[plannermodel.PlanInput, *plannermodel.PlanResult], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModel == nil {
		return nil, fmt.Errorf("chat model is not initialized")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[plannermodel.PlanInput, *plannermodel.PlanResult](
			compose.WithGenLocalState(func(ctx context.Context) *plannermodel.RunState {
				return &plannermodel.RunState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	return errors.Join(
		b.graph.AddLambdaNode(nodes.NodeInputCity,
			nodes.NewFieldInputNode(),
			compose.WithStatePostHandler(nodes.NewCityPostHandler()),
		),
		b.graph.AddLambdaNode(nodes.NodeInputInterests,
			nodes.NewFieldInputNode(),
			compose.WithStatePostHandler(nodes.NewInterestsPostHandler()),
		),
		b.graph.AddLambdaNode(nodes.NodeInputDetails,
			nodes.NewFieldInputNode(),
			compose.WithStatePostHandler(nodes.NewDetailsPostHandler()),
		),
		b.graph.AddLambdaNode(nodes.NodeInstruction,
			nodes.NewInstructionNode(),
		),
		b.graph.AddChatModelNode(nodes.NodeItineraryChatModel,
			b.config.ChatModel,
			compose.WithStatePostHandler(nodes.NewItineraryChatModelPostHandler(b.config.ModelName)),
		),
		b.graph.AddLambdaNode(nodes.NodeFinalizer,
			nodes.NewFinalizerNode(b.config.SessionRepo, b.config.Metrics),
		),
	)
}

// addEdges wires the strictly linear flow.
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInputCity},
		{nodes.NodeInputCity, nodes.NodeInputInterests},
		{nodes.NodeInputInterests, nodes.NodeInputDetails},
		{nodes.NodeInputDetails, nodes.NodeInstruction},
		{nodes.NodeInstruction, nodes.NodeItineraryChatModel},
		{nodes.NodeItineraryChatModel, nodes.NodeFinalizer},
		{nodes.NodeFinalizer, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[plannermodel.PlanInput, *plannermodel.PlanResult], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName(graphName),
		compose.WithMaxRunSteps(20),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
