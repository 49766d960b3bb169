package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	"github.com/wayfarer-labs/itinerary-planner/internal/planner/metrics"
)

type modelStartKey struct{}

// newMetricsHandler records call counts, latency and token usage of chat model calls.
func newMetricsHandler(m *metrics.Metrics) *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			return context.WithValue(ctx, modelStartKey{}, time.Now())
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			observeLatency(ctx, m, info.Type)
			m.ModelCalls.WithLabelValues(info.Type, metrics.OutcomeSuccess).Inc()
			if output != nil && output.TokenUsage != nil {
				m.ModelTokens.WithLabelValues("prompt").Add(float64(output.TokenUsage.PromptTokens))
				m.ModelTokens.WithLabelValues("completion").Add(float64(output.TokenUsage.CompletionTokens))
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			observeLatency(ctx, m, info.Type)
			m.ModelCalls.WithLabelValues(info.Type, metrics.OutcomeError).Inc()
			return ctx
		},
	}
}

func observeLatency(ctx context.Context, m *metrics.Metrics, component string) {
	start, ok := ctx.Value(modelStartKey{}).(time.Time)
	if !ok {
		return
	}
	m.ModelLatency.WithLabelValues(component).Observe(time.Since(start).Seconds())
}
