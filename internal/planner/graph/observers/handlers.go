package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	"github.com/wayfarer-labs/itinerary-planner/internal/planner/metrics"
)

// NewAllCallbacks returns the logging observers (prompt + chat model) and,
// when m is non-nil, a handler recording model metrics.
func NewAllCallbacks(m *metrics.Metrics) []einocb.Handler {
	handlers := []einocb.Handler{
		callbackHelper.NewHandlerHelper().
			ChatModel(newModelHandler()).
			Prompt(newPromptHandler()).
			Handler(),
	}
	if m != nil {
		handlers = append(handlers, callbackHelper.NewHandlerHelper().
			ChatModel(newMetricsHandler(m)).
			Handler())
	}
	return handlers
}
