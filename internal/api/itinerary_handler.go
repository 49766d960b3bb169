package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	errx "github.com/wayfarer-labs/itinerary-planner/internal/core/error"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/graph"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

const maxRequestBody = 64 << 10

type ItineraryRequest struct {
	City              string `json:"city"`
	Interests         string `json:"interests"`
	AdditionalDetails string `json:"additional_details"`
}

type MessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ItineraryResponse struct {
	SessionID string           `json:"session_id"`
	City      string           `json:"city"`
	Interests []string         `json:"interests"`
	Itinerary string           `json:"itinerary"`
	Messages  []MessageDTO     `json:"messages"`
	Usage     *model.UsageCost `json:"usage,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type ItineraryHandler struct {
	runner   graph.Runner
	sessions model.SessionRepository
}

// NewItineraryHandler wires the runner; sessions may be nil when the
// transcript archive is disabled.
func NewItineraryHandler(runner graph.Runner, sessions model.SessionRepository) *ItineraryHandler {
	return &ItineraryHandler{runner: runner, sessions: sessions}
}

// CreateItinerary handles POST /api/itinerary.
func (h *ItineraryHandler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var req ItineraryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, errx.InputMalformed("body", err.Error()))
		return
	}

	res, err := h.runner.Invoke(r.Context(), model.PlanInput{
		City:              req.City,
		Interests:         req.Interests,
		AdditionalDetails: req.AdditionalDetails,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, ItineraryResponse{
		SessionID: res.SessionID,
		City:      res.State.City,
		Interests: res.State.Interests,
		Itinerary: res.Itinerary,
		Messages:  toMessageDTOs(res.State.Messages),
		Usage:     res.Usage,
		CreatedAt: res.CreatedAt,
	})
}

// GetItinerary handles GET /api/itinerary/{sessionID}.
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if h.sessions == nil {
		ErrorResponse(w, r, http.StatusNotFound, "session archive disabled")
		return
	}

	rec, err := h.sessions.Load(r.Context(), sessionID)
	if err != nil {
		logx.Debug().Err(err).Str("session_id", sessionID).Msg("Session lookup failed")
		WriteError(w, r, err)
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, ItineraryResponse{
		SessionID: rec.ID,
		City:      rec.City,
		Interests: rec.Interests,
		Itinerary: rec.Itinerary,
		Messages:  toMessageDTOs(rec.Messages),
		Usage:     rec.Usage,
		CreatedAt: rec.CreatedAt,
	})
}

func toMessageDTOs(msgs []*schema.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		out = append(out, MessageDTO{Role: string(m.Role), Content: m.Content})
	}
	return out
}
