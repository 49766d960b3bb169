package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-labs/itinerary-planner/internal/api"
	errx "github.com/wayfarer-labs/itinerary-planner/internal/core/error"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/metrics"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/repo"
)

// stubRunner is a test double for graph.Runner.
type stubRunner struct {
	got model.PlanInput
	err error
}

func (s *stubRunner) Invoke(_ context.Context, in model.PlanInput) (*model.PlanResult, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	state := model.PlannerState{}.
		WithCity(in.City).
		WithInterests(in.Interests).
		WithAdditionalDetails(in.AdditionalDetails).
		WithItinerary("Day 1: ...")
	return &model.PlanResult{
		SessionID: "session-42",
		Itinerary: state.Itinerary,
		State:     state,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func buildTestRouter(runner *stubRunner, sessions model.SessionRepository) http.Handler {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	return api.SetupRouter(&api.Config{
		ItineraryHandler: api.NewItineraryHandler(runner, sessions),
		Gatherer:         reg,
		RequestTimeout:   time.Second,
	})
}

func doRequest(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateItinerary_OK(t *testing.T) {
	runner := &stubRunner{}
	h := buildTestRouter(runner, nil)

	w := doRequest(h, http.MethodPost, "/api/itinerary", map[string]string{
		"city":               "Tokyo",
		"interests":          "anime, food",
		"additional_details": "solo trip, 2 days",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.ItineraryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session-42", resp.SessionID)
	assert.Equal(t, "Day 1: ...", resp.Itinerary)
	assert.Equal(t, []string{"anime", "food"}, resp.Interests)
	require.Len(t, resp.Messages, 4)
	assert.Equal(t, "user", resp.Messages[0].Role)
	assert.Equal(t, "assistant", resp.Messages[3].Role)

	assert.Equal(t, "Tokyo", runner.got.City)
	assert.Equal(t, "solo trip, 2 days", runner.got.AdditionalDetails)
}

func TestCreateItinerary_InputMalformed(t *testing.T) {
	h := buildTestRouter(&stubRunner{}, nil)

	w := doRequest(h, http.MethodPost, "/api/itinerary", map[string]string{"city": "", "interests": "art"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "city is required")
}

func TestCreateItinerary_BadJSON(t *testing.T) {
	h := buildTestRouter(&stubRunner{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/itinerary", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(h, http.MethodPost, "/api/itinerary", map[string]string{"town": "Rome"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateItinerary_RequestFailure(t *testing.T) {
	runner := &stubRunner{err: errx.WrapModel(errors.New("secret upstream detail"))}
	h := buildTestRouter(runner, nil)

	w := doRequest(h, http.MethodPost, "/api/itinerary", map[string]string{"city": "Rome", "interests": "art"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), errx.RequestFailureMessage)
	assert.NotContains(t, w.Body.String(), "secret upstream detail")
	assert.NotContains(t, w.Body.String(), "itinerary\":")
}

func TestGetItinerary(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	sessions := repo.NewRedisSessionRepository(client, time.Hour)

	runner := &stubRunner{}
	res, err := runner.Invoke(context.Background(), model.PlanInput{City: "Rome", Interests: "art, pasta"})
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), model.NewSessionRecord(res)))

	h := buildTestRouter(runner, sessions)

	w := doRequest(h, http.MethodGet, "/api/itinerary/session-42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.ItineraryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Rome", resp.City)
	assert.Len(t, resp.Messages, 4)

	w = doRequest(h, http.MethodGet, "/api/itinerary/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetItinerary_ArchiveDisabled(t *testing.T) {
	h := buildTestRouter(&stubRunner{}, nil)

	w := doRequest(h, http.MethodGet, "/api/itinerary/session-42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := buildTestRouter(&stubRunner{}, nil)

	w := doRequest(h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "itinerary_planner_model_cost_usd_total")
}
