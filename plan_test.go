package main

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "plan"}
	cmd.Flags().String("city", "", "")
	cmd.Flags().String("interests", "", "")
	cmd.Flags().String("details", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestReadPlanInput_FromFlags(t *testing.T) {
	cmd := newTestPlanCmd(t, "--city", "Rome", "--interests", "art, pasta", "--details", "3 days")
	var prompts bytes.Buffer

	in, err := readPlanInput(cmd, bufio.NewReader(strings.NewReader("")), &prompts)
	require.NoError(t, err)
	assert.Equal(t, "Rome", in.City)
	assert.Equal(t, "art, pasta", in.Interests)
	assert.Equal(t, "3 days", in.AdditionalDetails)
	assert.Empty(t, prompts.String())
}

func TestReadPlanInput_PromptsMissingFields(t *testing.T) {
	cmd := newTestPlanCmd(t, "--city", "Tokyo")
	var prompts bytes.Buffer

	in, err := readPlanInput(cmd, bufio.NewReader(strings.NewReader("anime, food\r\nsolo trip")), &prompts)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", in.City)
	assert.Equal(t, "anime, food", in.Interests)
	assert.Equal(t, "solo trip", in.AdditionalDetails)
	assert.NotContains(t, prompts.String(), "city")
	assert.Contains(t, prompts.String(), "interests (comma-separated)")
}

func TestAppConfig_FromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ITINERARY_MODEL", "gemini-2.5-pro")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	var cfg AppConfig
	require.NoError(t, envconfig.Process("", &cfg))

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Itinerary.Model)
	assert.Equal(t, 4096, cfg.Itinerary.MaxTokens)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 3, cfg.Redis.ReadTimeout)
	assert.Equal(t, "1h", cfg.Session.TTL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 90*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func TestAppConfig_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	require.NoError(t, os.Unsetenv("GEMINI_API_KEY"))

	var cfg AppConfig
	assert.Error(t, envconfig.Process("", &cfg))
}
