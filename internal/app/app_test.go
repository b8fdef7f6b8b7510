package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"steam-profile-bot/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("STEAM_API_KEY", "steam-key")
	t.Setenv("PARAM_PREFIX", "")
	t.Setenv("LOOKUP_TABLE", "")
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNew_OllamaWithoutAWS(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, a.Lookup)
	require.Nil(t, a.History)
	require.Equal(t, cfg.ReplyLanguage, a.Lookup.ReplyLanguage())
}

func TestNew_OpenAIProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = config.ProviderOpenAI
	cfg.LLMModel = "gpt-4o-mini"
	cfg.ModerateCommentary = true

	_, err := New(context.Background(), cfg, nil)
	require.ErrorContains(t, err, config.SecretOpenAIAPIKey)

	cfg.OpenAIAPIKey = "sk-test"
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, a.Lookup)
}

func TestNew_MissingSteamKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.SteamAPIKey = ""

	_, err := New(context.Background(), cfg, nil)
	require.ErrorContains(t, err, config.SecretSteamAPIKey)
}

func TestSecret_PrefersEnvironment(t *testing.T) {
	a := &App{}
	src, err := a.Secret("bot-token", config.SecretTelegramBotToken)
	require.NoError(t, err)
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "bot-token", tok)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, true).Info("hello", "k", "v")
	require.True(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	NewLogger(&buf, slog.LevelWarn, false).Info("dropped")
	require.Empty(t, buf.String())
}
