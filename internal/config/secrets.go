package config

import (
	"context"
	"fmt"
	"strings"

	"steam-profile-bot/internal/integrations/paramstore"
)

// Parameter Store names of the secrets, relative to PARAM_PREFIX.
const (
	SecretSteamAPIKey      = "steam-api-key"
	SecretTelegramBotToken = "telegram-bot-token"
	SecretDiscordBotToken  = "discord-bot-token"
	SecretOpenAIAPIKey     = "openai-api-key"
)

// TokenGetter reads a JSON-wrapped token from Parameter Store.
type TokenGetter interface {
	GetToken(ctx context.Context, name string) (string, error)
}

// Secret returns the token source for one secret: the environment value when
// set, otherwise the cached Parameter Store entry. store may be nil when
// PARAM_PREFIX is unset.
func Secret(envValue string, store TokenGetter, name string) (paramstore.TokenSource, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return paramstore.StaticToken(v), nil
	}
	if store == nil {
		return nil, fmt.Errorf("config: secret %q is not set and PARAM_PREFIX is empty", name)
	}
	return paramstore.NewCachedToken(store, name)
}
