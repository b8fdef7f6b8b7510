package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// LLM providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config is the process configuration shared by every command.
type Config struct {
	ParamPrefix string     `env:"PARAM_PREFIX"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	SteamAPIKey     string `env:"STEAM_API_KEY"`
	SteamAPIBaseURL string `env:"STEAM_API_BASE_URL" envDefault:"https://api.steampowered.com"`

	LLMProvider        string       `env:"LLM_PROVIDER" envDefault:"ollama"`
	LLMModel           string       `env:"LLM_MODEL" envDefault:"phi3:mini"`
	OllamaURL          string       `env:"OLLAMA_URL" envDefault:"http://ollama:11434"`
	OpenAIBaseURL      string       `env:"OPENAI_BASE_URL"`
	OpenAIAPIKey       string       `env:"OPENAI_API_KEY"`
	ModerateCommentary bool         `env:"MODERATE_COMMENTARY"`
	CommentaryLanguage language.Tag `env:"COMMENTARY_LANGUAGE" envDefault:"ru"`
	ReplyLanguage      language.Tag `env:"REPLY_LANGUAGE" envDefault:"ru"`

	ResolveTimeout    time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"10s"`
	ProfileTimeout    time.Duration `env:"PROFILE_TIMEOUT" envDefault:"10s"`
	FriendsTimeout    time.Duration `env:"FRIENDS_TIMEOUT" envDefault:"15s"`
	GamesTimeout      time.Duration `env:"GAMES_TIMEOUT" envDefault:"15s"`
	CommentaryTimeout time.Duration `env:"COMMENTARY_TIMEOUT" envDefault:"30s"`

	TelegramBotToken   string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIBaseURL string `env:"TELEGRAM_API_BASE_URL"`

	DiscordBotToken      string `env:"DISCORD_BOT_TOKEN"`
	DiscordCommandPrefix string `env:"DISCORD_COMMAND_PREFIX" envDefault:"!steam"`

	LookupTable string `env:"LOOKUP_TABLE"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.ParamPrefix = strings.TrimRight(strings.TrimSpace(cfg.ParamPrefix), "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot work regardless of which
// command runs.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("config: unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	if strings.TrimSpace(c.LLMModel) == "" {
		return errors.New("config: LLM_MODEL must not be empty")
	}
	if c.ModerateCommentary && c.LLMProvider != ProviderOpenAI {
		return errors.New("config: MODERATE_COMMENTARY requires LLM_PROVIDER=openai")
	}
	if strings.TrimSpace(c.DiscordCommandPrefix) == "" {
		return errors.New("config: DISCORD_COMMAND_PREFIX must not be empty")
	}
	return nil
}

// NeedsAWS reports whether any configured component talks to AWS.
func (c Config) NeedsAWS() bool {
	return c.ParamPrefix != "" || c.LookupTable != ""
}
