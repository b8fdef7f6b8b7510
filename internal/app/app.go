// Package app wires configuration into the lookup pipeline shared by the
// Lambda webhook, the CLI and the Discord bot.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"steam-profile-bot/internal/config"
	"steam-profile-bot/internal/domain"
	"steam-profile-bot/internal/integrations/ollama"
	"steam-profile-bot/internal/integrations/openai"
	"steam-profile-bot/internal/integrations/paramstore"
	"steam-profile-bot/internal/integrations/steam"
	"steam-profile-bot/internal/repository"
	"steam-profile-bot/internal/usecase"
)

// HistoryReader lists a chat's recent lookups, newest first.
type HistoryReader interface {
	RecentLookups(ctx context.Context, chatID string, limit int) ([]domain.LookupRecord, error)
}

// App holds the dependencies built from one Config.
type App struct {
	Config config.Config
	Lookup *usecase.LookupService
	// History is nil when LOOKUP_TABLE is unset.
	History HistoryReader

	secrets config.TokenGetter
	logger  *slog.Logger
}

// NewLogger builds the process logger. Lambda logs JSON; interactive
// commands log text.
func NewLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// New builds the lookup pipeline. AWS clients are created only when
// PARAM_PREFIX or LOOKUP_TABLE is set.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, logger: logger}

	var awsCfg aws.Config
	if cfg.NeedsAWS() {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("app: load AWS config: %w", err)
		}
	}

	if cfg.ParamPrefix != "" {
		store, err := paramstore.New(awsssm.NewFromConfig(awsCfg), cfg.ParamPrefix)
		if err != nil {
			return nil, fmt.Errorf("app: create parameter store client: %w", err)
		}
		a.secrets = store
	}

	steamKey, err := a.Secret(cfg.SteamAPIKey, config.SecretSteamAPIKey)
	if err != nil {
		return nil, err
	}
	steamClient, err := steam.NewClient(steamKey, steam.WithBaseURL(cfg.SteamAPIBaseURL))
	if err != nil {
		return nil, fmt.Errorf("app: create steam client: %w", err)
	}

	llm, moderator, err := a.newLLM(cfg)
	if err != nil {
		return nil, err
	}

	var recorder usecase.LookupRecorder = usecase.NopRecorder{}
	if cfg.LookupTable != "" {
		repo, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.LookupTable)
		if err != nil {
			return nil, fmt.Errorf("app: create lookup repository: %w", err)
		}
		recorder = repo
		a.History = repo
	}

	a.Lookup, err = usecase.NewLookupService(steamClient, llm, moderator, recorder, usecase.LookupConfig{
		ResolveTimeout: cfg.ResolveTimeout,
		Aggregator: usecase.AggregatorTimeouts{
			Profile: cfg.ProfileTimeout,
			Friends: cfg.FriendsTimeout,
			Games:   cfg.GamesTimeout,
		},
		Commentary: usecase.CommentaryConfig{
			Model:    cfg.LLMModel,
			Language: cfg.CommentaryLanguage,
			Timeout:  cfg.CommentaryTimeout,
		},
		ReplyLanguage: cfg.ReplyLanguage,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("app: create lookup service: %w", err)
	}
	return a, nil
}

// Secret resolves a secret from the environment value, falling back to
// Parameter Store under PARAM_PREFIX.
func (a *App) Secret(envValue, name string) (paramstore.TokenSource, error) {
	src, err := config.Secret(envValue, a.secrets, name)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return src, nil
}

func (a *App) newLLM(cfg config.Config) (usecase.LLMClient, usecase.Moderator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		return ollama.NewClient(ollama.WithBaseURL(cfg.OllamaURL)), nil, nil
	case config.ProviderOpenAI:
		key, err := a.Secret(cfg.OpenAIAPIKey, config.SecretOpenAIAPIKey)
		if err != nil {
			return nil, nil, err
		}
		var opts []openai.Option
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		client, err := openai.NewClient(key, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("app: create openai client: %w", err)
		}
		if cfg.ModerateCommentary {
			return client, client, nil
		}
		return client, nil, nil
	default:
		return nil, nil, errors.New("app: unsupported LLM provider " + cfg.LLMProvider)
	}
}
