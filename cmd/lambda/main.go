package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"steam-profile-bot/handler"
	"steam-profile-bot/internal/app"
	"steam-profile-bot/internal/config"
	"steam-profile-bot/internal/integrations/telegram"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := app.NewLogger(os.Stdout, cfg.LogLevel, true)
	slog.SetDefault(logger)

	// ---- Pipeline ----
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build app", "err", err)
		os.Exit(1)
	}

	// ---- Telegram ----
	botToken, err := a.Secret(cfg.TelegramBotToken, config.SecretTelegramBotToken)
	if err != nil {
		logger.Error("failed to resolve telegram token", "err", err)
		os.Exit(1)
	}
	var tgOpts []telegram.Option
	if cfg.TelegramAPIBaseURL != "" {
		tgOpts = append(tgOpts, telegram.WithBaseURL(cfg.TelegramAPIBaseURL))
	}
	tg, err := telegram.NewClient(botToken, tgOpts...)
	if err != nil {
		logger.Error("failed to create telegram client", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	opts := []handler.Option{handler.WithLogger(logger)}
	if a.History != nil {
		opts = append(opts, handler.WithHistory(a.History))
	}
	h, err := handler.NewHandler(a.Lookup, tg, opts...)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
