// Command discordbot serves Steam profile lookups as a Discord text command.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"steam-profile-bot/internal/app"
	"steam-profile-bot/internal/config"
	"steam-profile-bot/internal/transport/discord"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := app.NewLogger(os.Stdout, cfg.LogLevel, false)
	slog.SetDefault(logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build app", "err", err)
		os.Exit(1)
	}

	tokens, err := a.Secret(cfg.DiscordBotToken, config.SecretDiscordBotToken)
	if err != nil {
		logger.Error("failed to resolve discord token", "err", err)
		os.Exit(1)
	}
	token, err := tokens.Token(ctx)
	if err != nil {
		logger.Error("failed to read discord token", "err", err)
		os.Exit(1)
	}

	bot, err := discord.New(token, a.Lookup, cfg.DiscordCommandPrefix, logger)
	if err != nil {
		logger.Error("failed to create discord bot", "err", err)
		os.Exit(1)
	}
	if err := bot.Run(ctx); err != nil {
		logger.Error("discord bot stopped with error", "err", err)
		os.Exit(1)
	}
}
