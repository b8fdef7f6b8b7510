// Package discord exposes the lookup pipeline as a Discord text command.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"

	"steam-profile-bot/internal/usecase"
)

const (
	maxMessageLength     = 2000
	defaultLookupTimeout = 2 * time.Minute
	chatIDPrefix         = "discord:"
)

type LookupUseCase interface {
	Lookup(ctx context.Context, in usecase.LookupInput) (usecase.LookupOutput, error)
	ReplyLanguage() language.Tag
}

// sender is the subset of *discordgo.Session used to reply.
type sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot answers "<prefix> <steam id or link>" messages in guild channels and DMs.
type Bot struct {
	session *discordgo.Session
	lookup  LookupUseCase
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a bot session authenticated with token. The gateway connection
// is opened by Run.
func New(token string, lookup LookupUseCase, prefix string, logger *slog.Logger) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("discord: bot token is empty")
	}
	if lookup == nil {
		return nil, errors.New("discord: lookup use case must not be nil")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, errors.New("discord: command prefix is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	b := &Bot{session: session, lookup: lookup, prefix: prefix, timeout: defaultLookupTimeout, logger: logger}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

// Run connects to the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord: open gateway: %w", err)
	}
	b.logger.Info("discord bot started", "prefix", b.prefix)

	<-ctx.Done()
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("discord: close gateway: %w", err)
	}
	b.logger.Info("discord bot stopped")
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		b.logger.Info("discord session ready", "user", r.User.Username)
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	b.handle(ctx, s, m.ChannelID, m.Content)
}

// handle runs one command message. Messages without the prefix are ignored.
func (b *Bot) handle(ctx context.Context, out sender, channelID, content string) {
	arg, ok := b.argument(content)
	if !ok {
		return
	}
	lang := b.lookup.ReplyLanguage()
	logger := b.logger.With("channel_id", channelID)

	if arg == "" {
		b.send(logger, out, channelID, usecase.Greeting(lang))
		return
	}

	result, err := b.lookup.Lookup(ctx, usecase.LookupInput{ChatID: chatIDPrefix + channelID, Text: arg})
	if err != nil {
		ucErr := usecase.AsError(err)
		logger.Info("lookup rejected", "code", ucErr.Code, "reason", ucErr.Reason)
		b.send(logger, out, channelID, usecase.ErrorReply(err, lang))
		return
	}

	if _, err := out.ChannelMessageSendEmbed(channelID, cardEmbed(result.Card)); err != nil {
		logger.Warn("send embed failed, sending text card", "err", err)
		b.send(logger, out, channelID, result.Card.Text())
	}
	for _, chunk := range usecase.SplitMessage(result.Report, maxMessageLength) {
		b.send(logger, out, channelID, chunk)
	}
}

// argument returns the text after the command prefix and whether content is
// a command at all. "!steamfoo" is not a command.
func (b *Bot) argument(content string) (string, bool) {
	content = strings.TrimSpace(content)
	rest, ok := strings.CutPrefix(content, b.prefix)
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\n' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func (b *Bot) send(logger *slog.Logger, out sender, channelID, text string) {
	if _, err := out.ChannelMessageSend(channelID, text); err != nil {
		logger.Error("send message failed", "err", err)
	}
}

func cardEmbed(card usecase.ProfileCard) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: card.LinkLabel,
		URL:   card.ProfileURL,
	}
	for _, f := range card.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Icon + " " + f.Label,
			Value:  f.Value,
			Inline: true,
		})
	}
	if card.PhotoURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: card.PhotoURL}
	}
	return embed
}
