package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"steam-profile-bot/internal/domain"
	"steam-profile-bot/internal/integrations/telegram"
	"steam-profile-bot/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"
	historyLimit      = 5

	commandStart   = "/start"
	commandHistory = "/history"
)

// LookupUseCase is the pipeline the handler drives for each chat message.
type LookupUseCase interface {
	Lookup(ctx context.Context, in usecase.LookupInput) (usecase.LookupOutput, error)
	ReplyLanguage() language.Tag
}

// Replier delivers replies to a Telegram chat.
type Replier interface {
	SendMessage(ctx context.Context, chatID int64, text, parseMode string) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption, parseMode string) error
}

type HistoryReader interface {
	RecentLookups(ctx context.Context, chatID string, limit int) ([]domain.LookupRecord, error)
}

type Option func(*Handler)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithHistory enables the /history command.
func WithHistory(history HistoryReader) Option {
	return func(h *Handler) {
		h.history = history
	}
}

// Handler serves the Telegram webhook behind API Gateway.
type Handler struct {
	lookup  LookupUseCase
	replier Replier
	history HistoryReader
	logger  *slog.Logger
}

type okResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHandler(lookup LookupUseCase, replier Replier, opts ...Option) (*Handler, error) {
	if lookup == nil {
		return nil, errors.New("handler: lookup use case must not be nil")
	}
	if replier == nil {
		return nil, errors.New("handler: replier must not be nil")
	}
	h := &Handler{lookup: lookup, replier: replier, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Handle processes one webhook update. Once the update parses, the webhook is
// always acknowledged with 200 so Telegram does not redeliver it; delivery
// problems are logged.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := correlationIDFrom(req.Headers)
	logger := h.logger.With("correlation_id", correlationID)

	var update telegram.Update
	if err := json.Unmarshal([]byte(req.Body), &update); err != nil {
		logger.Warn("invalid webhook body", "err", err)
		return jsonResponse(http.StatusBadRequest, correlationID, errorResponse{Error: string(usecase.ErrorInvalidInput)}), nil
	}

	msg := update.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		logger.Debug("ignoring update without text", "update_id", update.UpdateID)
		return jsonResponse(http.StatusOK, correlationID, okResponse{OK: true}), nil
	}

	logger = logger.With("update_id", update.UpdateID, "chat_id", msg.Chat.ID)
	switch command(msg.Text) {
	case commandStart:
		h.send(ctx, logger, msg.Chat.ID, usecase.Greeting(h.lookup.ReplyLanguage()), "")
	case commandHistory:
		h.replyHistory(ctx, logger, msg.Chat.ID)
	default:
		h.replyLookup(ctx, logger, msg.Chat.ID, msg.Text)
	}
	return jsonResponse(http.StatusOK, correlationID, okResponse{OK: true}), nil
}

func (h *Handler) replyLookup(ctx context.Context, logger *slog.Logger, chatID int64, text string) {
	lang := h.lookup.ReplyLanguage()
	out, err := h.lookup.Lookup(ctx, usecase.LookupInput{ChatID: strconv.FormatInt(chatID, 10), Text: text})
	if err != nil {
		ucErr := usecase.AsError(err)
		logger.Info("lookup rejected", "code", ucErr.Code, "reason", ucErr.Reason)
		h.send(ctx, logger, chatID, usecase.ErrorReply(err, lang), "")
		return
	}

	h.sendCard(ctx, logger, chatID, out.Card)
	for _, chunk := range usecase.SplitMessage(out.Report, telegram.MaxMessageLength) {
		h.send(ctx, logger, chatID, chunk, "")
	}
}

// sendCard sends the card as a photo caption when an avatar exists, falling
// back to a text message if the photo is rejected.
func (h *Handler) sendCard(ctx context.Context, logger *slog.Logger, chatID int64, card usecase.ProfileCard) {
	if card.PhotoURL != "" {
		err := h.replier.SendPhoto(ctx, chatID, card.PhotoURL, card.HTML(), telegram.ParseModeHTML)
		if err == nil {
			return
		}
		logger.Warn("send photo failed, sending text card", "err", err)
	}
	h.send(ctx, logger, chatID, card.HTML(), telegram.ParseModeHTML)
}

func (h *Handler) replyHistory(ctx context.Context, logger *slog.Logger, chatID int64) {
	lang := h.lookup.ReplyLanguage()
	var records []domain.LookupRecord
	if h.history != nil {
		var err error
		records, err = h.history.RecentLookups(ctx, strconv.FormatInt(chatID, 10), historyLimit)
		if err != nil {
			logger.Error("history read failed", "err", err)
			h.send(ctx, logger, chatID, usecase.ErrorReply(err, lang), "")
			return
		}
	}
	h.send(ctx, logger, chatID, usecase.HistoryReply(records, lang), "")
}

func (h *Handler) send(ctx context.Context, logger *slog.Logger, chatID int64, text, parseMode string) {
	if err := h.replier.SendMessage(ctx, chatID, text, parseMode); err != nil {
		logger.Error("send message failed", "err", err)
	}
}

// command returns the bot command at the start of text without any
// @botname suffix, or "" when text is not a command.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd)
}

func correlationIDFrom(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return uuid.NewString()
}

func jsonResponse(status int, correlationID string, body any) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: correlationID,
		},
		Body: string(payload),
	}
}
