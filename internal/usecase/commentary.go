package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"

	"steam-profile-bot/internal/domain"
)

// FallbackCommentary replaces the commentary whenever generation is unavailable.
const FallbackCommentary = "Sorry, I'm having trouble thinking right now. 😕"

const defaultCommentaryTimeout = 30 * time.Second

var errCommentaryFlagged = errors.New("generated commentary was flagged by moderation")

type LLMClient interface {
	Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
}

// Moderator screens generated text before it reaches the user.
type Moderator interface {
	Moderate(ctx context.Context, input string) (bool, error)
}

// CommentaryConfig selects the model, output language and hard timeout.
type CommentaryConfig struct {
	Model    string
	Language language.Tag
	Timeout  time.Duration
}

// generation is either generated text or unavailable with a cause.
type generation struct {
	text  string
	cause error
}

func (g generation) available() bool {
	return g.cause == nil
}

// CommentaryGenerator turns a digest into a short persona commentary. It
// never fails outward.
type CommentaryGenerator struct {
	llm       LLMClient
	moderator Moderator
	cfg       CommentaryConfig
	logger    *slog.Logger
}

// NewCommentaryGenerator creates a generator. moderator may be nil to skip
// moderation of generated text.
func NewCommentaryGenerator(llm LLMClient, moderator Moderator, cfg CommentaryConfig, logger *slog.Logger) (*CommentaryGenerator, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		return nil, errors.New("usecase: commentary model must not be empty")
	}
	if cfg.Language == language.Und {
		cfg.Language = language.Russian
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCommentaryTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentaryGenerator{llm: llm, moderator: moderator, cfg: cfg, logger: logger}, nil
}

// Comment returns generated commentary for digest, or FallbackCommentary when
// the generation service is unavailable for any reason.
func (g *CommentaryGenerator) Comment(ctx context.Context, digest string) string {
	gen := g.generate(ctx, digest)
	if !gen.available() {
		g.logger.Error("commentary unavailable", "model", g.cfg.Model, "err", gen.cause)
		return FallbackCommentary
	}
	return gen.text
}

func (g *CommentaryGenerator) generate(ctx context.Context, digest string) generation {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	text, err := g.llm.Chat(ctx, g.cfg.Model, buildCommentaryMessages(digest, g.cfg.Language))
	if err != nil {
		return generation{cause: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return generation{cause: errors.New("empty commentary")}
	}

	if g.moderator != nil {
		flagged, err := g.moderator.Moderate(ctx, text)
		if err != nil {
			return generation{cause: err}
		}
		if flagged {
			return generation{cause: errCommentaryFlagged}
		}
	}
	return generation{text: text}
}

// ComposeReport places the commentary above the digest. The digest is always
// included verbatim.
func ComposeReport(commentary, digest string) string {
	return commentary + "\n\n" + digest
}

// SplitMessage cuts text into chunks of at most limit runes, preferring to
// break after a newline. The chunks concatenate back to text.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
