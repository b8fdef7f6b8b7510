package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"steam-profile-bot/internal/domain"
)

// SteamClient is the complete provider surface the pipeline needs.
type SteamClient interface {
	VanityResolver
	SteamAPI
}

// LookupRecorder persists the outcome of a lookup. Failures never affect the reply.
type LookupRecorder interface {
	RecordLookup(ctx context.Context, chatID, input, steamID, outcome string) error
}

// NopRecorder discards lookup records.
type NopRecorder struct{}

func (NopRecorder) RecordLookup(context.Context, string, string, string, string) error { return nil }

// LookupConfig carries per-call timeouts and language settings.
type LookupConfig struct {
	ResolveTimeout time.Duration
	Aggregator     AggregatorTimeouts
	Commentary     CommentaryConfig
	ReplyLanguage  language.Tag
}

type LookupInput struct {
	ChatID string
	Text   string
}

// LookupOutput holds the two outbound replies: the profile card first, then
// the report (commentary followed by the digest).
type LookupOutput struct {
	SteamID    string
	Card       ProfileCard
	Commentary string
	Digest     string
	Report     string
}

// LookupService runs the whole pipeline for one chat request:
// identifier -> aggregate -> digest -> commentary.
type LookupService struct {
	resolver   *IdentifierResolver
	aggregator *ProfileAggregator
	commentary *CommentaryGenerator
	recorder   LookupRecorder
	replyLang  language.Tag
	logger     *slog.Logger
}

// NewLookupService wires the pipeline. moderator may be nil.
func NewLookupService(steam SteamClient, llm LLMClient, moderator Moderator, recorder LookupRecorder, cfg LookupConfig, logger *slog.Logger) (*LookupService, error) {
	if steam == nil {
		return nil, errors.New("usecase: steam client must not be nil")
	}
	if recorder == nil {
		return nil, errors.New("usecase: lookup recorder must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	resolver, err := NewIdentifierResolver(steam, cfg.ResolveTimeout, logger)
	if err != nil {
		return nil, err
	}
	aggregator, err := NewProfileAggregator(steam, cfg.Aggregator, logger)
	if err != nil {
		return nil, err
	}
	commentary, err := NewCommentaryGenerator(llm, moderator, cfg.Commentary, logger)
	if err != nil {
		return nil, err
	}
	replyLang := cfg.ReplyLanguage
	if replyLang == language.Und {
		replyLang = language.Russian
	}

	return &LookupService{
		resolver:   resolver,
		aggregator: aggregator,
		commentary: commentary,
		recorder:   recorder,
		replyLang:  ReplyTag(replyLang),
		logger:     logger,
	}, nil
}

// ReplyLanguage is the language user-facing replies are rendered in.
func (s *LookupService) ReplyLanguage() language.Tag {
	return s.replyLang
}

// Lookup resolves the identifier in in.Text and builds both replies. The only
// errors are INVALID_INPUT and NOT_FOUND; degraded friends, games or
// commentary never fail the request.
func (s *LookupService) Lookup(ctx context.Context, in LookupInput) (LookupOutput, error) {
	parsed, err := parseIdentifierInput(in.Text)
	if err != nil {
		reason := ReasonEmptyInput
		if errors.Is(err, errUnsupportedLink) {
			reason = ReasonUnsupportedLink
		}
		s.record(ctx, in, "", domain.OutcomeInvalidInput)
		return LookupOutput{}, newError(ErrorInvalidInput, reason, err)
	}

	steamID := parsed.value
	if !parsed.direct {
		var ok bool
		steamID, ok = s.resolver.Resolve(ctx, parsed.value)
		if !ok {
			s.record(ctx, in, "", domain.OutcomeNotFound)
			return LookupOutput{}, newError(ErrorNotFound, ReasonUnresolvedIdentifier, nil)
		}
	}

	agg, ok := s.aggregator.Aggregate(ctx, steamID)
	if !ok {
		s.record(ctx, in, steamID, domain.OutcomeNotFound)
		return LookupOutput{}, newError(ErrorNotFound, ReasonProfileUnavailable, nil)
	}

	digest := Summarize(agg)
	commentary := s.commentary.Comment(ctx, digest)
	s.record(ctx, in, steamID, domain.OutcomeFound)

	s.logger.Info("lookup complete",
		"steam_id", steamID,
		"friends", len(agg.Friends),
		"games", len(agg.Games),
		"commentary_fallback", commentary == FallbackCommentary,
	)

	return LookupOutput{
		SteamID:    steamID,
		Card:       BuildProfileCard(agg.Profile, s.replyLang),
		Commentary: commentary,
		Digest:     digest,
		Report:     ComposeReport(commentary, digest),
	}, nil
}

func (s *LookupService) record(ctx context.Context, in LookupInput, steamID, outcome string) {
	if err := s.recorder.RecordLookup(ctx, in.ChatID, in.Text, steamID, outcome); err != nil {
		s.logger.Warn("lookup record failed", "chat_id", in.ChatID, "outcome", outcome, "err", err)
	}
}
