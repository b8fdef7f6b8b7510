package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

const (
	minCanonicalLength    = 15
	defaultResolveTimeout = 10 * time.Second
)

var (
	errEmptyInput      = errors.New("input is empty")
	errUnsupportedLink = errors.New("link does not point at /id/ or /profiles/")
)

type VanityResolver interface {
	ResolveVanityURL(ctx context.Context, vanity string) (steamID string, ok bool, err error)
}

// IdentifierResolver turns a numeric id or vanity name into a canonical SteamID64.
type IdentifierResolver struct {
	api     VanityResolver
	timeout time.Duration
	logger  *slog.Logger
}

func NewIdentifierResolver(api VanityResolver, timeout time.Duration, logger *slog.Logger) (*IdentifierResolver, error) {
	if api == nil {
		return nil, errors.New("usecase: vanity resolver must not be nil")
	}
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentifierResolver{api: api, timeout: timeout, logger: logger}, nil
}

// Resolve returns the canonical id for raw and true, or false when it cannot
// be resolved. Inputs that already look canonical are returned unchanged
// without a network call. Every failure collapses to false.
func (r *IdentifierResolver) Resolve(ctx context.Context, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		r.logger.Info("vanity name not resolved", "vanity", raw)
		return "", false
	}
	if looksCanonical(raw) {
		return raw, true
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	steamID, ok, err := r.api.ResolveVanityURL(ctx, raw)
	if err != nil {
		r.logger.Error("vanity resolution failed", "vanity", raw, "err", err)
		return "", false
	}
	if !ok {
		r.logger.Info("vanity name not resolved", "vanity", raw)
		return "", false
	}
	return steamID, true
}

func looksCanonical(s string) bool {
	if len(s) < minCanonicalLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// identifierInput is user text reduced to either a vanity/numeric key for the
// resolver, or an id taken verbatim from a /profiles/ link.
type identifierInput struct {
	value  string
	direct bool
}

// parseIdentifierInput extracts the identifier from chat text. Links must
// contain /id/<vanity> or /profiles/<id>; anything else is rejected.
func parseIdentifierInput(text string) (identifierInput, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return identifierInput{}, errEmptyInput
	}
	if !strings.HasPrefix(strings.ToLower(text), "http") {
		return identifierInput{value: text}, nil
	}

	// A link with an empty name or id is not rejected as malformed; it
	// resolves to nothing and ends as not found.
	if seg, ok := pathSegmentAfter(text, "/id/"); ok {
		return identifierInput{value: seg}, nil
	}
	if seg, ok := pathSegmentAfter(text, "/profiles/"); ok {
		return identifierInput{value: seg, direct: seg != ""}, nil
	}
	return identifierInput{}, errUnsupportedLink
}

// pathSegmentAfter returns the path segment following the last occurrence of
// marker, and whether marker occurs at all. The segment may be empty.
func pathSegmentAfter(link, marker string) (string, bool) {
	idx := strings.LastIndex(link, marker)
	if idx < 0 {
		return "", false
	}
	rest := link[idx+len(marker):]
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}
