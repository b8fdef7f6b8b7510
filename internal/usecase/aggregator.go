package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"steam-profile-bot/internal/domain"
)

const (
	// friendBatchSize matches the provider's GetPlayerSummaries ceiling.
	friendBatchSize = 100
	gameSampleLimit = 10

	defaultProfileTimeout = 10 * time.Second
	defaultFriendsTimeout = 15 * time.Second
	defaultGamesTimeout   = 15 * time.Second
)

type SteamAPI interface {
	GetPlayerSummaries(ctx context.Context, steamIDs []string) ([]domain.ProfileRecord, error)
	GetFriendList(ctx context.Context, steamID string) ([]string, error)
	GetOwnedGames(ctx context.Context, steamID string) ([]domain.GameRecord, error)
}

// AggregatorTimeouts bounds each outbound call made during aggregation.
type AggregatorTimeouts struct {
	Profile time.Duration
	Friends time.Duration
	Games   time.Duration
}

// ProfileAggregator collects the profile, friends and owned games of one
// account. Only the profile is mandatory; friends and games degrade to empty.
type ProfileAggregator struct {
	api      SteamAPI
	timeouts AggregatorTimeouts
	logger   *slog.Logger
}

func NewProfileAggregator(api SteamAPI, timeouts AggregatorTimeouts, logger *slog.Logger) (*ProfileAggregator, error) {
	if api == nil {
		return nil, errors.New("usecase: steam api must not be nil")
	}
	if timeouts.Profile <= 0 {
		timeouts.Profile = defaultProfileTimeout
	}
	if timeouts.Friends <= 0 {
		timeouts.Friends = defaultFriendsTimeout
	}
	if timeouts.Games <= 0 {
		timeouts.Games = defaultGamesTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileAggregator{api: api, timeouts: timeouts, logger: logger}, nil
}

// Aggregate fetches the three sources in order. It returns false only when the
// primary profile cannot be fetched or does not exist.
func (a *ProfileAggregator) Aggregate(ctx context.Context, steamID string) (domain.ProfileAggregate, bool) {
	profile, ok := a.fetchProfile(ctx, steamID)
	if !ok {
		return domain.ProfileAggregate{}, false
	}

	return domain.ProfileAggregate{
		Profile: profile,
		Friends: a.fetchFriends(ctx, steamID).orEmpty(a.logger, "friends", steamID),
		Games:   a.fetchGames(ctx, steamID).orEmpty(a.logger, "games", steamID),
	}, true
}

func (a *ProfileAggregator) fetchProfile(ctx context.Context, steamID string) (domain.ProfileRecord, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.timeouts.Profile)
	defer cancel()

	players, err := a.api.GetPlayerSummaries(ctx, []string{steamID})
	if err != nil {
		a.logger.Warn("profile fetch failed", "steam_id", steamID, "err", err)
		return domain.ProfileRecord{}, false
	}
	if len(players) == 0 {
		a.logger.Info("profile not found", "steam_id", steamID)
		return domain.ProfileRecord{}, false
	}
	return players[0], true
}

func (a *ProfileAggregator) fetchFriends(ctx context.Context, steamID string) fetched[[]domain.FriendRecord] {
	listCtx, cancel := context.WithTimeout(ctx, a.timeouts.Friends)
	ids, err := a.api.GetFriendList(listCtx, steamID)
	cancel()
	if err != nil {
		return fetchDegraded[[]domain.FriendRecord](err)
	}

	friends := make([]domain.FriendRecord, 0, len(ids))
	for start := 0; start < len(ids); start += friendBatchSize {
		end := min(start+friendBatchSize, len(ids))
		batch := a.fetchFriendBatch(ctx, ids[start:end])
		friends = append(friends, batch.orEmpty(a.logger, "friend_batch", steamID)...)
	}
	return fetchOK(friends)
}

// fetchFriendBatch resolves one batch of friend ids into friend records. A
// failed batch contributes nothing and does not stop later batches.
func (a *ProfileAggregator) fetchFriendBatch(ctx context.Context, ids []string) fetched[[]domain.FriendRecord] {
	ctx, cancel := context.WithTimeout(ctx, a.timeouts.Friends)
	defer cancel()

	players, err := a.api.GetPlayerSummaries(ctx, ids)
	if err != nil {
		return fetchDegraded[[]domain.FriendRecord](err)
	}
	records := make([]domain.FriendRecord, 0, len(players))
	for _, p := range players {
		country := p.CountryCode
		if country == "" {
			country = domain.UnknownCountry
		}
		records = append(records, domain.FriendRecord{SteamID: p.SteamID, CountryCode: country})
	}
	return fetchOK(records)
}

func (a *ProfileAggregator) fetchGames(ctx context.Context, steamID string) fetched[[]domain.GameRecord] {
	ctx, cancel := context.WithTimeout(ctx, a.timeouts.Games)
	defer cancel()

	games, err := a.api.GetOwnedGames(ctx, steamID)
	if err != nil {
		return fetchDegraded[[]domain.GameRecord](err)
	}
	return fetchOK(topGamesByPlaytime(games, gameSampleLimit))
}

// topGamesByPlaytime returns at most limit games ordered by playtime
// descending. Ties keep provider order. The input is not modified.
func topGamesByPlaytime(games []domain.GameRecord, limit int) []domain.GameRecord {
	sorted := slices.Clone(games)
	slices.SortStableFunc(sorted, func(a, b domain.GameRecord) int {
		switch {
		case a.PlaytimeMinutes > b.PlaytimeMinutes:
			return -1
		case a.PlaytimeMinutes < b.PlaytimeMinutes:
			return 1
		default:
			return 0
		}
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
