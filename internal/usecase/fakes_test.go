package usecase

import (
	"context"
	"errors"
	"sync"

	"steam-profile-bot/internal/domain"
)

type fakeSteam struct {
	mu sync.Mutex

	resolveID    string
	resolveOK    bool
	resolveErr   error
	resolveCalls []string

	players      map[string]domain.ProfileRecord
	summariesErr func(ids []string) error
	summaryCalls [][]string

	friendIDs   []string
	friendsErr  error
	friendCalls int

	games      []domain.GameRecord
	gamesErr   error
	gamesCalls int
}

func (f *fakeSteam) ResolveVanityURL(_ context.Context, vanity string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveCalls = append(f.resolveCalls, vanity)
	return f.resolveID, f.resolveOK, f.resolveErr
}

func (f *fakeSteam) GetPlayerSummaries(_ context.Context, ids []string) ([]domain.ProfileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls = append(f.summaryCalls, append([]string(nil), ids...))
	if f.summariesErr != nil {
		if err := f.summariesErr(ids); err != nil {
			return nil, err
		}
	}
	var out []domain.ProfileRecord
	for _, id := range ids {
		if p, ok := f.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSteam) GetFriendList(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.friendCalls++
	return f.friendIDs, f.friendsErr
}

func (f *fakeSteam) GetOwnedGames(_ context.Context, _ string) ([]domain.GameRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gamesCalls++
	return f.games, f.gamesErr
}

// failIDs makes GetPlayerSummaries fail whenever the batch contains id.
func failIDs(id string) func(ids []string) error {
	return func(ids []string) error {
		for _, v := range ids {
			if v == id {
				return errors.New("steam: unexpected status 500")
			}
		}
		return nil
	}
}

type fakeLLM struct {
	answer   string
	err      error
	block    bool
	calls    int
	messages []domain.ChatMessage
	model    string
}

func (f *fakeLLM) Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	f.calls++
	f.model = model
	f.messages = messages
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.answer, f.err
}

type fakeModerator struct {
	flagged bool
	err     error
	input   string
}

func (f *fakeModerator) Moderate(_ context.Context, input string) (bool, error) {
	f.input = input
	return f.flagged, f.err
}

type recordedLookup struct {
	chatID, input, steamID, outcome string
}

type fakeRecorder struct {
	records []recordedLookup
	err     error
}

func (f *fakeRecorder) RecordLookup(_ context.Context, chatID, input, steamID, outcome string) error {
	f.records = append(f.records, recordedLookup{chatID: chatID, input: input, steamID: steamID, outcome: outcome})
	return f.err
}
