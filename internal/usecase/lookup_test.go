package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"steam-profile-bot/internal/domain"
)

func newTestLookup(t *testing.T, steam SteamClient, llm LLMClient, recorder LookupRecorder) *LookupService {
	t.Helper()
	svc, err := NewLookupService(steam, llm, nil, recorder, LookupConfig{
		ResolveTimeout: time.Second,
		Aggregator:     AggregatorTimeouts{Profile: time.Second, Friends: time.Second, Games: time.Second},
		Commentary:     CommentaryConfig{Model: "phi3:mini", Timeout: time.Second},
	}, nil)
	require.NoError(t, err)
	return svc
}

func populatedSteam() *fakeSteam {
	games := make([]domain.GameRecord, 12)
	for i := range games {
		games[i] = domain.GameRecord{AppID: int64(i + 1), Name: fmt.Sprintf("Game %d", i+1), PlaytimeMinutes: int64((i + 1) * 60)}
	}
	return &fakeSteam{
		players: map[string]domain.ProfileRecord{
			testSteamID: {
				SteamID:                  testSteamID,
				PersonaName:              "gaben",
				CommunityVisibilityState: domain.VisibilityPublic,
				PersonaState:             domain.PersonaOnline,
				AvatarFull:               "https://avatars.example/full.jpg",
				ProfileURL:               "https://steamcommunity.com/id/gaben/",
			},
			"f1": {SteamID: "f1", CountryCode: "US"},
			"f2": {SteamID: "f2", CountryCode: "US"},
			"f3": {SteamID: "f3"},
		},
		friendIDs: []string{"f1", "f2", "f3"},
		games:     games,
	}
}

func TestNewLookupService_Validates(t *testing.T) {
	_, err := NewLookupService(nil, &fakeLLM{}, nil, NopRecorder{}, LookupConfig{Commentary: CommentaryConfig{Model: "m"}}, nil)
	require.Error(t, err)

	_, err = NewLookupService(&fakeSteam{}, &fakeLLM{}, nil, nil, LookupConfig{Commentary: CommentaryConfig{Model: "m"}}, nil)
	require.Error(t, err)

	svc, err := NewLookupService(&fakeSteam{}, &fakeLLM{}, nil, NopRecorder{}, LookupConfig{Commentary: CommentaryConfig{Model: "m"}}, nil)
	require.NoError(t, err)
	require.Equal(t, language.Russian, svc.ReplyLanguage())
}

func TestLookup_NumericIDEndToEnd(t *testing.T) {
	steam := populatedSteam()
	recorder := &fakeRecorder{}
	svc := newTestLookup(t, steam, &fakeLLM{answer: "Roast. Toast."}, recorder)

	out, err := svc.Lookup(context.Background(), LookupInput{ChatID: "42", Text: testSteamID})
	require.NoError(t, err)
	require.Empty(t, steam.resolveCalls)

	require.Equal(t, testSteamID, out.SteamID)
	require.Contains(t, out.Digest, "- Total friends: 3\n")
	require.Contains(t, out.Digest, "- Top friend countries: 2 from US, 1 from ??\n")
	require.Contains(t, out.Digest, "- Sample of owned games: 10\n")
	require.Contains(t, out.Digest, "~75.0 hours")
	require.True(t, strings.HasSuffix(out.Digest, "- Example games: Game 12, Game 11, Game 10, Game 9, Game 8, Game 7, Game 6, Game 5, Game 4, Game 3"))

	require.Equal(t, "Roast. Toast.", out.Commentary)
	require.Equal(t, "Roast. Toast.\n\n"+out.Digest, out.Report)
	require.Equal(t, "https://avatars.example/full.jpg", out.Card.PhotoURL)

	require.Equal(t, []recordedLookup{{chatID: "42", input: testSteamID, steamID: testSteamID, outcome: domain.OutcomeFound}}, recorder.records)
}

func TestLookup_VanityAndLinks(t *testing.T) {
	cases := []struct {
		name         string
		text         string
		wantResolves []string
	}{
		{name: "vanity", text: "gaben", wantResolves: []string{"gaben"}},
		{name: "id link", text: "https://steamcommunity.com/id/gaben/", wantResolves: []string{"gaben"}},
		{name: "profiles link", text: "https://steamcommunity.com/profiles/" + testSteamID + "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			steam := populatedSteam()
			steam.resolveID, steam.resolveOK = testSteamID, true
			svc := newTestLookup(t, steam, &fakeLLM{answer: "ok"}, NopRecorder{})

			out, err := svc.Lookup(context.Background(), LookupInput{Text: tc.text})
			require.NoError(t, err)
			require.Equal(t, testSteamID, out.SteamID)
			require.Equal(t, tc.wantResolves, steam.resolveCalls)
		})
	}
}

func TestLookup_Errors(t *testing.T) {
	cases := []struct {
		name        string
		text        string
		steam       *fakeSteam
		wantCode    ErrorCode
		wantReason  string
		wantOutcome string
	}{
		{name: "empty", text: "  ", steam: &fakeSteam{}, wantCode: ErrorInvalidInput, wantReason: ReasonEmptyInput, wantOutcome: domain.OutcomeInvalidInput},
		{name: "unsupported link", text: "https://store.steampowered.com/app/570", steam: &fakeSteam{}, wantCode: ErrorInvalidInput, wantReason: ReasonUnsupportedLink, wantOutcome: domain.OutcomeInvalidInput},
		{name: "empty id link", text: "https://steamcommunity.com/id/", steam: &fakeSteam{}, wantCode: ErrorNotFound, wantReason: ReasonUnresolvedIdentifier, wantOutcome: domain.OutcomeNotFound},
		{name: "empty profiles link", text: "https://steamcommunity.com/profiles/", steam: &fakeSteam{}, wantCode: ErrorNotFound, wantReason: ReasonUnresolvedIdentifier, wantOutcome: domain.OutcomeNotFound},
		{name: "unresolved vanity", text: "nobody-here", steam: &fakeSteam{}, wantCode: ErrorNotFound, wantReason: ReasonUnresolvedIdentifier, wantOutcome: domain.OutcomeNotFound},
		{name: "missing profile", text: testSteamID, steam: &fakeSteam{}, wantCode: ErrorNotFound, wantReason: ReasonProfileUnavailable, wantOutcome: domain.OutcomeNotFound},
		{name: "profile fetch error", text: testSteamID, steam: &fakeSteam{summariesErr: failIDs(testSteamID)}, wantCode: ErrorNotFound, wantReason: ReasonProfileUnavailable, wantOutcome: domain.OutcomeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := &fakeLLM{answer: "unused"}
			recorder := &fakeRecorder{}
			svc := newTestLookup(t, tc.steam, llm, recorder)

			_, err := svc.Lookup(context.Background(), LookupInput{ChatID: "7", Text: tc.text})
			require.Error(t, err)
			ucErr := AsError(err)
			require.Equal(t, tc.wantCode, ucErr.Code)
			require.Equal(t, tc.wantReason, ucErr.Reason)
			require.Zero(t, llm.calls)
			require.Len(t, recorder.records, 1)
			require.Equal(t, tc.wantOutcome, recorder.records[0].outcome)
		})
	}
}

func TestLookup_DegradedDependenciesStillReply(t *testing.T) {
	steam := populatedSteam()
	steam.friendsErr = errors.New("steam: unexpected status 401")
	steam.gamesErr = errors.New("context deadline exceeded")
	svc := newTestLookup(t, steam, &fakeLLM{err: errors.New("connection refused")}, &fakeRecorder{err: errors.New("dynamodb down")})

	out, err := svc.Lookup(context.Background(), LookupInput{ChatID: "1", Text: testSteamID})
	require.NoError(t, err)
	require.Equal(t, FallbackCommentary, out.Commentary)
	require.Contains(t, out.Digest, "- Total friends: 0\n")
	require.Contains(t, out.Digest, "- Sample of owned games: 0\n")
	require.True(t, strings.HasPrefix(out.Report, FallbackCommentary+"\n\n"))
}
