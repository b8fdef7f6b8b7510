package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type staticKey string

func (k staticKey) Token(context.Context) (string, error) { return string(k), nil }

type failingKey struct{}

func (failingKey) Token(context.Context) (string, error) { return "", errors.New("ssm unavailable") }

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(staticKey("test-key"),
		WithBaseURL(srv.URL),
		WithHTTPClient(&http.Client{Timeout: 2 * time.Second}),
	)
	require.NoError(t, err)
	return c
}

func TestNewClient_NilTokenSource(t *testing.T) {
	_, err := NewClient(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "nil")
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c, err := NewClient(staticKey("k"), WithBaseURL("  "))
	require.NoError(t, err)
	require.Equal(t, "https://api.steampowered.com", c.baseURL)
}

func TestResolveVanityURL_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ISteamUser/ResolveVanityURL/v0001/", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.Equal(t, "gabelogannewell", r.URL.Query().Get("vanityurl"))
		_, _ = w.Write([]byte(`{"response":{"steamid":"76561197960287930","success":1}}`))
	}))
	defer srv.Close()

	id, ok, err := newTestClient(t, srv).ResolveVanityURL(context.Background(), " gabelogannewell ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "76561197960287930", id)
}

func TestResolveVanityURL_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"success":42,"message":"No match"}}`))
	}))
	defer srv.Close()

	id, ok, err := newTestClient(t, srv).ResolveVanityURL(context.Background(), "nobody")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, id)
}

func TestResolveVanityURL_EmptyVanity(t *testing.T) {
	c, err := NewClient(staticKey("k"))
	require.NoError(t, err)
	_, _, err = c.ResolveVanityURL(context.Background(), "  ")
	require.Error(t, err)
}

func TestGetPlayerSummaries_JoinsIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ISteamUser/GetPlayerSummaries/v0002/", r.URL.Path)
		require.Equal(t, "1,2", r.URL.Query().Get("steamids"))
		_, _ = w.Write([]byte(`{"response":{"players":[
			{"steamid":"1","personaname":"one","loccountrycode":"US","timecreated":1063407589,"communityvisibilitystate":3,"personastate":1,"avatarfull":"https://a/1.jpg","profileurl":"https://p/1"},
			{"steamid":"2","personaname":"two"}
		]}}`))
	}))
	defer srv.Close()

	players, err := newTestClient(t, srv).GetPlayerSummaries(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.Equal(t, "one", players[0].PersonaName)
	require.Equal(t, "US", players[0].CountryCode)
	require.Equal(t, int64(1063407589), players[0].TimeCreated)
	require.Equal(t, 3, players[0].CommunityVisibilityState)
	require.Equal(t, "https://a/1.jpg", players[0].AvatarFull)
	require.Empty(t, players[1].CountryCode)
}

func TestGetPlayerSummaries_BatchLimits(t *testing.T) {
	c, err := NewClient(staticKey("k"))
	require.NoError(t, err)

	_, err = c.GetPlayerSummaries(context.Background(), nil)
	require.Error(t, err)

	ids := make([]string, MaxSummaryBatch+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}
	_, err = c.GetPlayerSummaries(context.Background(), ids)
	require.Error(t, err)
	require.Contains(t, err.Error(), "batch limit")
}

func TestGetFriendList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ISteamUser/GetFriendList/v0001/", r.URL.Path)
		require.Equal(t, "friend", r.URL.Query().Get("relationship"))
		require.Equal(t, "42", r.URL.Query().Get("steamid"))
		_, _ = w.Write([]byte(`{"friendslist":{"friends":[
			{"steamid":"10","relationship":"friend","friend_since":1},
			{"steamid":"","relationship":"friend"},
			{"steamid":"11","relationship":"friend","friend_since":2}
		]}}`))
	}))
	defer srv.Close()

	ids, err := newTestClient(t, srv).GetFriendList(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, []string{"10", "11"}, ids)
}

func TestGetFriendList_MissingEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetFriendList(context.Background(), "42")
	require.Error(t, err)
	require.Contains(t, err.Error(), "friendslist")
}

func TestGetFriendList_PrivateProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<html>Unauthorized</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetFriendList(context.Background(), "42")
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.HTTPStatusCode())
	require.NotContains(t, statusErr.Error(), "test-key")
}

func TestGetOwnedGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/IPlayerService/GetOwnedGames/v0001/", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("include_appinfo"))
		require.Equal(t, "1", r.URL.Query().Get("include_played_free_games"))
		_, _ = w.Write([]byte(`{"response":{"game_count":2,"games":[
			{"appid":10,"name":"Counter-Strike","playtime_forever":120,"img_icon_url":"x"},
			{"appid":440,"name":"Team Fortress 2","playtime_forever":0}
		]}}`))
	}))
	defer srv.Close()

	games, err := newTestClient(t, srv).GetOwnedGames(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, games, 2)
	require.Equal(t, "Counter-Strike", games[0].Name)
	require.Equal(t, int64(120), games[0].PlaytimeMinutes)
	require.Equal(t, int64(440), games[1].AppID)
}

func TestGet_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetOwnedGames(context.Background(), "42")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 500")
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Len(t, statusErr.Body, 512)
}

func TestGet_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not-json`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetOwnedGames(context.Background(), "42")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode")
}

func TestGet_NetworkErrorDoesNotLeakKey(t *testing.T) {
	c, err := NewClient(staticKey("super-secret"),
		WithBaseURL("http://127.0.0.1:1"),
		WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}),
	)
	require.NoError(t, err)

	_, err = c.GetOwnedGames(context.Background(), "42")
	require.Error(t, err)
	require.Contains(t, err.Error(), "request")
	require.NotContains(t, err.Error(), "super-secret")
}

func TestGet_TokenSourceError(t *testing.T) {
	c, err := NewClient(failingKey{})
	require.NoError(t, err)
	_, err = c.GetFriendList(context.Background(), "42")
	require.Error(t, err)
	require.Contains(t, err.Error(), "api key")
}

func TestGet_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"response":{"players":[]}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestClient(t, srv).GetPlayerSummaries(ctx, []string{"1"})
	require.Error(t, err)
}
