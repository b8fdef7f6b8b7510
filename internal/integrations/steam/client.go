// Package steam is a focused client for the Steam Web API endpoints used to
// build a profile aggregate: vanity resolution, player summaries, friend
// lists and owned games.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"steam-profile-bot/internal/domain"
)

const (
	defaultBaseURL = "https://api.steampowered.com"

	// MaxSummaryBatch is the provider's ceiling on steamids per GetPlayerSummaries call.
	MaxSummaryBatch = 100

	resolveVanityPath   = "/ISteamUser/ResolveVanityURL/v0001/"
	playerSummariesPath = "/ISteamUser/GetPlayerSummaries/v0002/"
	friendListPath      = "/ISteamUser/GetFriendList/v0001/"
	ownedGamesPath      = "/IPlayerService/GetOwnedGames/v0001/"

	resolveSuccess = 1
)

// TokenSource yields the Steam Web API key.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses. URL never includes the
// query string so the API key does not leak into logs.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("steam: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

type resolveVanityResponse struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}

type playerSummariesResponse struct {
	Response struct {
		Players []domain.ProfileRecord `json:"players"`
	} `json:"response"`
}

type friendListResponse struct {
	FriendsList *struct {
		Friends []struct {
			SteamID      string `json:"steamid"`
			Relationship string `json:"relationship"`
			FriendSince  int64  `json:"friend_since"`
		} `json:"friends"`
	} `json:"friendslist"`
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int                 `json:"game_count"`
		Games     []domain.GameRecord `json:"games"`
	} `json:"response"`
}

// Client calls the Steam Web API. It applies no timeouts of its own beyond
// the HTTP client's; callers bound each call through the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	keys       TokenSource
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client that fetches its API key from keys on every call.
func NewClient(keys TokenSource, opts ...Option) (*Client, error) {
	if keys == nil {
		return nil, errors.New("steam: token source must not be nil")
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		keys:       keys,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	return c, nil
}

// ResolveVanityURL maps a vanity name to a SteamID64. ok is false when the
// provider answers but reports no match.
func (c *Client) ResolveVanityURL(ctx context.Context, vanity string) (steamID string, ok bool, err error) {
	vanity = strings.TrimSpace(vanity)
	if vanity == "" {
		return "", false, errors.New("steam: vanity name must not be empty")
	}

	var payload resolveVanityResponse
	if err := c.get(ctx, resolveVanityPath, url.Values{"vanityurl": {vanity}}, &payload); err != nil {
		return "", false, err
	}
	if payload.Response.Success != resolveSuccess || payload.Response.SteamID == "" {
		return "", false, nil
	}
	return payload.Response.SteamID, true, nil
}

// GetPlayerSummaries returns the profile summaries for up to MaxSummaryBatch ids.
// Unknown ids are silently absent from the result, as the provider omits them.
func (c *Client) GetPlayerSummaries(ctx context.Context, steamIDs []string) ([]domain.ProfileRecord, error) {
	if len(steamIDs) == 0 {
		return nil, errors.New("steam: at least one steamid is required")
	}
	if len(steamIDs) > MaxSummaryBatch {
		return nil, fmt.Errorf("steam: %d steamids exceeds batch limit of %d", len(steamIDs), MaxSummaryBatch)
	}

	var payload playerSummariesResponse
	params := url.Values{"steamids": {strings.Join(steamIDs, ",")}}
	if err := c.get(ctx, playerSummariesPath, params, &payload); err != nil {
		return nil, err
	}
	return payload.Response.Players, nil
}

// GetFriendList returns the SteamIDs of the account's friends in provider order.
func (c *Client) GetFriendList(ctx context.Context, steamID string) ([]string, error) {
	var payload friendListResponse
	params := url.Values{"steamid": {steamID}, "relationship": {"friend"}}
	if err := c.get(ctx, friendListPath, params, &payload); err != nil {
		return nil, err
	}
	if payload.FriendsList == nil {
		return nil, errors.New("steam: friend list response missing friendslist")
	}

	ids := make([]string, 0, len(payload.FriendsList.Friends))
	for _, f := range payload.FriendsList.Friends {
		if f.SteamID == "" {
			continue
		}
		ids = append(ids, f.SteamID)
	}
	return ids, nil
}

// GetOwnedGames returns every owned title, including app metadata and played
// free games, in provider order.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string) ([]domain.GameRecord, error) {
	var payload ownedGamesResponse
	params := url.Values{
		"steamid":                   {steamID},
		"include_appinfo":           {"1"},
		"include_played_free_games": {"1"},
	}
	if err := c.get(ctx, ownedGamesPath, params, &payload); err != nil {
		return nil, err
	}
	return payload.Response.Games, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	key, err := c.keys.Token(ctx)
	if err != nil {
		return fmt.Errorf("steam: resolve api key: %w", err)
	}
	params.Set("key", key)

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("steam: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("steam: request %s failed: %w", path, scrubKey(err, key))
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        endpoint,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("steam: read %s response: %w", path, err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("steam: decode %s response: %w", path, err)
	}
	return nil
}

// scrubKey removes the API key from transport errors, which embed the full
// request URL.
func scrubKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}
