// Package telegram is a small Bot API client covering the replies the bot
// sends: plain or HTML text messages and photos by URL.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.telegram.org"

	// MaxMessageLength is the Bot API limit for message text.
	MaxMessageLength = 4096
	// MaxCaptionLength is the Bot API limit for photo captions.
	MaxCaptionLength = 1024
)

// TokenSource yields the bot token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// APIError is returned when the Bot API rejects a call. The bot token is
// never part of the message.
type APIError struct {
	StatusCode  int
	Method      string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s failed with status %d: %s", e.Method, e.StatusCode, e.Description)
}

func (e *APIError) HTTPStatusCode() int {
	return e.StatusCode
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
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

func NewClient(tokens TokenSource, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("telegram: token source must not be nil")
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	return c, nil
}

// SendMessage sends text to a chat. parseMode may be empty for plain text.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text, parseMode string) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:                chatID,
		Text:                  truncate(text, MaxMessageLength),
		ParseMode:             parseMode,
		DisableWebPagePreview: true,
	})
}

// SendPhoto sends a photo referenced by URL with an optional caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption, parseMode string) error {
	if strings.TrimSpace(photoURL) == "" {
		return errors.New("telegram: photo url must not be empty")
	}
	return c.call(ctx, "sendPhoto", sendPhotoRequest{
		ChatID:    chatID,
		Photo:     photoURL,
		Caption:   truncate(caption, MaxCaptionLength),
		ParseMode: parseMode,
	})
}

func (c *Client) call(ctx context.Context, method string, in any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("telegram: resolve bot token: %w", err)
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("telegram: marshal %s: %w", method, err)
	}

	url := c.baseURL + "/bot" + token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors embed the URL, which carries the token.
		return fmt.Errorf("telegram: %s request failed: %s", method, strings.ReplaceAll(err.Error(), token, "REDACTED"))
	}
	defer func() { _ = res.Body.Close() }()

	buf, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var payload apiResponse
	decErr := json.Unmarshal(buf, &payload)
	if res.StatusCode < 200 || res.StatusCode >= 300 || decErr != nil || !payload.OK {
		desc := payload.Description
		if desc == "" {
			desc = strings.TrimSpace(string(buf))
		}
		return &APIError{StatusCode: res.StatusCode, Method: method, Description: desc}
	}
	return nil
}

// truncate shortens s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
