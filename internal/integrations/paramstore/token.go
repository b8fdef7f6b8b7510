package paramstore

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// TokenSource yields a secret token such as an API key or bot token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a token supplied directly, e.g. from the environment.
type StaticToken string

func (s StaticToken) Token(_ context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", errors.New("paramstore: static token is empty")
	}
	return string(s), nil
}

type tokenGetter interface {
	GetToken(ctx context.Context, name string) (string, error)
}

// CachedToken fetches a token from Parameter Store on first use and reuses it
// for the lifetime of the process. Failed fetches are not cached, so the next
// call tries again.
type CachedToken struct {
	getter tokenGetter
	name   string

	mu    sync.Mutex
	token string
}

// NewCachedToken creates a CachedToken reading name through getter.
func NewCachedToken(getter tokenGetter, name string) (*CachedToken, error) {
	if getter == nil {
		return nil, errors.New("paramstore: token getter must not be nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("paramstore: token name is empty")
	}
	return &CachedToken{getter: getter, name: name}, nil
}

func (c *CachedToken) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.getter.GetToken(ctx, c.name)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}
