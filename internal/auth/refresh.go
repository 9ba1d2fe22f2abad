package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// refreshBuffer refreshes tokens this long before they expire
const refreshBuffer = 60 * time.Second

// TokenStore persists refreshed tokens. *store.Store implements it.
type TokenStore interface {
	UpdateTokens(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) error
}

// TokenSource refreshes the Strava token when it is about to expire and
// writes every new token back to the TokenStore.
type TokenSource struct {
	config *oauth2.Config
	token  *oauth2.Token
	store  TokenStore
	log    zerolog.Logger
	mu     sync.Mutex
}

// NewTokenSource creates a TokenSource. store may be nil.
func NewTokenSource(cfg *oauth2.Config, token *oauth2.Token, store TokenStore, log zerolog.Logger) *TokenSource {
	return &TokenSource{
		config: cfg,
		token:  token,
		store:  store,
		log:    log,
	}
}

// Token returns a valid token, refreshing if necessary
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if time.Until(ts.token.Expiry) > refreshBuffer {
		return ts.token, nil
	}

	ctx := context.Background()
	newToken, err := ts.config.TokenSource(ctx, ts.token).Token()
	if err != nil {
		return nil, err
	}

	ts.log.Debug().Time("expires_at", newToken.Expiry).Msg("refreshed strava token")

	if ts.store != nil {
		if err := ts.store.UpdateTokens(ctx, newToken.AccessToken, newToken.RefreshToken, newToken.Expiry); err != nil {
			return nil, err
		}
	}

	ts.token = newToken
	return newToken, nil
}

// IsExpired checks if the current token is expired or within the refresh buffer
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return time.Until(ts.token.Expiry) <= refreshBuffer
}
