package infomedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adda-Baaj/infomedia-harvester/pkg/httpclient"
)

// TokenEncoding selects how the password grant is written to /oauth/token.
// The service has shipped both variants; a deployment accepts only one of them.
type TokenEncoding string

const (
	// TokenEncodingPlain sends the grant verbatim as text/plain (current API revision).
	TokenEncodingPlain TokenEncoding = "plain"
	// TokenEncodingForm sends the grant as application/x-www-form-urlencoded.
	TokenEncodingForm TokenEncoding = "form"
)

// ParseTokenEncoding maps a config value to a TokenEncoding. Empty means plain.
func ParseTokenEncoding(v string) (TokenEncoding, error) {
	switch TokenEncoding(strings.ToLower(strings.TrimSpace(v))) {
	case "", TokenEncodingPlain:
		return TokenEncodingPlain, nil
	case TokenEncodingForm:
		return TokenEncodingForm, nil
	default:
		return "", fmt.Errorf("%w: unknown token encoding %q", ErrInvalidArgument, v)
	}
}

type bearerToken struct {
	value     string
	expiresAt time.Time
}

func (t *bearerToken) validAt(now time.Time) bool {
	return t != nil && now.Before(t.expiresAt)
}

// tokenManager owns the cached bearer token. Value and expiry are swapped in
// together through one pointer, so readers never see a half-updated token.
type tokenManager struct {
	transport httpclient.Client
	url       string
	username  string
	password  string
	encoding  TokenEncoding
	now       func() time.Time
	log       Logger
	logTiming logFunc

	mu      sync.Mutex
	current atomic.Pointer[bearerToken]
}

// ensureValidToken returns the cached token while it is valid and otherwise
// refreshes it. Concurrent callers that find the token expired queue on mu and
// the re-check lets all but the first reuse the fresh token.
func (m *tokenManager) ensureValidToken(ctx context.Context) (bearerToken, error) {
	if tok := m.current.Load(); tok.validAt(m.now()) {
		return *tok, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tok := m.current.Load(); tok.validAt(m.now()) {
		return *tok, nil
	}

	m.logTiming("token expired - getting new one", "infomedia_token", map[string]any{
		"url": m.url,
	})
	tok, err := m.refresh(ctx)
	if err != nil {
		return bearerToken{}, err
	}
	m.current.Store(tok)
	m.logTiming("bearer token renewed", "infomedia_token", map[string]any{
		"expires_at": tok.expiresAt.UTC(),
	})
	return *tok, nil
}

func (m *tokenManager) refresh(ctx context.Context) (*bearerToken, error) {
	start := time.Now()
	defer func() {
		m.logTiming("infomedia request completed", "infomedia_timing", map[string]any{
			"path":       pathOAuthToken,
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
	}()

	body, contentType := m.grant()
	resp, err := m.transport.Post(ctx, m.url, map[string]string{"Content-Type": contentType}, body)
	if err != nil {
		return nil, &TransportError{Path: pathOAuthToken, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		m.log.WarnObj("token request rejected", "infomedia_token_error", map[string]any{
			"status": resp.StatusCode(),
		})
		return nil, &UnexpectedStatusError{
			Path:       pathOAuthToken,
			StatusCode: resp.StatusCode(),
			Body:       responseSnippet(resp.Body()),
		}
	}

	var auth *authToken
	if err := json.Unmarshal(resp.Body(), &auth); err != nil {
		return nil, &EmptyEntityError{Path: pathOAuthToken, Entity: "AuthToken", Err: err}
	}
	if auth == nil || auth.AccessToken == "" {
		return nil, &EmptyEntityError{Path: pathOAuthToken, Entity: "AuthToken"}
	}

	return &bearerToken{
		value:     auth.AccessToken,
		expiresAt: m.now().Add(time.Duration(auth.ExpiresIn) * time.Second),
	}, nil
}

// grant renders the password grant in the configured encoding.
func (m *tokenManager) grant() ([]byte, string) {
	if m.encoding == TokenEncodingForm {
		form := url.Values{}
		form.Set("grant_type", "password")
		form.Set("username", m.username)
		form.Set("password", m.password)
		return []byte(form.Encode()), "application/x-www-form-urlencoded"
	}
	raw := fmt.Sprintf("grant_type=password&username=%s&password=%s", m.username, m.password)
	return []byte(raw), "text/plain"
}
