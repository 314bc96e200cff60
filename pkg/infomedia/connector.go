package infomedia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Adda-Baaj/infomedia-harvester/pkg/httpclient"
)

const (
	pathOAuthToken    = "/oauth/token"
	pathArticleSearch = "/api/v1/article/search"
	pathArticleFetch  = "/api/v1/article/fetch"

	// DefaultPageSize is large enough that a day of a single newspaper fits one page.
	DefaultPageSize = 300

	defaultTimeout = 30 * time.Second
)

// Config holds everything needed to talk to one Infomedia deployment.
type Config struct {
	BaseURL        string
	Username       string
	Password       string
	PageSize       int
	TokenEncoding  TokenEncoding
	TimingLogLevel string
	Timeout        time.Duration
	// Retry defaults to httpclient.DefaultRetryPolicy when nil.
	// Ignored when a transport is injected with WithTransport.
	Retry *httpclient.RetryPolicy
}

// Option customises a Connector.
type Option func(*Connector)

// WithTransport replaces the resty-backed transport.
func WithTransport(t httpclient.Client) Option {
	return func(c *Connector) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the logger used for request and timing logs.
func WithLogger(log Logger) Option {
	return func(c *Connector) { c.log = ensureLogger(log) }
}

// WithClock overrides time.Now for token expiry bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(c *Connector) {
		if now != nil {
			c.now = now
		}
	}
}

// Connector is a client for the Infomedia article API. It is safe for
// concurrent use; the bearer token is shared by all callers.
type Connector struct {
	baseURL   string
	transport httpclient.Client
	tokens    *tokenManager
	pageSize  atomic.Int64
	log       Logger
	logTiming logFunc
	now       func() time.Time
}

// New validates cfg and builds a Connector.
func New(cfg Config, opts ...Option) (*Connector, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base url is required", ErrInvalidArgument)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}
	encoding, err := ParseTokenEncoding(string(cfg.TokenEncoding))
	if err != nil {
		return nil, err
	}

	c := &Connector{
		baseURL: baseURL,
		log:     noopLogger{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		policy := httpclient.DefaultRetryPolicy()
		if cfg.Retry != nil {
			policy = *cfg.Retry
		}
		c.transport = httpclient.NewRetryingRestyClient(timeout, policy)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c.pageSize.Store(int64(pageSize))

	c.logTiming = timingLogger(c.log, cfg.TimingLogLevel)
	c.tokens = &tokenManager{
		transport: c.transport,
		url:       baseURL + pathOAuthToken,
		username:  cfg.Username,
		password:  cfg.Password,
		encoding:  encoding,
		now:       c.now,
		log:       c.log,
		logTiming: c.logTiming,
	}

	return c, nil
}

// PageSize returns the number of search hits requested per page.
func (c *Connector) PageSize() int { return int(c.pageSize.Load()) }

// SetPageSize changes the search page size for subsequent searches. Values < 1 are ignored.
func (c *Connector) SetPageSize(n int) {
	if n > 0 {
		c.pageSize.Store(int64(n))
	}
}

// postJSON sends payload to path with a valid bearer token and decodes a 200
// reply into out. entity names the expected reply type in errors.
func (c *Connector) postJSON(ctx context.Context, path string, payload []byte, entity string, out any) error {
	tok, err := c.tokens.ensureValidToken(ctx)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	c.logTiming("infomedia request", "infomedia_request", map[string]any{
		"path": path,
		"body": string(payload),
	})
	start := time.Now()
	defer func() {
		c.logTiming("infomedia request completed", "infomedia_timing", map[string]any{
			"path":       path,
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
	}()

	headers := map[string]string{
		"Accept":        "application/json",
		"Content-Type":  "application/json",
		"Authorization": "bearer " + tok.value,
	}
	resp, err := c.transport.Post(ctx, c.baseURL+path, headers, payload)
	if err != nil {
		return &TransportError{Path: path, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &UnexpectedStatusError{
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       responseSnippet(resp.Body()),
		}
	}
	return decodeEntity(path, entity, resp.Body(), out)
}

func decodeEntity(path, entity string, body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &EmptyEntityError{Path: path, Entity: entity}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &EmptyEntityError{Path: path, Entity: entity, Err: err}
	}
	return nil
}
