package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout and no retries.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// NewRetryingRestyClient creates a RestyClient that re-issues failed requests per policy.
func NewRetryingRestyClient(timeout time.Duration, policy RetryPolicy) *RestyClient {
	c := newRestyBaseClient(timeout)
	applyRetryPolicy(c, policy)
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// applyRetryPolicy configures resty so that every attempt is separated by exactly
// policy.Delay. Resty only falls back to its jittered backoff when RetryAfter
// returns zero, so a non-zero delay always wins.
func applyRetryPolicy(c *resty.Client, policy RetryPolicy) {
	if policy.MaxRetries <= 0 {
		return
	}
	delay := policy.Delay
	if delay < 0 {
		delay = 0
	}

	c.SetRetryCount(policy.MaxRetries)
	c.SetRetryWaitTime(delay)
	c.SetRetryMaxWaitTime(delay)
	c.SetRetryAfter(func(*resty.Client, *resty.Response) (time.Duration, error) {
		return delay, nil
	})
	c.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		if resp == nil {
			return false
		}
		return policy.retryableStatus(resp.StatusCode())
	})
}

// Post performs an HTTP POST with a pre-encoded body. Content-Type is taken from headers.
func (r *RestyClient) Post(ctx context.Context, url string, headers map[string]string, body []byte) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
