package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRestyClientPostSendsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "bearer abc" {
			t.Errorf("unexpected authorization %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if string(raw) != `["a","b"]` {
			t.Errorf("unexpected body %s", raw)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Post(context.Background(), srv.URL, map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "bearer abc",
	}, []byte(`["a","b"]`))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode())
	}
	if string(resp.Body()) != `{"ok":true}` {
		t.Fatalf("unexpected body %s", resp.Body())
	}
}

func TestRetryingClientRetriesConfiguredStatuses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRetryingRestyClient(2*time.Second, RetryPolicy{
		MaxRetries:    3,
		Delay:         5 * time.Millisecond,
		RetryStatuses: []int{http.StatusBadGateway},
	})
	resp, err := client.Post(context.Background(), srv.URL, nil, []byte("x"))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200 after retries, got %d", resp.StatusCode())
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestRetryingClientReturnsLastResponseWhenExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRetryingRestyClient(2*time.Second, RetryPolicy{
		MaxRetries:    2,
		Delay:         time.Millisecond,
		RetryStatuses: []int{http.StatusNotFound},
	})
	resp, err := client.Post(context.Background(), srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode())
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 1 attempt + 2 retries, got %d", got)
	}
}

func TestRetryingClientDoesNotRetryOtherStatuses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewRetryingRestyClient(2*time.Second, RetryPolicy{
		MaxRetries:    4,
		Delay:         time.Millisecond,
		RetryStatuses: []int{http.StatusBadGateway},
	})
	resp, err := client.Post(context.Background(), srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode())
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	if p.MaxRetries != 6 || p.Delay != 10*time.Second {
		t.Fatalf("unexpected default policy %+v", p)
	}
	for _, code := range []int{404, 500, 502} {
		if !p.retryableStatus(code) {
			t.Errorf("expected %d to be retryable", code)
		}
	}
	if p.retryableStatus(401) {
		t.Errorf("401 must not be retryable")
	}
}
