package network

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/twister/session"
)

type capturedRequest struct {
	method      string
	contentType string
	key         string
	body        scorePayload
}

func captureServer(t *testing.T, status int) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body scorePayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		mu.Lock()
		reqs = append(reqs, capturedRequest{
			method:      r.Method,
			contentType: r.Header.Get("Content-Type"),
			key:         r.Header.Get("Idempotency-Key"),
			body:        body,
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), reqs...)
	}
}

func TestScoreClientPostsPayload(t *testing.T) {
	srv, requests := captureServer(t, http.StatusCreated)
	c := NewScoreClient(srv.URL, time.Second)

	c.Submit(session.Score{GameID: "twister", Value: 12, SessionID: "abc-123", Outcome: session.StateGameOver})
	c.Wait()

	reqs := requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	got := reqs[0]
	if got.method != http.MethodPost {
		t.Errorf("method = %s, want POST", got.method)
	}
	if got.contentType != "application/json" {
		t.Errorf("content type = %q", got.contentType)
	}
	if got.key != "abc-123" {
		t.Errorf("Idempotency-Key = %q, want abc-123", got.key)
	}
	if got.body.GameID != "twister" || got.body.Score != 12 {
		t.Errorf("body = %+v", got.body)
	}
}

func TestScoreClientGeneratesKeyWithoutSession(t *testing.T) {
	srv, requests := captureServer(t, http.StatusOK)
	c := NewScoreClient(srv.URL, time.Second)

	c.Submit(session.Score{GameID: "twister", Value: 1})
	c.Wait()

	reqs := requests()
	if len(reqs) != 1 || reqs[0].key == "" {
		t.Fatalf("requests = %+v, want one with a generated key", reqs)
	}
}

func TestScoreClientNeverRetries(t *testing.T) {
	srv, requests := captureServer(t, http.StatusInternalServerError)
	c := NewScoreClient(srv.URL, time.Second)

	c.Submit(session.Score{GameID: "twister", Value: 3, SessionID: "s"})
	c.Wait()

	if n := len(requests()); n != 1 {
		t.Errorf("requests = %d, want 1 with no retry", n)
	}
}

func TestScoreClientEmptyEndpointDrops(t *testing.T) {
	c := NewScoreClient("", 0)
	if c.timeout <= 0 {
		t.Errorf("timeout = %v, want default", c.timeout)
	}

	done := make(chan struct{})
	go func() {
		c.Submit(session.Score{Value: 5})
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit with empty endpoint blocked")
	}
}

func TestScoreClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewScoreClient(srv.URL, 50*time.Millisecond)

	start := time.Now()
	c.Submit(session.Score{Value: 1, SessionID: "slow"})
	c.Wait()

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Wait took %v, timeout not applied", elapsed)
	}
}

func TestScoreClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewScoreClient(url, 200*time.Millisecond)
	c.Submit(session.Score{Value: 1, SessionID: "x"})
	c.Wait()
}
