// Package network carries finished scores to a remote endpoint and streams
// live snapshots to spectators
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/twister/engine"
	"github.com/lixenwraith/twister/parameter"
	"github.com/lixenwraith/twister/session"
)

// scorePayload is the request body accepted by the score endpoint
type scorePayload struct {
	GameID string `json:"game_id"`
	Score  int    `json:"score"`
}

// ScoreClient posts final scores in the background
// Implements session.Submitter: never blocks the caller, never retries
type ScoreClient struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client

	wg sync.WaitGroup
}

// NewScoreClient creates a client; an empty endpoint drops every score
func NewScoreClient(endpoint string, timeout time.Duration) *ScoreClient {
	if timeout <= 0 {
		timeout = parameter.ScoreTimeout
	}
	return &ScoreClient{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit implements session.Submitter
func (c *ScoreClient) Submit(score session.Score) {
	if c.endpoint == "" {
		log.Printf("[score] no endpoint configured, dropping score %d (%s)", score.Value, score.Outcome)
		return
	}

	c.wg.Add(1)
	engine.Go(func() {
		defer c.wg.Done()
		if err := c.post(score); err != nil {
			log.Printf("[score] submit failed: %v", err)
			return
		}
		log.Printf("[score] submitted %d for %s", score.Value, score.SessionID)
	})
}

// Wait blocks until in-flight submissions finish or time out
func (c *ScoreClient) Wait() {
	c.wg.Wait()
}

func (c *ScoreClient) post(score session.Score) error {
	body, err := json.Marshal(scorePayload{GameID: score.GameID, Score: score.Value})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	key := score.SessionID
	if key == "" {
		key = uuid.NewString()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
