// Package dispatch selects the endpoints a transaction should be delivered
// to and performs the asynchronous HTTP calls with a bounded, fixed-delay
// retry policy.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"bankrelay-server/src/conditions"
	"bankrelay-server/src/models"
	"bankrelay-server/src/store"
)

type webhookPayload struct {
	Gateway        string `json:"gateway"`
	Content        string `json:"content"`
	TransferAmount int64  `json:"transferAmount"`
	TransactionID  string `json:"transactionId"`
}

type Engine struct {
	endpoints *store.EndpointStore
	history   *store.TransactionStore
	scheduler Scheduler
	client    *http.Client
}

func NewEngine(endpoints *store.EndpointStore, history *store.TransactionStore, scheduler Scheduler, client *http.Client) *Engine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Engine{
		endpoints: endpoints,
		history:   history,
		scheduler: scheduler,
		client:    client,
	}
}

// Process fans a transaction out to every enabled endpoint whose direction
// flag and condition rule match. Delivery is fire-and-forget; the return
// value only says whether at least one delivery was attempted.
func (e *Engine) Process(ctx context.Context, tx models.Transaction) bool {
	var matched []models.EndpointConfig
	for _, cfg := range e.endpoints.GetAll(ctx, tx.Provider) {
		if !cfg.Enabled || !cfg.WantsDirection(tx.Direction) {
			continue
		}
		if !conditions.Evaluate(cfg.Conditions, tx.Content) {
			continue
		}
		matched = append(matched, cfg)
	}
	if len(matched) == 0 {
		log.Printf("INFO: No endpoint configured for %s %s transaction", tx.Provider, tx.Direction)
		return false
	}

	body, err := json.Marshal(webhookPayload{
		Gateway:        string(tx.Provider),
		Content:        tx.Content,
		TransferAmount: tx.Amount,
		TransactionID:  tx.TransactionID,
	})
	if err != nil {
		log.Printf("ERROR: Failed to encode webhook payload for %s: %v", tx.TransactionID, err)
		return false
	}

	log.Printf("INFO: Dispatching %s transaction %s to %d endpoint(s)", tx.Provider, tx.TransactionID, len(matched))
	for _, cfg := range matched {
		go e.attempt(cfg, body, tx.Provider, tx.TransactionID, 0)
	}
	return true
}

// attempt performs one HTTP call for an (endpoint, transaction) pair and
// schedules the retry continuation when the outcome is retryable.
func (e *Engine) attempt(cfg models.EndpointConfig, body []byte, provider models.Provider, transactionID string, retryCount int) {
	req, err := http.NewRequest(http.MethodPost, cfg.URL, bytes.NewReader(body))
	if err != nil {
		log.Printf("ERROR: Invalid endpoint URL for %q: %v", cfg.Name, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Apikey "+cfg.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		// Connection-level failures are always retryable.
		log.Printf("ERROR: Endpoint %q attempt %d failed: %v", cfg.Name, retryCount, err)
		e.maybeRetry(cfg, body, provider, transactionID, retryCount)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	code := resp.StatusCode
	e.history.UpdateResponseCode(context.Background(), provider, transactionID, code)

	switch {
	case code >= 200 && code < 300:
		log.Printf("INFO: Endpoint %q delivered transaction %s (%d)", cfg.Name, transactionID, code)
	case code == http.StatusForbidden || code == http.StatusNotFound:
		// Caller misconfiguration; retrying cannot help.
		log.Printf("ERROR: Endpoint %q rejected transaction %s (%d), giving up", cfg.Name, transactionID, code)
	default:
		log.Printf("ERROR: Endpoint %q returned %d for transaction %s", cfg.Name, code, transactionID)
		e.maybeRetry(cfg, body, provider, transactionID, retryCount)
	}
}

func (e *Engine) maybeRetry(cfg models.EndpointConfig, body []byte, provider models.Provider, transactionID string, retryCount int) {
	if !cfg.RetryOnFailure || retryCount >= cfg.MaxRetries {
		if retryCount >= cfg.MaxRetries {
			log.Printf("INFO: Endpoint %q exhausted %d retries for transaction %s", cfg.Name, cfg.MaxRetries, transactionID)
		}
		return
	}
	delay := time.Duration(cfg.RetryDelayMs) * time.Millisecond
	log.Printf("INFO: Retrying endpoint %q (%d/%d) in %s", cfg.Name, retryCount+1, cfg.MaxRetries, delay)
	e.scheduler.AfterFunc(delay, func() {
		e.attempt(cfg, body, provider, transactionID, retryCount+1)
	})
}
