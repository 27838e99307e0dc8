// Package store implements the persisted documents: per-provider endpoint
// configuration, per-provider transaction history, and the raw notification
// log. Every document is a whole JSON value behind one KV key; writers hold
// a per-provider mutex around the read-modify-write cycle.
//
// Storage failures are logged and swallowed: nothing in the pipeline
// surfaces a persistence error to the caller.
package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"bankrelay-server/src/db"
	"bankrelay-server/src/models"
)

// EndpointStore owns the per-provider endpoint-config documents.
type EndpointStore struct {
	kv    db.KV
	locks map[models.Provider]*sync.Mutex
}

func NewEndpointStore(kv db.KV) *EndpointStore {
	locks := make(map[models.Provider]*sync.Mutex, len(models.Providers))
	for _, p := range models.Providers {
		locks[p] = &sync.Mutex{}
	}
	return &EndpointStore{kv: kv, locks: locks}
}

func endpointKey(provider models.Provider) string {
	return "endpoint_config:" + string(provider)
}

// Upsert adds or replaces an endpoint. An update for an endpoint that does
// not exist yet behaves as an add.
func (s *EndpointStore) Upsert(ctx context.Context, provider models.Provider, cfg models.EndpointConfig) {
	cfg.ApplyDefaults()
	s.mutate(ctx, provider, func(doc map[string]models.EndpointConfig) bool {
		doc[cfg.Name] = cfg
		return true
	})
}

// Remove deletes an endpoint by name. Removing an unknown name is a no-op.
func (s *EndpointStore) Remove(ctx context.Context, provider models.Provider, name string) {
	s.mutate(ctx, provider, func(doc map[string]models.EndpointConfig) bool {
		if _, ok := doc[name]; !ok {
			return false
		}
		delete(doc, name)
		return true
	})
}

// SetEnabled toggles an endpoint without touching its other settings.
func (s *EndpointStore) SetEnabled(ctx context.Context, provider models.Provider, name string, enabled bool) {
	s.patch(ctx, provider, name, func(cfg *models.EndpointConfig) {
		cfg.Enabled = enabled
	})
}

// UpdateNotificationFlags sets the direction filters.
func (s *EndpointStore) UpdateNotificationFlags(ctx context.Context, provider models.Provider, name string, moneyIn, moneyOut bool) {
	s.patch(ctx, provider, name, func(cfg *models.EndpointConfig) {
		cfg.NotifyOnMoneyIn = moneyIn
		cfg.NotifyOnMoneyOut = moneyOut
	})
}

// UpdateRetryConfig sets the retry policy.
func (s *EndpointStore) UpdateRetryConfig(ctx context.Context, provider models.Provider, name string, retryOnFailure bool, maxRetries int, retryDelayMs int64) {
	s.patch(ctx, provider, name, func(cfg *models.EndpointConfig) {
		cfg.RetryOnFailure = retryOnFailure
		// An explicit zero is a valid "no retries" setting here, unlike
		// the unset zero value at creation time.
		if maxRetries < 0 {
			maxRetries = 0
		}
		cfg.MaxRetries = maxRetries
		if retryDelayMs <= 0 {
			retryDelayMs = models.DefaultRetryDelayMs
		}
		cfg.RetryDelayMs = retryDelayMs
	})
}

// UpdateConditions replaces the endpoint's condition rule string.
func (s *EndpointStore) UpdateConditions(ctx context.Context, provider models.Provider, name, conditions string) {
	s.patch(ctx, provider, name, func(cfg *models.EndpointConfig) {
		cfg.Conditions = conditions
	})
}

// GetAll returns every configured endpoint for the provider. A missing or
// malformed document reads as no endpoints.
func (s *EndpointStore) GetAll(ctx context.Context, provider models.Provider) []models.EndpointConfig {
	doc := s.readCached(ctx, provider)
	out := make([]models.EndpointConfig, 0, len(doc))
	for _, cfg := range doc {
		out = append(out, cfg)
	}
	return out
}

// Get returns one endpoint by name.
func (s *EndpointStore) Get(ctx context.Context, provider models.Provider, name string) (models.EndpointConfig, bool) {
	cfg, ok := s.readCached(ctx, provider)[name]
	return cfg, ok
}

// patch applies fn to an existing endpoint; unknown names are ignored.
func (s *EndpointStore) patch(ctx context.Context, provider models.Provider, name string, fn func(*models.EndpointConfig)) {
	s.mutate(ctx, provider, func(doc map[string]models.EndpointConfig) bool {
		cfg, ok := doc[name]
		if !ok {
			return false
		}
		fn(&cfg)
		doc[name] = cfg
		return true
	})
}

func (s *EndpointStore) mutate(ctx context.Context, provider models.Provider, fn func(map[string]models.EndpointConfig) bool) {
	mu := s.locks[provider]
	mu.Lock()
	defer mu.Unlock()

	doc := s.readDoc(ctx, provider)
	if !fn(doc) {
		return
	}
	s.writeDoc(ctx, provider, doc)
	db.DelEndpointCache(endpointKey(provider))
}

func (s *EndpointStore) readCached(ctx context.Context, provider models.Provider) map[string]models.EndpointConfig {
	key := endpointKey(provider)
	if cached, ok := db.GetEndpointCache(key); ok {
		if doc, ok := cached.(map[string]models.EndpointConfig); ok {
			return doc
		}
	}
	doc := s.readDoc(ctx, provider)
	db.SetEndpointCache(key, doc)
	return doc
}

func (s *EndpointStore) readDoc(ctx context.Context, provider models.Provider) map[string]models.EndpointConfig {
	doc := make(map[string]models.EndpointConfig)
	raw, err := s.kv.Get(ctx, endpointKey(provider))
	if err != nil {
		log.Printf("ERROR: Failed to read endpoint config for %s: %v", provider, err)
		return doc
	}
	if raw == "" {
		return doc
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		log.Printf("ERROR: Malformed endpoint config document for %s: %v", provider, err)
		return make(map[string]models.EndpointConfig)
	}
	return doc
}

func (s *EndpointStore) writeDoc(ctx context.Context, provider models.Provider, doc map[string]models.EndpointConfig) {
	raw, err := json.Marshal(doc)
	if err != nil {
		log.Printf("ERROR: Failed to encode endpoint config for %s: %v", provider, err)
		return
	}
	if err := s.kv.Set(ctx, endpointKey(provider), string(raw)); err != nil {
		log.Printf("ERROR: Failed to persist endpoint config for %s: %v", provider, err)
	}
}
