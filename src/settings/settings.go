// Package settings persists the operator-tunable runtime knobs and hands
// out immutable snapshots. Callers re-read a snapshot at task-submission
// boundaries instead of sharing a mutable singleton.
package settings

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"bankrelay-server/src/db"
	"bankrelay-server/src/models"
)

const settingsKey = "app_settings"

type Store struct {
	kv       db.KV
	mu       sync.Mutex
	defaults models.Settings
}

func NewStore(kv db.KV, defaults models.Settings) *Store {
	return &Store{kv: kv, defaults: defaults.Clamp()}
}

// Snapshot returns the current settings. A missing or malformed document
// reads as the defaults.
func (s *Store) Snapshot(ctx context.Context) models.Settings {
	raw, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		log.Printf("ERROR: Failed to read settings: %v", err)
		return s.defaults
	}
	if raw == "" {
		return s.defaults
	}
	var cfg models.Settings
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		log.Printf("ERROR: Malformed settings document: %v", err)
		return s.defaults
	}
	return cfg.Clamp()
}

// Update persists new settings and returns the clamped result.
func (s *Store) Update(ctx context.Context, cfg models.Settings) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg = cfg.Clamp()
	raw, err := json.Marshal(cfg)
	if err != nil {
		log.Printf("ERROR: Failed to encode settings: %v", err)
		return cfg
	}
	if err := s.kv.Set(ctx, settingsKey, string(raw)); err != nil {
		log.Printf("ERROR: Failed to persist settings: %v", err)
	}
	return cfg
}
