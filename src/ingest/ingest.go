// Package ingest runs the notification pipeline: each accepted event
// becomes one worker task that parses, records, and dispatches.
package ingest

import (
	"context"
	"errors"
	"log"
	"time"

	"bankrelay-server/src/dispatch"
	"bankrelay-server/src/models"
	"bankrelay-server/src/providers"
	"bankrelay-server/src/settings"
	"bankrelay-server/src/store"
	"bankrelay-server/src/worker"
)

type Service struct {
	registry *providers.Registry
	engine   *dispatch.Engine
	history  *store.TransactionStore
	rawLog   *store.NotificationStore
	settings *settings.Store
	pool     *worker.Pool
}

func NewService(
	registry *providers.Registry,
	engine *dispatch.Engine,
	history *store.TransactionStore,
	rawLog *store.NotificationStore,
	settingsStore *settings.Store,
	pool *worker.Pool,
) *Service {
	return &Service{
		registry: registry,
		engine:   engine,
		history:  history,
		rawLog:   rawLog,
		settings: settingsStore,
		pool:     pool,
	}
}

// Ingest takes a settings snapshot, reconciles the pool size against it,
// and submits the event as one independent pipeline task. Events are
// processed concurrently without ordering guarantees.
func (s *Service) Ingest(ctx context.Context, event models.NotificationEvent) error {
	snapshot := s.settings.Snapshot(ctx)
	s.pool.Resize(snapshot.Workers)
	return s.pool.Submit(func() {
		s.process(event, snapshot)
	})
}

func (s *Service) process(event models.NotificationEvent, snapshot models.Settings) {
	ctx := context.Background()

	if snapshot.SaveNotifications {
		s.rawLog.Append(ctx, event)
	}

	parser, ok := s.registry.Route(event)
	if !ok {
		return
	}

	tx, err := parser.Parse(event)
	if err != nil {
		if !errors.Is(err, providers.ErrNotTransaction) {
			log.Printf("ERROR: Parser %s failed on event %s: %v", parser.Provider(), event.ID, err)
		}
		// Recognized provider, not a transaction notification: drop.
		return
	}

	dispatched := s.engine.Process(ctx, tx)
	s.history.Append(ctx, models.NewTransactionRecord(tx, dispatched))
	log.Printf("INFO: Recorded %s transaction %s (amount %d, dispatched %t)",
		tx.Provider, tx.TransactionID, tx.Amount, dispatched)
}

// StartJanitor clears the raw notification log on an interval until the
// context is canceled.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.rawLog.Clear(context.Background())
				log.Printf("INFO: Cleared raw notification log")
			}
		}
	}()
}
