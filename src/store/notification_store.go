package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"bankrelay-server/src/db"
	"bankrelay-server/src/models"
)

// maxNotifications bounds the raw notification log.
const maxNotifications = 200

const notificationKey = "saved_notifications"

// NotificationStore keeps the raw-event audit log written when the
// save-notifications setting is on. Entries are newest first and the whole
// log is cleared periodically by the janitor.
type NotificationStore struct {
	kv db.KV
	mu sync.Mutex
}

func NewNotificationStore(kv db.KV) *NotificationStore {
	return &NotificationStore{kv: kv}
}

// Append prepends a raw event, truncating to the cap.
func (s *NotificationStore) Append(ctx context.Context, event models.NotificationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.readDoc(ctx)
	updated := make([]models.NotificationEvent, 0, maxNotifications)
	updated = append(updated, event)
	for i := 0; i < len(events) && i < maxNotifications-1; i++ {
		updated = append(updated, events[i])
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		log.Printf("ERROR: Failed to encode notification log: %v", err)
		return
	}
	if err := s.kv.Set(ctx, notificationKey, string(raw)); err != nil {
		log.Printf("ERROR: Failed to persist notification log: %v", err)
	}
}

// GetAll returns the serialized log.
func (s *NotificationStore) GetAll(ctx context.Context) string {
	raw, err := s.kv.Get(ctx, notificationKey)
	if err != nil {
		log.Printf("ERROR: Failed to read notification log: %v", err)
		return "[]"
	}
	if raw == "" {
		return "[]"
	}
	return raw
}

// Clear drops the log.
func (s *NotificationStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, notificationKey, "[]"); err != nil {
		log.Printf("ERROR: Failed to clear notification log: %v", err)
	}
}

func (s *NotificationStore) readDoc(ctx context.Context) []models.NotificationEvent {
	raw, err := s.kv.Get(ctx, notificationKey)
	if err != nil || raw == "" {
		if err != nil {
			log.Printf("ERROR: Failed to read notification log: %v", err)
		}
		return nil
	}
	var events []models.NotificationEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		log.Printf("ERROR: Malformed notification log: %v", err)
		return nil
	}
	return events
}
