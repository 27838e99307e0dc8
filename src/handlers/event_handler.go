package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"bankrelay-server/src/ingest"
	"bankrelay-server/src/models"
	"bankrelay-server/src/worker"

	"github.com/google/uuid"
)

// IngestEvent accepts one raw notification event from the device bridge
// and hands it to the pipeline. The response only acknowledges queueing;
// parsing and dispatch happen asynchronously.
func IngestEvent(svc *ingest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event models.NotificationEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			log.Printf("ERROR: Failed to decode notification event: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if event.SourceApp == "" {
			http.Error(w, "source_app is required", http.StatusBadRequest)
			return
		}
		if event.PostedAt == 0 {
			event.PostedAt = time.Now().UnixMilli()
		}
		event.ID = uuid.NewString()

		if err := svc.Ingest(r.Context(), event); err != nil {
			if errors.Is(err, worker.ErrQueueFull) {
				log.Printf("ERROR: Dropping event %s from %s: %v", event.ID, event.SourceApp, err)
				http.Error(w, "ingestion queue is full", http.StatusServiceUnavailable)
				return
			}
			log.Printf("ERROR: Failed to submit event %s: %v", event.ID, err)
			http.Error(w, "failed to submit event", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"id": event.ID, "status": "accepted"})
	}
}
