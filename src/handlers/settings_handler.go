package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"bankrelay-server/src/db"
	"bankrelay-server/src/models"
	"bankrelay-server/src/settings"
)

func GetSettings(settingsStore *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(settingsStore.Snapshot(r.Context()))
	}
}

// UpdateSettings persists new runtime settings. The worker count is
// clamped; the pool picks the change up at the next event submission.
func UpdateSettings(settingsStore *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.Settings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode settings request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		applied := settingsStore.Update(r.Context(), req)
		log.Printf("INFO: Updated settings: workers=%d saveNotifications=%t", applied.Workers, applied.SaveNotifications)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(applied)
	}
}

// ClearCache drops the cached endpoint-config documents.
func ClearCache() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db.ClearAllEndpointCaches()
		log.Printf("INFO: Cleared endpoint config cache")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "cache cleared"})
	}
}
