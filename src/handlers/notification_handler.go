package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"bankrelay-server/src/store"
)

func GetNotifications(rawLog *store.NotificationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(rawLog.GetAll(r.Context())))
	}
}

func ClearNotifications(rawLog *store.NotificationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawLog.Clear(r.Context())
		log.Printf("INFO: Cleared raw notification log")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "notifications cleared"})
	}
}
