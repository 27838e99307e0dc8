package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"bankrelay-server/src/store"
)

// GetTransactions returns the provider's history document as stored:
// a JSON array, newest first.
func GetTransactions(history *store.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := providerParam(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(history.GetAll(r.Context(), provider)))
	}
}

func ClearTransactions(history *store.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := providerParam(w, r)
		if !ok {
			return
		}
		history.Clear(r.Context(), provider)
		log.Printf("INFO: Cleared transaction history for %s", provider)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transactions cleared"})
	}
}
