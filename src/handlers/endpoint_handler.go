package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"bankrelay-server/src/models"
	"bankrelay-server/src/store"
	"bankrelay-server/src/util"

	"github.com/go-chi/chi/v5"
)

func providerParam(w http.ResponseWriter, r *http.Request) (models.Provider, bool) {
	raw := chi.URLParam(r, "provider")
	provider, ok := models.ParseProvider(raw)
	if !ok {
		log.Printf("ERROR: Unknown provider param: %s", raw)
		http.Error(w, "unknown provider", http.StatusNotFound)
		return "", false
	}
	return provider, true
}

func ListEndpoints(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := providerParam(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(endpoints.GetAll(r.Context(), provider))
	}
}

func GetEndpoint(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := providerParam(w, r)
		if !ok {
			return
		}
		name := chi.URLParam(r, "name")
		cfg, ok := endpoints.Get(r.Context(), provider, name)
		if !ok {
			http.Error(w, "endpoint not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)
	}
}

func CreateEndpoint(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := providerParam(w, r)
		if !ok {
			return
		}
		var cfg models.EndpointConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			log.Printf("ERROR: Failed to decode endpoint config: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !util.ValidateEndpointName(cfg.Name) {
			http.Error(w, "invalid endpoint name", http.StatusBadRequest)
			return
		}
		if !util.ValidateWebhookURL(cfg.URL) {
			http.Error(w, "invalid endpoint url", http.StatusBadRequest)
			return
		}
		endpoints.Upsert(r.Context(), provider, cfg)
		log.Printf("INFO: Saved endpoint %q for %s", cfg.Name, provider)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(cfg)
	}
}

// UpdateEndpoint upserts: updating a name that does not exist yet creates
// it.
func UpdateEndpoint(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := providerParam(w, r)
		if !ok {
			return
		}
		var cfg models.EndpointConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			log.Printf("ERROR: Failed to decode endpoint config: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		cfg.Name = chi.URLParam(r, "name")
		if !util.ValidateEndpointName(cfg.Name) {
			http.Error(w, "invalid endpoint name", http.StatusBadRequest)
			return
		}
		if !util.ValidateWebhookURL(cfg.URL) {
			http.Error(w, "invalid endpoint url", http.StatusBadRequest)
			return
		}
		endpoints.Upsert(r.Context(), provider, cfg)
		log.Printf("INFO: Saved endpoint %q for %s", cfg.Name, provider)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)
	}
}

func DeleteEndpoint(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := providerParam(w, r)
		if !ok {
			return
		}
		name := chi.URLParam(r, "name")
		endpoints.Remove(r.Context(), provider, name)
		log.Printf("INFO: Deleted endpoint %q for %s", name, provider)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "endpoint deleted"})
	}
}

// namedEndpoint resolves the {name} param against the store, writing a 404
// when absent.
func namedEndpoint(endpoints *store.EndpointStore, w http.ResponseWriter, r *http.Request) (models.Provider, string, bool) {
	provider, ok := providerParam(w, r)
	if !ok {
		return "", "", false
	}
	name := chi.URLParam(r, "name")
	if _, ok := endpoints.Get(r.Context(), provider, name); !ok {
		http.Error(w, "endpoint not found", http.StatusNotFound)
		return "", "", false
	}
	return provider, name, true
}

func SetEndpointEnabled(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, name, ok := namedEndpoint(endpoints, w, r)
		if !ok {
			return
		}
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		endpoints.SetEnabled(r.Context(), provider, name, req.Enabled)
		log.Printf("INFO: Set endpoint %q enabled=%t for %s", name, req.Enabled, provider)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "endpoint updated"})
	}
}

func UpdateEndpointNotifications(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, name, ok := namedEndpoint(endpoints, w, r)
		if !ok {
			return
		}
		var req struct {
			NotifyOnMoneyIn  bool `json:"notifyOnMoneyIn"`
			NotifyOnMoneyOut bool `json:"notifyOnMoneyOut"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		endpoints.UpdateNotificationFlags(r.Context(), provider, name, req.NotifyOnMoneyIn, req.NotifyOnMoneyOut)
		log.Printf("INFO: Updated notification flags for endpoint %q of %s", name, provider)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "endpoint updated"})
	}
}

func UpdateEndpointRetry(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, name, ok := namedEndpoint(endpoints, w, r)
		if !ok {
			return
		}
		var req struct {
			RetryOnFailure bool  `json:"retryOnFailure"`
			MaxRetries     int   `json:"maxRetries"`
			RetryDelayMs   int64 `json:"retryDelayMs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.MaxRetries < 0 {
			http.Error(w, "maxRetries must be >= 0", http.StatusBadRequest)
			return
		}
		endpoints.UpdateRetryConfig(r.Context(), provider, name, req.RetryOnFailure, req.MaxRetries, req.RetryDelayMs)
		log.Printf("INFO: Updated retry config for endpoint %q of %s", name, provider)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "endpoint updated"})
	}
}

func UpdateEndpointConditions(endpoints *store.EndpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, name, ok := namedEndpoint(endpoints, w, r)
		if !ok {
			return
		}
		var req struct {
			Conditions string `json:"conditions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		endpoints.UpdateConditions(r.Context(), provider, name, req.Conditions)
		log.Printf("INFO: Updated conditions for endpoint %q of %s", name, provider)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "endpoint updated"})
	}
}
