package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"bankrelay-server/src/api"
	"bankrelay-server/src/config"
	"bankrelay-server/src/db"
	"bankrelay-server/src/dispatch"
	"bankrelay-server/src/ingest"
	"bankrelay-server/src/models"
	"bankrelay-server/src/providers"
	"bankrelay-server/src/settings"
	"bankrelay-server/src/store"
	"bankrelay-server/src/worker"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()
	kv := db.NewPgKV(pool)

	endpoints := store.NewEndpointStore(kv)
	history := store.NewTransactionStore(kv)
	rawLog := store.NewNotificationStore(kv)
	settingsStore := settings.NewStore(kv, models.Settings{
		Workers:           cfg.DefaultWorkers,
		SaveNotifications: true,
	})

	registry := providers.NewRegistry()
	engine := dispatch.NewEngine(endpoints, history, dispatch.TimerScheduler{}, nil)

	workers := worker.NewPool(settingsStore.Snapshot(context.Background()).Workers)
	svc := ingest.NewService(registry, engine, history, rawLog, settingsStore, workers)
	svc.StartJanitor(context.Background(), time.Hour)

	// Router
	router := api.NewRouter(cfg, svc, endpoints, history, rawLog, settingsStore)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
