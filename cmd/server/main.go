package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/marianogappa/yaniv-backend/internal/api"
	"github.com/marianogappa/yaniv-backend/internal/config"
	"github.com/marianogappa/yaniv-backend/internal/logging"
	"github.com/marianogappa/yaniv-backend/internal/room"
	"github.com/marianogappa/yaniv-backend/internal/store"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	st, degraded := openStore(cfg.DatabaseURL)
	reg := room.NewRegistry(st)
	reg.SetStaleCleanup(cfg.StalePlayingAfter, cfg.StaleWaitingAfter)
	reg.Recover()

	srv := api.New(reg, degraded)

	logrus.WithField("port", cfg.Port).Info("yaniv-backend: listening")
	if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
		logrus.WithError(err).Fatal("yaniv-backend: server exited")
	}
}

// openStore returns a PostgresStore when DATABASE_URL is set and
// reachable, falling back to the in-memory store otherwise. degraded is
// true whenever persistence is not backed by Postgres, surfaced on
// /api/health.
func openStore(databaseURL string) (store.Store, bool) {
	if databaseURL == "" {
		logrus.Warn("yaniv-backend: DATABASE_URL not set, running with in-memory store (no persistence)")
		return store.NewMemoryStore(), true
	}
	pg, err := store.Open(databaseURL)
	if err != nil {
		logrus.WithError(err).Warn("yaniv-backend: failed to open Postgres, falling back to in-memory store")
		return store.NewMemoryStore(), true
	}
	return pg, false
}
