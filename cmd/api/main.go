package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pefman/stfc-combat/internal/api"
	"github.com/pefman/stfc-combat/internal/config"
	"github.com/pefman/stfc-combat/internal/gamedata"
	"github.com/pefman/stfc-combat/internal/logging"
	"github.com/pefman/stfc-combat/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (default $STFC_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	st, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	data, err := gameDataProvider(cfg.GameData, log)
	if err != nil {
		log.Fatal("load game data", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServer(cfg.Simulator, log, st, data).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("STFC combat API listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("store", cfg.Store.Driver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("serve", zap.Error(err))
	}
}

// gameDataProvider prefers a local file, then a remote URL. With neither,
// every lookup misses.
func gameDataProvider(cfg config.GameData, log *zap.Logger) (api.Provider, error) {
	switch {
	case cfg.Path != "":
		gd, err := gamedata.Load(cfg.Path)
		if err != nil {
			return nil, err
		}
		log.Info("game data loaded", zap.String("path", cfg.Path), zap.String("version", gd.Version))
		return api.Static{Data: gd}, nil
	case cfg.URL != "":
		return api.NewClient(api.Config{BaseURL: cfg.URL, TTL: cfg.CacheTTL, Logger: log}), nil
	default:
		log.Warn("no game data configured; names will show as unknown ids")
		return api.Static{}, nil
	}
}
