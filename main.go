// chessrules serves pseudo-legal chess games over HTTP and websockets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/account"
	"github.com/hailam/chessrules/internal/config"
	"github.com/hailam/chessrules/internal/logging"
	"github.com/hailam/chessrules/internal/server"
	"github.com/hailam/chessrules/internal/session"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to config.yaml (default: platform data dir)")
	addr       = flag.String("addr", "", "listen address, overrides the config")
	inMemory   = flag.Bool("memory", false, "keep games and accounts in memory only")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chessrules:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions := session.NewManager(store, cfg.Rules, logger)
	defer sessions.Close()

	srv := server.New(sessions, account.NewService(store, logger), store, server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RenderSize:   cfg.Render.Size,
		RenderScale:  cfg.Render.Scale,
	}, logger)

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case s := <-sig:
		logger.Info("shutting down", zap.Stringer("signal", s))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Close(ctx)
}

func loadConfig() (*config.Config, error) {
	path, optional := *configPath, false
	if path == "" {
		p, err := storage.GetConfigPath()
		if err != nil {
			return nil, err
		}
		path, optional = p, true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *inMemory {
		cfg.Storage.InMemory = true
	}
	return cfg, cfg.Validate()
}

func openStorage(cfg *config.Config, logger *zap.Logger) (*storage.Storage, error) {
	if cfg.Storage.InMemory {
		return storage.OpenInMemory(logger)
	}
	dir := cfg.Storage.Dir
	if dir == "" {
		d, err := storage.GetDatabaseDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	logger.Info("opening storage", zap.String("dir", dir))
	return storage.Open(dir, logger)
}
