// chessrules-console plays a game over stdin and stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/config"
	"github.com/hailam/chessrules/internal/console"
	"github.com/hailam/chessrules/internal/logging"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to config.yaml")
	noColor    = flag.Bool("no-color", false, "disable coloured output")
	checks     = flag.Bool("checks", false, "filter moves that leave the king in check")
	castling   = flag.Bool("castling", false, "generate castling moves")
	archive    = flag.Bool("archive", false, "enable save and load through the game database")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chessrules-console:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath, *configPath == "")
	if err != nil {
		return err
	}
	if *checks {
		cfg.Rules.CheckFilter = true
	}
	if *castling {
		cfg.Rules.Castling = true
	}
	if *noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	// Log to stderr so stdout stays readable for scripts.
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var arch console.Archive
	if *archive {
		store, err := openStorage(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		arch = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return console.New(os.Stdin, os.Stdout, cfg.Rules, arch, logger).Run(ctx)
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
	return storage.Open(dir, logger)
}
