package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/ecolink/pkg/config"
	"github.com/ritzau/ecolink/pkg/corridor"
	"github.com/ritzau/ecolink/pkg/dataset"
	"github.com/ritzau/ecolink/pkg/habitat"
	"github.com/ritzau/ecolink/pkg/logging"
	"github.com/ritzau/ecolink/pkg/output"
	"github.com/ritzau/ecolink/pkg/watcher"
	"github.com/ritzau/ecolink/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("ecolink", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	level, _ := cfg.LogLevel() // validated by Load
	if cfg.JSONLogs {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}

	// The graph is built once; nothing is served if the dataset is unusable
	records, err := dataset.Load(cfg.Dataset)
	if err != nil {
		logging.Fatal("failed to load dataset", "path", cfg.Dataset, "error", err)
	}
	g := habitat.Build(records)
	logging.Info("habitat graph ready",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"components", g.Components(),
	)

	svc := corridor.NewService(g)

	if cfg.QueryMode() {
		os.Exit(runQuery(svc, cfg.Source, cfg.Destination))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		if err := watchDataset(ctx, cfg.Dataset); err != nil {
			logging.Warn("dataset watch disabled", "error", err)
		}
	}

	server, err := web.NewServer(svc, web.Options{StaticDir: cfg.Static, CORS: cfg.CORS})
	if err != nil {
		logging.Fatal("failed to create web server", "error", err)
	}
	if err := server.Start(ctx, cfg.Addr()); err != nil {
		logging.Fatal("web server failed", "error", err)
	}
}

// runQuery prints one corridor and returns the process exit code
func runQuery(svc *corridor.Service, source, destination string) int {
	c, err := svc.Find(context.Background(), source, destination)
	if err != nil {
		output.PrintError(os.Stderr, err)
		return 1
	}
	output.PrintCorridor(os.Stdout, c)
	return 0
}

// watchDataset logs a warning whenever the dataset file changes. The
// graph is immutable for the process lifetime, so a restart is needed.
func watchDataset(ctx context.Context, path string) error {
	fw, err := watcher.NewFileWatcher(path)
	if err != nil {
		return err
	}
	fw.Start(ctx)

	debouncer := watcher.NewDebouncer(fw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	go func() {
		for ev := range debouncer.Output() {
			if ev.Removed() {
				logging.Warn("dataset removed from disk; the loaded graph stays in use", "path", ev.Path)
				continue
			}
			logging.Warn("dataset changed on disk; restart to load it", "path", ev.Path)
		}
	}()
	return nil
}
