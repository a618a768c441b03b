package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/slidedeck/internal/api"
	"github.com/dgallion1/slidedeck/internal/config"
	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/engine"
	"github.com/dgallion1/slidedeck/internal/fetch"
	"github.com/dgallion1/slidedeck/internal/pipeline"
	"github.com/dgallion1/slidedeck/internal/session"
	"github.com/dgallion1/slidedeck/internal/watch"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the presentation server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default: $PORT or 8090)")
}

// loadConfig applies command-line overrides on top of the environment.
func loadConfig() config.Config {
	cfg := config.Load()
	if dir != "" {
		cfg.PresentationsDir = dir
	}
	if port != "" {
		cfg.Port = port
		if os.Getenv("SLIDEDECK_BASE_URL") == "" {
			cfg.BaseURL = "http://localhost:" + port
		}
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger

	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := fetch.NewClient(cfg.BaseURL, cfg.FetchTimeout)
	defer client.Close()

	stage := deck.NewStage("slidedeck")
	mgr := session.NewManager(stage, engine.NewMarkdown(), log,
		session.WithTransitionHook(func(t session.Transition) {
			log.Debug("session transition", "from", t.From, "to", t.To, "token", t.Token)
		}),
	)

	p := pipeline.New(client, mgr, stage, log, pipeline.WithDelay(cfg.DebounceDelay))
	p.Start(ctx)

	var (
		watcher *watch.Watcher
		apiOpts []api.Option
	)
	if cfg.Watch {
		w, err := watch.New(cfg.PresentationsDir, p, log)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		watcher = w
		apiOpts = append(apiOpts, api.WithWatcher(w))
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewServer(p, stage, log, cfg, apiOpts...),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting slidedeck", "port", cfg.Port, "dir", cfg.PresentationsDir, "watch", cfg.Watch)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	// Graceful shutdown.
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")

		p.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)

		if watcher != nil {
			watcher.Close()
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
