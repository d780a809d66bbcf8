package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/wikistore/internal/config"
	"git.home.luguber.info/inful/wikistore/internal/metrics"
	"git.home.luguber.info/inful/wikistore/internal/notify"
	"git.home.luguber.info/inful/wikistore/internal/page"
	"git.home.luguber.info/inful/wikistore/internal/recordstore"
	"git.home.luguber.info/inful/wikistore/internal/reconcile"
	"git.home.luguber.info/inful/wikistore/internal/storage"
)

// PageFlags identifies one page on the command line.
type PageFlags struct {
	Department string `short:"d" required:"" help:"Department short name (e.g. math)"`
	Course     int    `short:"n" required:"" help:"Course number"`
	Term       string `short:"t" required:"" help:"Term (e.g. winter)"`
	Year       int    `short:"y" required:"" help:"Year"`
	Type       string `short:"T" required:"" help:"Page type tag (e.g. lecture_notes)"`
	Slug       string `short:"s" required:"" help:"Page slug"`
}

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write a starter configuration file"`

	Show struct {
		PageFlags
		Anchor string `short:"a" help:"Show only the section under this heading anchor"`
	} `cmd:"" help:"Print a page's raw body (or one section of it)"`

	Save struct {
		PageFlags
		File    string `short:"f" help:"Read the new body from this file instead of stdin"`
		Message string `short:"m" required:"" help:"Commit message"`
		Author  string `short:"u" required:"" help:"Author username"`
	} `cmd:"" help:"Replace a page's full body and commit"`

	SaveSection struct {
		PageFlags
		File    string `short:"f" help:"Read the section body from this file instead of stdin"`
		Message string `short:"m" required:"" help:"Commit message"`
		Author  string `short:"u" required:"" help:"Author username"`
		Start   int    `required:"" help:"First line of the replaced range"`
		End     int    `required:"" help:"Line after the replaced range (half-open)"`
	} `cmd:"" name:"save-section" help:"Replace one line range of a page and commit"`

	Latest struct {
		PageFlags
	} `cmd:"" help:"Print the latest commit hash of a page's course repository"`

	History struct {
		PageFlags
		Limit int `short:"l" default:"10" help:"Number of commits to show (0 for all)"`
	} `cmd:"" help:"Print the commit log of a page's course repository"`

	Reconcile struct {
		Daemon bool `help:"Keep running and sweep periodically"`
	} `cmd:"" help:"Find course repositories with uncommitted changes"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(ctx.Command()); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func run(command string) error {
	if command == "init" {
		return config.WriteStarter(CLI.Config, CLI.Init.Force)
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	configureLogging(cfg)

	env, err := newEnvironment(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	switch command {
	case "show":
		return runShow(env)
	case "save":
		return runSave(env)
	case "save-section":
		return runSaveSection(env)
	case "latest":
		return runLatest(env)
	case "history":
		return runHistory(env)
	case "reconcile":
		return runReconcile(env, cfg)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func configureLogging(cfg *config.Config) {
	if CLI.Verbose {
		return // command line wins
	}
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// environment bundles the wired engine for one command invocation.
type environment struct {
	service *page.Service
	records recordstore.Store
	content *storage.ContentStore
	events  notify.Publisher
}

func newEnvironment(cfg *config.Config) (*environment, error) {
	records, err := recordstore.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	var events notify.Publisher = notify.NoopPublisher{}
	if cfg.Events.Enabled {
		events, err = notify.NewNATSPublisher(cfg.Events.URL, cfg.Events.Subject)
		if err != nil {
			_ = records.Close()
			return nil, err
		}
	}

	content := storage.NewContentStore(cfg.ContentRoot)
	service := page.NewService(content, records, page.Options{
		Metrics:           metrics.NoopRecorder{},
		Events:            events,
		AuthorEmailDomain: cfg.AuthorEmailDomain,
	})
	return &environment{
		service: service,
		records: records,
		content: content,
		events:  events,
	}, nil
}

func (e *environment) Close() {
	e.events.Close()
	_ = e.records.Close()
}

func runReconcile(env *environment, cfg *config.Config) error {
	if !CLI.Reconcile.Daemon {
		checker := reconcile.NewChecker(env.content.Root(), nil)
		dirty, err := checker.Check(context.Background())
		if err != nil {
			return err
		}
		for _, root := range dirty {
			fmt.Println(root)
		}
		if len(dirty) > 0 {
			return fmt.Errorf("%d repository(ies) with uncommitted changes", len(dirty))
		}
		return nil
	}

	registry := prom.NewRegistry()
	checker := reconcile.NewChecker(env.content.Root(), metrics.NewPrometheusRecorder(registry))

	monitor, err := reconcile.NewMonitor(checker, cfg.Reconcile.Interval.Std(), cfg.Reconcile.Watch)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := monitor.Start(ctx); err != nil {
		return err
	}

	if cfg.Reconcile.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
		srv := &http.Server{
			Addr:              cfg.Reconcile.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("Serving reconcile metrics", "addr", cfg.Reconcile.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("Shutting down reconcile monitor")
	return monitor.Stop()
}
