package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/leadgest/internal/api"
	"github.com/dgallion1/leadgest/internal/config"
	"github.com/dgallion1/leadgest/internal/entity"
	"github.com/dgallion1/leadgest/internal/extract"
	"github.com/dgallion1/leadgest/internal/lead"
	"github.com/dgallion1/leadgest/internal/pathstore"
	"github.com/dgallion1/leadgest/internal/pipeline"
	"github.com/dgallion1/leadgest/internal/sink"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	rules, err := extract.LoadRulesFile(cfg.RulesFile)
	if err != nil {
		log.Error("loading veto rules", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize sinks.
	var sinks sink.Multi
	var store sink.Sink = sink.Discard{}
	var leads api.LeadLister
	var db *sink.SQLite
	if cfg.SQLitePath != "" {
		db, err = sink.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Error("opening sqlite sink", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, db)
		leads = db
	}
	var ps *pathstore.Client
	if cfg.PathstoreURL != "" {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		sinks = append(sinks, sink.NewPathstore(ps))
	}
	if cfg.OutputPath != "" {
		sinks = append(sinks, sink.NewFile(cfg.OutputPath))
	}
	if len(sinks) == 0 {
		log.Warn("no sink configured, records are only returned through the API")
	} else {
		store = sinks
	}

	// Initialize pipeline.
	assembler := lead.NewAssembler(entity.NewDetector(), rules, log)
	orch := pipeline.NewOrchestrator(cfg, assembler, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, leads, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if ps != nil {
			ps.Close()
		}
		if db != nil {
			db.Close()
		}
	}()

	log.Info("starting leadgest", "port", cfg.Port, "workers", cfg.WorkerCount, "sinks", len(sinks))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
